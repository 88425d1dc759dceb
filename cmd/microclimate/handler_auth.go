package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/database"
	"github.com/sguter90/microclimate/pkg/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type signupPayload struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

func isJSONBody(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

// wantsJSON reports whether the client asked for a JSON answer instead of a redirect
func wantsJSON(r *http.Request) bool {
	return isJSONBody(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (rm *RouteManager) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"next": safeNext(r.URL.Query().Get("next"))})
}

func parseLoginRequest(r *http.Request) (LoginRequest, error) {
	var req LoginRequest
	if isJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("%w: invalid request body", models.ErrValidation)
		}
	} else {
		form, err := newFormReader(r)
		if err != nil {
			return req, err
		}
		req = LoginRequest{
			Username: form.String("username"),
			Password: form.r.PostForm.Get("password"),
			Next:     form.String("next"),
		}
		if req.Next == "" {
			req.Next = r.URL.Query().Get("next")
		}
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return req, fmt.Errorf("%w: username and password are required", models.ErrValidation)
	}
	return req, nil
}

func (rm *RouteManager) loginHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseLoginRequest(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	// Validate credentials
	user, err := rm.dbManager.ValidateUser(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, database.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	case errors.Is(err, database.ErrUserInactive):
		writeError(w, http.StatusForbidden, "Account is deactivated")
		return
	case err != nil:
		writeStoreError(w, r, err, "")
		return
	}

	token, expiresAt, err := GenerateJWT(user, rm.jwtSecret)
	if err != nil {
		writeStoreError(w, r, fmt.Errorf("failed to generate token: %w", err), "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	zerolog.Ctx(r.Context()).Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User logged in")

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, User: user})
		return
	}
	http.Redirect(w, r, safeNext(req.Next), http.StatusSeeOther)
}

func (rm *RouteManager) logoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (rm *RouteManager) signupPageHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"min_password_length": models.MinPasswordLength})
}

func parseSignupRequest(r *http.Request) (models.SignupRequest, error) {
	var p signupPayload
	if isJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return models.SignupRequest{}, fmt.Errorf("%w: invalid request body", models.ErrValidation)
		}
	} else {
		form, err := newFormReader(r)
		if err != nil {
			return models.SignupRequest{}, err
		}
		p = signupPayload{
			Username:        form.String("username"),
			Email:           form.String("email"),
			Password:        form.r.PostForm.Get("password"),
			ConfirmPassword: form.r.PostForm.Get("confirm_password"),
			FullName:        form.String("full_name"),
		}
	}

	req := models.SignupRequest(p)
	return req, req.Validate()
}

func (rm *RouteManager) signupHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseSignupRequest(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	user, err := rm.dbManager.CreateUser(r.Context(), req)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User signed up")

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, user)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (rm *RouteManager) meHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	user, err := rm.dbManager.GetUser(r.Context(), claims.ID)
	if err != nil {
		writeStoreError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
