package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sguter90/microclimate/pkg/models"
)

// LoginResponse is returned by a successful JSON login
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login exchanges credentials for a session token and keeps it for later calls
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := jsonBody(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/login", body, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var login LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.token = login.Token
	return &login, nil
}
