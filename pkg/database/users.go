package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserInactive is returned when a deactivated account tries to log in
	ErrUserInactive = errors.New("account is inactive")
)

const passwordHashPrefix = "v2:"

// hashPassword creates a SHA-256 hash of the password to handle passwords longer than 72 bytes
func hashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}

// generatePasswordHash returns the stored form of a password
func generatePasswordHash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(hashPassword(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return passwordHashPrefix + string(hashed), nil
}

// checkPasswordHash compares a password against its stored form
func checkPasswordHash(stored, password string) bool {
	actual, ok := strings.CutPrefix(stored, passwordHashPrefix)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(actual), []byte(hashPassword(password))) == nil
}

const userColumns = `user_id, username, email, full_name, is_active, created_at, last_login`

// CreateUser validates the signup request and stores a new active user
func (dm *DatabaseManager) CreateUser(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := generatePasswordHash(req.Password)
	if err != nil {
		return nil, err
	}

	var fullName *string
	if req.FullName != "" {
		fullName = &req.FullName
	}

	query := `
        INSERT INTO users (username, email, password_hash, full_name)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + userColumns

	var user models.User
	err = dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return classifyError(tx.GetContext(ctx, &user, query, req.Username, req.Email, passwordHash, fullName))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ValidateUser checks username and password, refuses inactive accounts
// and records the login time on success.
func (dm *DatabaseManager) ValidateUser(ctx context.Context, username, password string) (*models.User, error) {
	query := `
        SELECT ` + userColumns + `, password_hash
        FROM users
        WHERE username = $1
    `

	var row struct {
		models.User
		PasswordHash string `db:"password_hash"`
	}

	if err := dm.getWithHealthCheck(ctx, &row, query, strings.TrimSpace(username)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !checkPasswordHash(row.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !row.IsActive {
		return nil, ErrUserInactive
	}

	user := row.User
	err := dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &user.LastLogin,
			`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE user_id = $1 RETURNING last_login`, user.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return &user, nil
}

// GetUser returns a user by ID
func (dm *DatabaseManager) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	if err := dm.getWithHealthCheck(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserActive activates or deactivates an account
func (dm *DatabaseManager) SetUserActive(ctx context.Context, username string, active bool) error {
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, `UPDATE users SET is_active = $1 WHERE username = $2`, active, username)
	})
}

// SetUserPassword replaces the password of an account
func (dm *DatabaseManager) SetUserPassword(ctx context.Context, username, password string) error {
	if len(password) < models.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", models.ErrValidation, models.MinPasswordLength)
	}

	passwordHash, err := generatePasswordHash(password)
	if err != nil {
		return err
	}

	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, `UPDATE users SET password_hash = $1 WHERE username = $2`, passwordHash, username)
	})
}
