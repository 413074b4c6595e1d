// Package auth verifies credentials and issues the bearer tokens that gate
// the write endpoints.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, email, hash string) error
}

type Service struct {
	users  UserStore
	tokens *TokenManager
}

func NewService(users UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login returns a signed token for the user with email. It returns
// apperr.ErrNotFound for an unknown email and apperr.ErrInvalidCredential
// for a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.ErrInvalidCredential
	}

	return s.tokens.Issue(user.ID, user.Username)
}

// Register creates a user with a bcrypt hash of password.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.AlreadyExists("user")
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	return user, nil
}

// SetPassword re-hashes the password of an existing user.
func (s *Service) SetPassword(ctx context.Context, email, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, email, hash)
}
