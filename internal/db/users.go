package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
)

// User persistence
func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}

	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at
	`

	var created models.User
	err := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash).Scan(
		&created.ID,
		&created.Username,
		&created.Email,
		&created.PasswordHash,
		&created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.AlreadyExists("user")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	const query = `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// UpdatePasswordHash replaces the stored hash of the user with email.
func (s *Store) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	if s.pool == nil {
		return errNotInitialized
	}
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE email = $2`, hash, email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user", email)
	}
	return nil
}
