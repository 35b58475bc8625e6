package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/game-reviews/internal/domain"
)

// UsersRepository persists accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
	cost int
}

// Exists reports whether the username is already registered.
func (r *UsersRepository) Exists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// Create registers a user and returns the generated id in a single statement.
// ErrUsernameTaken is returned if the username is already in use.
func (r *UsersRepository) Create(ctx context.Context, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	const query = `
        INSERT INTO users (username, password_hash)
        VALUES ($1, $2)
        ON CONFLICT (username) DO NOTHING
        RETURNING user_id
    `

	var id int64
	err = r.pool.QueryRow(ctx, query, username, string(hash)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// GetByUsername loads a user row.
func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `
        SELECT user_id, username, password_hash, created_at
        FROM users
        WHERE username = $1
    `

	var u domain.User
	err := r.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// Authenticate returns the user id when the password matches the stored hash.
func (r *UsersRepository) Authenticate(ctx context.Context, username, password string) (int64, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return u.ID, nil
}
