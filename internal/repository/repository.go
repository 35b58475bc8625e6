package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/game-reviews/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("repository: username already exists")
	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("repository: invalid credentials")
)

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users   *UsersRepository
	Reviews *ReviewsRepository
}

// Option tweaks repository construction.
type Option func(*Repository)

// WithPasswordCost sets the bcrypt cost used for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(r *Repository) {
		r.Users.cost = cost
	}
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store, opts ...Option) *Repository {
	return NewWithPool(st.Pool(), opts...)
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool, opts ...Option) *Repository {
	r := &Repository{
		Users:   &UsersRepository{pool: pool, cost: bcrypt.DefaultCost},
		Reviews: &ReviewsRepository{pool: pool},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
