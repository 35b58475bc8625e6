package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/game-reviews/internal/domain"
)

// ReviewsRepository provides helpers for per-user game reviews.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

// Upsert inserts or replaces the review for (UserID, GameID) and indicates
// whether it was newly created.
func (r *ReviewsRepository) Upsert(ctx context.Context, review domain.Review) (bool, error) {
	const query = `
        INSERT INTO games_played (user_id, game_id, rating_score, review_comment)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, game_id)
        DO UPDATE SET rating_score = EXCLUDED.rating_score,
                      review_comment = EXCLUDED.review_comment,
                      updated_at = now()
        RETURNING (xmax = 0) AS inserted
    `

	var inserted bool
	err := r.pool.QueryRow(ctx, query, review.UserID, review.GameID, review.Score, review.Comment).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert review: %w", err)
	}
	return inserted, nil
}

// Get retrieves the review a user left for a game.
func (r *ReviewsRepository) Get(ctx context.Context, userID, gameID int64) (domain.Review, error) {
	const query = `
        SELECT user_id, game_id, rating_score, review_comment, created_at, updated_at
        FROM games_played
        WHERE user_id = $1 AND game_id = $2
    `

	var review domain.Review
	err := r.pool.QueryRow(ctx, query, userID, gameID).Scan(
		&review.UserID,
		&review.GameID,
		&review.Score,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// Aggregate returns the score sum and review count for a game. A game with no
// reviews yields a zero aggregate and a nil error.
func (r *ReviewsRepository) Aggregate(ctx context.Context, gameID int64) (domain.ReviewAggregate, error) {
	const query = `
        SELECT COALESCE(SUM(rating_score), 0)::float8 AS total,
               COUNT(*)::int8 AS count
        FROM games_played
        WHERE game_id = $1
    `

	var agg domain.ReviewAggregate
	if err := r.pool.QueryRow(ctx, query, gameID).Scan(&agg.Total, &agg.Count); err != nil {
		return domain.ReviewAggregate{}, fmt.Errorf("aggregate reviews: %w", err)
	}
	return agg, nil
}
