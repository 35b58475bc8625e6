package domain

import "time"

// Review is a single user's rating and comment for a catalog game.
type Review struct {
	UserID    int64
	GameID    int64
	Score     float64
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewAggregate is the sum and count of local review scores for a game.
type ReviewAggregate struct {
	Total float64
	Count int64
}
