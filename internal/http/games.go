package httpserver

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/game-reviews/internal/catalog"
	"github.com/Clark-Hu/game-reviews/internal/domain"
	"github.com/Clark-Hu/game-reviews/internal/repository"
	"github.com/Clark-Hu/game-reviews/internal/session"
)

const (
	minReviewScore   = 0
	maxReviewScore   = 100
	maxReviewComment = 4000

	reviewStatusSuccess = "success"
	reviewStatusError   = "error"
)

func (s *Server) handleGameDetails(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameId"), 10, 64)
	if err != nil {
		s.render(w, http.StatusNotFound, viewNotFound, nil)
		return
	}

	ctx := r.Context()
	game, err := s.catalog.GameByID(ctx, gameID)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			s.logger.Error("fetch game", "game_id", gameID, "error", err)
		}
		s.render(w, http.StatusNotFound, viewNotFound, nil)
		return
	}

	page := gameDetailsPage{
		IsGuest:      true,
		ReviewStatus: reviewStatusParam(r.URL.Query()),
	}

	userID, err := s.identity.Identify(r)
	switch {
	case err == nil:
		page.IsGuest = false
	case errors.Is(err, session.ErrMalformed):
		s.logger.Warn("unreadable identity cookie", "error", err)
	}

	if !page.IsGuest {
		review, err := s.repo.Reviews.Get(ctx, userID, gameID)
		switch {
		case err == nil:
			page.UserReview = &review
		case !errors.Is(err, repository.ErrNotFound):
			s.logger.Error("load user review", "user_id", userID, "game_id", gameID, "error", err)
		}
	}

	agg, err := s.repo.Reviews.Aggregate(ctx, gameID)
	if err != nil {
		s.logger.Error("aggregate reviews", "game_id", gameID, "error", err)
	} else {
		game = mergeRatings(game, agg)
	}

	page.Game = game
	s.render(w, http.StatusOK, viewGameDetails, page)
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, identErr := s.identity.Identify(r)
	if errors.Is(identErr, session.ErrNoIdentity) {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	if err := parseForm(w, r); err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Unable to parse form")
		return
	}
	gameID, err := strconv.ParseInt(strings.TrimSpace(r.PostForm.Get("gameId")), 10, 64)
	if err != nil || gameID <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid gameId value")
		return
	}

	if identErr != nil {
		s.logger.Warn("review rejected: unreadable identity", "game_id", gameID, "error", identErr)
		s.redirectReviewStatus(w, r, gameID, reviewStatusError)
		return
	}

	review, err := parseReview(r.PostForm)
	if err != nil {
		s.logger.Info("review rejected", "user_id", userID, "game_id", gameID, "error", err)
		s.redirectReviewStatus(w, r, gameID, reviewStatusError)
		return
	}
	review.UserID = userID
	review.GameID = gameID

	inserted, err := s.repo.Reviews.Upsert(r.Context(), review)
	if err != nil {
		s.logger.Error("save review", "user_id", userID, "game_id", gameID, "error", err)
		s.redirectReviewStatus(w, r, gameID, reviewStatusError)
		return
	}
	s.logger.Info("review saved", "user_id", userID, "game_id", gameID, "inserted", inserted)
	s.redirectReviewStatus(w, r, gameID, reviewStatusSuccess)
}

func parseReview(form url.Values) (domain.Review, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(form.Get("ratingScore")), 64)
	if err != nil || math.IsNaN(score) {
		return domain.Review{}, fmt.Errorf("invalid ratingScore")
	}
	if score < minReviewScore || score > maxReviewScore {
		return domain.Review{}, fmt.Errorf("ratingScore out of range")
	}
	comment := strings.TrimSpace(form.Get("reviewComment"))
	if len(comment) > maxReviewComment {
		return domain.Review{}, fmt.Errorf("reviewComment too long")
	}
	return domain.Review{Score: score, Comment: comment}, nil
}

func (s *Server) redirectReviewStatus(w http.ResponseWriter, r *http.Request, gameID int64, status string) {
	target := fmt.Sprintf("/game/%d?reviewStatus=%s", gameID, status)
	http.Redirect(w, r, target, http.StatusFound)
}

func reviewStatusParam(query url.Values) string {
	switch status := query.Get("reviewStatus"); status {
	case reviewStatusSuccess, reviewStatusError:
		return status
	default:
		return ""
	}
}

// mergeRatings folds local reviews into the catalog rating:
// round2((R*C + S) / (C + N)) over C + N reviews.
func mergeRatings(game domain.VideoGame, agg domain.ReviewAggregate) domain.VideoGame {
	count := int64(game.ReviewCount) + agg.Count
	if count <= 0 {
		game.Rating = 0
		game.ReviewCount = 0
		return game
	}
	total := game.Rating*float64(game.ReviewCount) + agg.Total
	game.Rating = catalog.Round2(total / float64(count))
	game.ReviewCount = int(count)
	return game
}
