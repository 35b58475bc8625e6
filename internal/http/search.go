package httpserver

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Clark-Hu/game-reviews/internal/catalog"
	"github.com/Clark-Hu/game-reviews/internal/domain"
)

const (
	defaultPageSize = 10
	// maxPageSize is the largest page the upstream accepts.
	maxPageSize     = 500
)

func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	games, err := s.catalog.List(r.Context(), catalog.ListOptions{Limit: defaultPageSize})
	if err != nil {
		s.logger.Error("list games", "error", err)
		games = nil
	}
	s.render(w, http.StatusOK, viewSearch, searchPage{Games: games})
}

func (s *Server) handleAPIGames(w http.ResponseWriter, r *http.Request) {
	setNoCache(w)

	opts, err := buildListOptions(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	games, err := s.catalog.List(r.Context(), opts)
	if err != nil {
		s.logger.Error("list games", "query", opts.Query, "error", err)
		games = nil
	}
	if games == nil {
		games = []domain.VideoGame{}
	}
	s.respondJSON(w, http.StatusOK, games)
}

func buildListOptions(query url.Values) (catalog.ListOptions, error) {
	opts := catalog.ListOptions{
		Limit:     defaultPageSize,
		SortBy:    "name",
		SortOrder: "asc",
	}

	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil || limit < 1 || limit > maxPageSize {
			return opts, fmt.Errorf("invalid limit value")
		}
		opts.Limit = limit
	}
	if val := strings.TrimSpace(query.Get("offset")); val != "" {
		offset, err := strconv.Atoi(val)
		if err != nil || offset < 0 {
			return opts, fmt.Errorf("invalid offset value")
		}
		opts.Offset = offset
	}

	// Search mode ignores filters and sort entirely.
	if opts.Query = strings.TrimSpace(query.Get("query")); opts.Query != "" {
		opts.SortBy, opts.SortOrder = "", ""
		return opts, nil
	}

	opts.Genre = strings.TrimSpace(query.Get("filterGenre"))
	opts.Platform = strings.TrimSpace(query.Get("filterPlatform"))

	if val := strings.TrimSpace(query.Get("filterRating")); val != "" {
		rating, err := strconv.ParseFloat(val, 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return opts, fmt.Errorf("invalid filterRating value")
		}
		opts.MinRating = &rating
	}
	if val := strings.TrimSpace(query.Get("sortBy")); val != "" {
		opts.SortBy = val
	}
	if val := strings.TrimSpace(query.Get("sortOrder")); val != "" {
		opts.SortOrder = strings.ToLower(val)
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid sort parameters")
	}
	return opts, nil
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	names, err := s.catalog.Genres(r.Context())
	s.respondNames(w, "genres", names, err)
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	names, err := s.catalog.Platforms(r.Context())
	s.respondNames(w, "platforms", names, err)
}

func (s *Server) respondNames(w http.ResponseWriter, kind string, names []string, err error) {
	if err != nil {
		s.logger.Error("list taxonomy", "kind", kind, "error", err)
		names = nil
	}
	if names == nil {
		names = []string{}
	}
	s.respondJSON(w, http.StatusOK, names)
}
