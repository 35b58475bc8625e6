package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Clark-Hu/game-reviews/internal/domain"
)

type rawGame struct {
	ID                int64                `json:"id"`
	Name              *string              `json:"name"`
	Genres            []rawNamed           `json:"genres"`
	Platforms         []rawNamed           `json:"platforms"`
	InvolvedCompanies []rawInvolvedCompany `json:"involved_companies"`
	Rating            *float64             `json:"rating"`
	TotalRatingCount  *int                 `json:"total_rating_count"`
	Summary           *string              `json:"summary"`
	Cover             *rawCover            `json:"cover"`
	FirstReleaseDate  *int64               `json:"first_release_date"`
}

type rawNamed struct {
	Name *string `json:"name"`
}

type rawCover struct {
	URL *string `json:"url"`
}

type rawInvolvedCompany struct {
	Company   *rawNamed `json:"company"`
	Developer bool      `json:"developer"`
	Publisher bool      `json:"publisher"`
}

// MapGames decodes an upstream game array into VideoGames, filling defaults
// for any missing attribute.
func MapGames(body []byte) ([]domain.VideoGame, error) {
	var raws []rawGame
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	games := make([]domain.VideoGame, 0, len(raws))
	for _, raw := range raws {
		games = append(games, mapGame(raw))
	}
	return games, nil
}

// MapNames extracts the name of every record, e.g. from the genres endpoint.
func MapNames(body []byte) ([]string, error) {
	var raws []rawNamed
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decode names: %w", err)
	}
	names := make([]string, 0, len(raws))
	for _, raw := range raws {
		names = append(names, stringOr(raw.Name, domain.UnknownValue))
	}
	return names, nil
}

func mapGame(raw rawGame) domain.VideoGame {
	game := domain.VideoGame{
		ID:                raw.ID,
		Name:              stringOr(raw.Name, domain.UnknownGameName),
		Genre:             joinNames(raw.Genres),
		Platform:          joinNames(raw.Platforms),
		InvolvedCompanies: joinCompanies(raw.InvolvedCompanies),
		MaturityRating:    domain.UnknownValue,
		Description:       stringOr(raw.Summary, domain.NoDescription),
		ImageURL:          domain.NoImage,
		Developer:         companyByRole(raw.InvolvedCompanies, func(c rawInvolvedCompany) bool { return c.Developer }),
		Publisher:         companyByRole(raw.InvolvedCompanies, func(c rawInvolvedCompany) bool { return c.Publisher }),
		ReleaseDate:       domain.UnknownValue,
	}
	if raw.Rating != nil {
		game.Rating = Round2(*raw.Rating)
	}
	if raw.TotalRatingCount != nil {
		game.ReviewCount = *raw.TotalRatingCount
	}
	if raw.Cover != nil {
		game.ImageURL = stringOr(raw.Cover.URL, domain.NoImage)
	}
	if raw.FirstReleaseDate != nil {
		game.ReleaseDate = time.Unix(*raw.FirstReleaseDate, 0).UTC().Format(domain.ReleaseDateLayout)
	}
	return game
}

func joinNames(items []rawNamed) string {
	if len(items) == 0 {
		return domain.UnknownValue
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, stringOr(item.Name, domain.UnknownValue))
	}
	return strings.Join(names, ", ")
}

// joinCompanies skips involvement records that carry no company object.
func joinCompanies(items []rawInvolvedCompany) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Company == nil {
			continue
		}
		names = append(names, stringOr(item.Company.Name, domain.UnknownValue))
	}
	if len(names) == 0 {
		return domain.UnknownValue
	}
	return strings.Join(names, ", ")
}

func companyByRole(items []rawInvolvedCompany, match func(rawInvolvedCompany) bool) string {
	for _, item := range items {
		if !match(item) {
			continue
		}
		if item.Company == nil {
			return domain.UnknownValue
		}
		return stringOr(item.Company.Name, domain.UnknownValue)
	}
	return domain.UnknownValue
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func stringOr(ptr *string, fallback string) string {
	if ptr == nil {
		return fallback
	}
	return *ptr
}
