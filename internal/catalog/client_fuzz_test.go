package catalog

import (
	"strings"
	"testing"
)

func FuzzBuildListQuery(f *testing.F) {
	f.Add("zelda", "RPG", "PC", "rating", "desc", 10, 0)
	f.Add("", `a"b\c`, "", "name", "", 1, 5)

	f.Fuzz(func(t *testing.T, query, genre, platform, sortBy, sortOrder string, limit, offset int) {
		q, err := BuildListQuery(ListOptions{
			Limit:     limit,
			Offset:    offset,
			Query:     query,
			Genre:     genre,
			Platform:  platform,
			SortBy:    sortBy,
			SortOrder: sortOrder,
		})
		if err != nil {
			return
		}
		if !strings.HasPrefix(q, gameFields) {
			t.Fatalf("query lost its projection: %q", q)
		}
		if strings.TrimSpace(query) != "" && strings.Contains(q[len(gameFields):], " where ") &&
			!strings.Contains(query, "where") {
			t.Fatalf("search query carries filters: %q", q)
		}
	})
}

func FuzzMapGames(f *testing.F) {
	f.Add([]byte(fullGameJSON))
	f.Add([]byte(`[{"id": 1}]`))
	f.Add([]byte(`[]`))

	f.Fuzz(func(t *testing.T, body []byte) {
		games, err := MapGames(body)
		if err != nil {
			return
		}
		for _, g := range games {
			if g.MaturityRating != "Unknown" {
				t.Fatalf("maturity rating = %q", g.MaturityRating)
			}
			if g.ReleaseDate == "" {
				t.Fatalf("release date should never be empty")
			}
		}
	})
}
