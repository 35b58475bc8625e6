package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/game-reviews/internal/catalog"
	"github.com/Clark-Hu/game-reviews/internal/domain"
)

func assertNoCache(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestSearchPageRendersFirstPage(t *testing.T) {
	env := buildTestServer(t)
	games := []domain.VideoGame{{ID: 1, Name: "Tetris"}}
	env.catalog.On("List", mock.Anything, catalog.ListOptions{Limit: 10}).Return(games, nil).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/search", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	view, data := env.views.last()
	assert.Equal(t, viewSearch, view)
	assert.Equal(t, searchPage{Games: games}, data)
	env.catalog.AssertExpectations(t)
}

func TestSearchPageUpstreamFailure(t *testing.T) {
	env := buildTestServer(t)
	env.catalog.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/search", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := env.views.last()
	assert.Empty(t, data.(searchPage).Games)
}

func TestAPIGamesSearchIgnoresFilters(t *testing.T) {
	env := buildTestServer(t)
	env.catalog.On("List", mock.Anything, mock.MatchedBy(func(o catalog.ListOptions) bool {
		return o.Query == "foo" && o.Limit == 10 && o.Offset == 0
	})).Return([]domain.VideoGame{{ID: 3, Name: "Foo Fighters"}}, nil).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/games?query=foo&filterGenre=Action&sortBy=rating&sortOrder=desc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assertNoCache(t, rec)

	var got []domain.VideoGame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Foo Fighters", got[0].Name)

	// The catalog receives the query; search mode drops filter and sort when
	// the upstream query text is built.
	opts := env.catalog.Calls[0].Arguments.Get(1).(catalog.ListOptions)
	q, err := catalog.BuildListQuery(opts)
	require.NoError(t, err)
	assert.NotContains(t, q, "where")
	assert.NotContains(t, q, "sort")
	env.catalog.AssertExpectations(t)
}

func TestAPIGamesSearchSkipsFilterValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "unknown sort field", query: "query=zelda&sortBy=summary"},
		{name: "unknown sort order", query: "query=zelda&sortOrder=random"},
		{name: "non-numeric rating", query: "query=zelda&filterRating=high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := buildTestServer(t)
			want := catalog.ListOptions{Limit: 10, Query: "zelda"}
			env.catalog.On("List", mock.Anything, want).Return([]domain.VideoGame{{ID: 1026, Name: "Zelda"}}, nil).Once()

			rec := env.do(httptest.NewRequest(http.MethodGet, "/api/games?"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assertNoCache(t, rec)
			env.catalog.AssertExpectations(t)
		})
	}
}

func TestAPIGamesFiltersAndSort(t *testing.T) {
	env := buildTestServer(t)
	rating := 75.0
	want := catalog.ListOptions{
		Limit:     20,
		Offset:    40,
		Genre:     "Action",
		Platform:  "PC",
		MinRating: &rating,
		SortBy:    "rating",
		SortOrder: "desc",
	}
	env.catalog.On("List", mock.Anything, want).Return([]domain.VideoGame{}, nil).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet,
		"/api/games?limit=20&offset=40&filterGenre=Action&filterPlatform=PC&filterRating=75&sortBy=rating&sortOrder=DESC", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	env.catalog.AssertExpectations(t)
}

func TestAPIGamesDefaults(t *testing.T) {
	env := buildTestServer(t)
	want := catalog.ListOptions{Limit: 10, SortBy: "name", SortOrder: "asc"}
	env.catalog.On("List", mock.Anything, want).Return([]domain.VideoGame{}, nil).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env.catalog.AssertExpectations(t)
}

func TestAPIGamesBadParams(t *testing.T) {
	env := buildTestServer(t)

	for _, raw := range []string{
		"limit=abc",
		"limit=0",
		"limit=100000",
		"offset=-1",
		"filterRating=high",
		"filterRating=NaN",
		"sortBy=summary",
		"sortOrder=random",
	} {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/games?"+raw, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
		assertNoCache(t, rec)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), raw)
		assert.Equal(t, "BAD_REQUEST", body.Code, raw)
	}
	env.catalog.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAPIGamesUpstreamFailureReturnsEmptyArray(t *testing.T) {
	env := buildTestServer(t)
	env.catalog.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("upstream down")).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assertNoCache(t, rec)
}

func TestTaxonomyEndpoints(t *testing.T) {
	env := buildTestServer(t)
	env.catalog.On("Genres", mock.Anything).Return([]string{"Puzzle", "Shooter"}, nil).Once()
	env.catalog.On("Platforms", mock.Anything).Return(nil, errors.New("timeout")).Once()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/genres", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Puzzle","Shooter"]`, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/platforms", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	env.catalog.AssertExpectations(t)
}

func TestBuildListOptions(t *testing.T) {
	values, _ := url.ParseQuery("limit=25&offset=5&filterGenre= RPG &filterRating=80.5&sortBy=first_release_date&sortOrder=Desc")

	opts, err := buildListOptions(values)
	require.NoError(t, err)
	assert.Empty(t, opts.Query)
	assert.Equal(t, 25, opts.Limit)
	assert.Equal(t, 5, opts.Offset)
	assert.Equal(t, "RPG", opts.Genre)
	require.NotNil(t, opts.MinRating)
	assert.Equal(t, 80.5, *opts.MinRating)
	assert.Equal(t, "first_release_date", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)
}

func TestBuildListOptionsSearchDropsFilters(t *testing.T) {
	values, _ := url.ParseQuery("query= zelda &limit=25&offset=5&filterGenre=RPG&filterRating=high&sortBy=summary&sortOrder=random")

	opts, err := buildListOptions(values)
	require.NoError(t, err)
	assert.Equal(t, catalog.ListOptions{Limit: 25, Offset: 5, Query: "zelda"}, opts)

	_, err = buildListOptions(url.Values{"query": {"zelda"}, "limit": {"0"}})
	assert.Error(t, err)
}

func TestBuildListOptionsEmptyRatingIsUnset(t *testing.T) {
	values, _ := url.ParseQuery("filterRating=")
	opts, err := buildListOptions(values)
	require.NoError(t, err)
	assert.Nil(t, opts.MinRating)
}
