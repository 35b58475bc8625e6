package httpserver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/game-reviews/internal/domain"
)

func TestTemplateRendererViews(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	game := domain.VideoGame{ID: 1942, Name: "The Witcher 3", Rating: 82.5, ReviewCount: 4, ImageURL: domain.NoImage}
	tests := []struct {
		view string
		data interface{}
		want string
	}{
		{viewHome, authPage{Error: msgInvalidLogin}, msgInvalidLogin},
		{viewHome, nil, `action="/auth/login"`},
		{viewRegister, authPage{Error: "taken"}, "taken"},
		{viewSearch, searchPage{Games: []domain.VideoGame{game}}, `href="/game/1942"`},
		{viewSearch, searchPage{}, "No games found."},
		{viewGameDetails, gameDetailsPage{Game: game, IsGuest: true}, "to leave a review"},
		{viewGameDetails, gameDetailsPage{Game: game, UserReview: &domain.Review{Score: 90, Comment: "nice"}, ReviewStatus: "success"}, "Review saved."},
		{viewNotFound, nil, "Page not found"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, tt.view, tt.data), tt.view)
		assert.Contains(t, buf.String(), tt.want, tt.view)
	}
}

func TestTemplateRendererEscapes(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, viewSearch, searchPage{Games: []domain.VideoGame{{ID: 1, Name: "<script>x</script>"}}}))
	assert.NotContains(t, buf.String(), "<script>x")
}

func TestTemplateRendererUnknownView(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "missing", nil))
}
