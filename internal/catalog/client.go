// Package catalog talks to the IGDB-compatible game metadata API and maps its
// responses into domain.VideoGame values.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Clark-Hu/game-reviews/internal/domain"
)

// ErrNotFound is returned when upstream has no game with the requested id.
var ErrNotFound = errors.New("catalog: not found")

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// Client defines the contract for querying the upstream catalog.
type Client interface {
	List(ctx context.Context, opts ListOptions) ([]domain.VideoGame, error)
	GameByID(ctx context.Context, id int64) (domain.VideoGame, error)
	Genres(ctx context.Context) ([]string, error)
	Platforms(ctx context.Context) ([]string, error)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL     string
	ClientID    string
	AccessToken string
	Timeout     time.Duration
	Logger      *slog.Logger
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL     *url.URL
	clientID    string
	accessToken string
	client      *http.Client
	logger      *slog.Logger
}

// NewHTTPClient constructs a new HTTP-backed catalog client.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse catalog url: %q is not absolute", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:     parsed,
		clientID:    opts.ClientID,
		accessToken: opts.AccessToken,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// List returns one page of games, either a text search or a filtered listing.
func (c *HTTPClient) List(ctx context.Context, opts ListOptions) ([]domain.VideoGame, error) {
	query, err := BuildListQuery(opts)
	if err != nil {
		return nil, err
	}
	body, err := c.post(ctx, "games", query)
	if err != nil {
		return nil, err
	}
	return MapGames(body)
}

// GameByID fetches a single game.
func (c *HTTPClient) GameByID(ctx context.Context, id int64) (domain.VideoGame, error) {
	body, err := c.post(ctx, "games", BuildByIDQuery(id))
	if err != nil {
		return domain.VideoGame{}, err
	}
	games, err := MapGames(body)
	if err != nil {
		return domain.VideoGame{}, err
	}
	if len(games) == 0 {
		return domain.VideoGame{}, ErrNotFound
	}
	return games[0], nil
}

// Genres lists every genre name.
func (c *HTTPClient) Genres(ctx context.Context) ([]string, error) {
	return c.names(ctx, "genres")
}

// Platforms lists every platform name.
func (c *HTTPClient) Platforms(ctx context.Context) ([]string, error) {
	return c.names(ctx, "platforms")
}

func (c *HTTPClient) names(ctx context.Context, endpoint string) ([]string, error) {
	body, err := c.post(ctx, endpoint, namesQuery)
	if err != nil {
		return nil, err
	}
	return MapNames(body)
}

func (c *HTTPClient) post(ctx context.Context, endpoint, query string) ([]byte, error) {
	target := c.baseURL.JoinPath(endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewBufferString(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog: unexpected status",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"duration", time.Since(started),
		)
		return nil, fmt.Errorf("catalog: %s returned %d", endpoint, resp.StatusCode)
	}

	c.logger.Debug("catalog: request completed",
		"endpoint", endpoint,
		"bytes", len(body),
		"duration", time.Since(started),
	)
	return body, nil
}
