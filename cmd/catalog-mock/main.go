// Command catalog-mock serves a small IGDB-compatible catalog from a JSON file
// so the server can run without upstream credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/game-reviews/internal/logger"
)

// mockData is the on-disk format: raw game records plus taxonomy names.
type mockData struct {
	Games     []map[string]any `json:"games"`
	Genres    []string         `json:"genres"`
	Platforms []string         `json:"platforms"`
}

func main() {
	var (
		port     = flag.String("port", "9099", "port to listen on")
		data     = flag.String("data", "cmd/catalog-mock/mock-catalog.json", "path to mock data file")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.New(logger.Options{Level: *logLevel, Format: "text"})

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Error("read mock data", "error", err)
		os.Exit(1)
	}
	var payload mockData
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Error("parse mock data", "error", err)
		os.Exit(1)
	}
	log.Info("loaded mock catalog", "games", len(payload.Games), "genres", len(payload.Genres), "platforms", len(payload.Platforms))

	addr := ":" + *port
	log.Info("mock catalog listening", "addr", addr)
	if err := http.ListenAndServe(addr, newRouter(payload, log)); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newRouter(payload mockData, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requireCredentials)

	r.Post("/games", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, 64<<10))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q, err := parseQuery(string(body))
		if err != nil {
			log.Warn("rejecting query", "query", string(body), "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, q.apply(payload.Games))
	})
	r.Post("/genres", namesHandler(payload.Genres))
	r.Post("/platforms", namesHandler(payload.Platforms))
	return r
}

func requireCredentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Client-ID") == "" || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func namesHandler(names []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		out := make([]map[string]any, 0, len(sorted))
		for i, name := range sorted {
			out = append(out, map[string]any{"id": i + 1, "name": name})
		}
		writeJSON(w, out)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// query is the subset of the upstream mini-language the mock understands.
type query struct {
	search    string
	id        *int64
	genre     string
	platform  string
	minRating *float64
	sortBy    string
	desc      bool
	limit     int
	offset    int
}

var (
	searchRe = regexp.MustCompile(`search "((?:[^"\\]|\\.)*)";`)
	whereRe  = regexp.MustCompile(`where (.+?);(?:\s|$)`)
	sortRe   = regexp.MustCompile(`sort (\w+) (asc|desc);`)
	limitRe  = regexp.MustCompile(`limit (\d+);`)
	offsetRe = regexp.MustCompile(`offset (\d+);`)
	termRe   = regexp.MustCompile(`^(id|genres\.name|platforms\.name|rating) (=|>=) (.+)$`)
)

func parseQuery(text string) (query, error) {
	q := query{limit: 10}
	if m := searchRe.FindStringSubmatch(text); m != nil {
		q.search = strings.ToLower(unquote(`"` + m[1] + `"`))
	}
	if m := whereRe.FindStringSubmatch(text); m != nil {
		for _, term := range strings.Split(m[1], " & ") {
			t := termRe.FindStringSubmatch(strings.TrimSpace(term))
			if t == nil {
				return q, fmt.Errorf("unsupported where term %q", term)
			}
			switch t[1] {
			case "id":
				id, err := strconv.ParseInt(t[3], 10, 64)
				if err != nil {
					return q, fmt.Errorf("bad id %q", t[3])
				}
				q.id = &id
			case "genres.name":
				q.genre = unquote(t[3])
			case "platforms.name":
				q.platform = unquote(t[3])
			case "rating":
				v, err := strconv.ParseFloat(t[3], 64)
				if err != nil {
					return q, fmt.Errorf("bad rating %q", t[3])
				}
				q.minRating = &v
			}
		}
	}
	if m := sortRe.FindStringSubmatch(text); m != nil {
		q.sortBy = m[1]
		q.desc = m[2] == "desc"
	}
	if m := limitRe.FindStringSubmatch(text); m != nil {
		q.limit, _ = strconv.Atoi(m[1])
	}
	if m := offsetRe.FindStringSubmatch(text); m != nil {
		q.offset, _ = strconv.Atoi(m[1])
	}
	return q, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(s)
}

func (q query) apply(games []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(games))
	for _, g := range games {
		if q.matches(g) {
			out = append(out, g)
		}
	}
	if q.sortBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := compare(out[i][q.sortBy], out[j][q.sortBy])
			if q.desc {
				return less > 0
			}
			return less < 0
		})
	}
	if q.offset >= len(out) {
		return []map[string]any{}
	}
	out = out[q.offset:]
	if q.limit < len(out) {
		out = out[:q.limit]
	}
	return out
}

func (q query) matches(g map[string]any) bool {
	if q.id != nil {
		id, _ := g["id"].(float64)
		if int64(id) != *q.id {
			return false
		}
	}
	if q.search != "" {
		name, _ := g["name"].(string)
		if !strings.Contains(strings.ToLower(name), q.search) {
			return false
		}
	}
	if q.genre != "" && !hasNamed(g["genres"], q.genre) {
		return false
	}
	if q.platform != "" && !hasNamed(g["platforms"], q.platform) {
		return false
	}
	if q.minRating != nil {
		rating, _ := g["rating"].(float64)
		if rating < *q.minRating {
			return false
		}
	}
	return true
}

func hasNamed(v any, want string) bool {
	items, _ := v.([]any)
	for _, item := range items {
		obj, _ := item.(map[string]any)
		if name, _ := obj["name"].(string); name == want {
			return true
		}
	}
	return false
}

func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	default:
		if b == nil {
			return 0
		}
		return -1
	}
}
