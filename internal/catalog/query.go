package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// gameFields is the projection requested for every game query.
const gameFields = "fields id, name, genres.name, platforms.name, rating, summary, cover.url, first_release_date, " +
	"involved_companies.company.name, involved_companies.developer, involved_companies.publisher, total_rating_count;"

// namesQuery lists a taxonomy endpoint in full. The upstream default page is 10.
const namesQuery = "fields name; sort name asc; limit 500;"

// ErrInvalidSort is returned for a sort field or order outside the allowlist.
var ErrInvalidSort = errors.New("catalog: invalid sort")

var errNegativePage = errors.New("catalog: negative limit or offset")

var sortFields = map[string]struct{}{
	"name":               {},
	"rating":             {},
	"first_release_date": {},
	"total_rating_count": {},
	"id":                 {},
}

// ListOptions describes a page of catalog results.
type ListOptions struct {
	Limit     int
	Offset    int
	Query     string
	Genre     string
	Platform  string
	MinRating *float64
	SortBy    string
	SortOrder string
}

// Validate rejects sort settings the upstream would misinterpret.
func (o ListOptions) Validate() error {
	if o.Limit < 0 || o.Offset < 0 {
		return errNegativePage
	}
	if o.SortBy == "" {
		return nil
	}
	if _, ok := sortFields[o.SortBy]; !ok {
		return fmt.Errorf("%w: field %q", ErrInvalidSort, o.SortBy)
	}
	switch strings.ToLower(o.SortOrder) {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: order %q", ErrInvalidSort, o.SortOrder)
	}
	return nil
}

// BuildListQuery renders the query text for a listing request. A non-empty
// Query switches to search mode, where filters and sort are not sent.
func BuildListQuery(opts ListOptions) (string, error) {
	var b strings.Builder
	b.WriteString(gameFields)

	if q := strings.TrimSpace(opts.Query); q != "" {
		if opts.Limit < 0 || opts.Offset < 0 {
			return "", errNegativePage
		}
		fmt.Fprintf(&b, " search %s;", quote(q))
		fmt.Fprintf(&b, " limit %d; offset %d;", opts.Limit, opts.Offset)
		return b.String(), nil
	}

	if err := opts.Validate(); err != nil {
		return "", err
	}

	var conds []string
	if opts.Genre != "" {
		conds = append(conds, "genres.name = "+quote(opts.Genre))
	}
	if opts.Platform != "" {
		conds = append(conds, "platforms.name = "+quote(opts.Platform))
	}
	if opts.MinRating != nil {
		conds = append(conds, "rating >= "+strconv.FormatFloat(*opts.MinRating, 'f', -1, 64))
	}
	if len(conds) > 0 {
		fmt.Fprintf(&b, " where %s;", strings.Join(conds, " & "))
	}
	if opts.SortBy != "" {
		order := strings.ToLower(opts.SortOrder)
		if order == "" {
			order = "asc"
		}
		fmt.Fprintf(&b, " sort %s %s;", opts.SortBy, order)
	}
	fmt.Fprintf(&b, " limit %d; offset %d;", opts.Limit, opts.Offset)
	return b.String(), nil
}

// BuildByIDQuery renders the query text for a single game lookup.
func BuildByIDQuery(id int64) string {
	return fmt.Sprintf("%s where id = %d;", gameFields, id)
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
