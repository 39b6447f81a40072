// Package tmdb is a small client for The Movie Database v3 API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/example/watchpicker/internal/platform/metrics"
)

var (
	ErrNotFound     = errors.New("tmdb: not found")
	ErrNoAPIKey     = errors.New("tmdb: api key not configured")
	ErrUnavailable  = errors.New("tmdb: upstream unavailable")
	ErrInvalidQuery = errors.New("tmdb: invalid query")
)

var listTypes = map[string]bool{
	"popular":      true,
	"top_rated":    true,
	"now_playing":  true,
	"upcoming":     true,
	"on_the_air":   true,
	"airing_today": true,
}

type Options struct {
	BaseURL string
	APIKey  string
	// RPS caps outbound requests per second; default 20.
	RPS     int
	Timeout time.Duration
	// Cache, when set, serves repeated requests without calling upstream.
	Cache  Cache
	Logger *zap.Logger
}

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	cache   Cache
	log     *zap.Logger
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.themoviedb.org/3"
	}
	if opts.RPS <= 0 {
		opts.RPS = 20
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		BaseURL:    strings.TrimRight(opts.BaseURL, "/"),
		APIKey:     opts.APIKey,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RPS), opts.RPS),
		cache:      opts.Cache,
		log:        log,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A caller hanging up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return c
}

// Shows returns a curated list such as popular or top_rated.
func (c *Client) Shows(ctx context.Context, category, list string, page int) (*Page, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	if !listTypes[list] {
		return nil, fmt.Errorf("%w: list %q", ErrInvalidQuery, list)
	}
	var out Page
	err := c.get(ctx, "shows", category+"/"+list, url.Values{"page": {pageParam(page)}}, &out)
	return &out, err
}

func (c *Client) Search(ctx context.Context, category, query string, page int) (*Page, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search", ErrInvalidQuery)
	}
	var out Page
	err := c.get(ctx, "search", "search/"+category, url.Values{"query": {query}, "page": {pageParam(page)}}, &out)
	return &out, err
}

func (c *Client) Similar(ctx context.Context, category string, id int) (*Page, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	var out Page
	err := c.get(ctx, "similar", category+"/"+strconv.Itoa(id)+"/similar", nil, &out)
	return &out, err
}

// Show fetches one title with videos, credits and external ids.
func (c *Client) Show(ctx context.Context, category string, id int) (*ShowDetail, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	var out ShowDetail
	q := url.Values{"append_to_response": {"videos,credits,external_ids"}}
	err := c.get(ctx, "show", category+"/"+strconv.Itoa(id), q, &out)
	return &out, err
}

func (c *Client) Discover(ctx context.Context, p DiscoverParams) (*Page, error) {
	if err := checkCategory(p.Category); err != nil {
		return nil, err
	}
	var out Page
	err := c.get(ctx, "discover", "discover/"+p.Category, DiscoverQuery(p), &out)
	return &out, err
}

// DiscoverQuery renders p the way the discover endpoint expects: the year
// filter name depends on the category and a rating floor also demands 100 votes.
func DiscoverQuery(p DiscoverParams) url.Values {
	q := url.Values{
		"page":    {pageParam(p.Page)},
		"sort_by": {"popularity.desc"},
	}
	if p.Genres != "" {
		q.Set("with_genres", p.Genres)
	}
	if p.Year != "" {
		if p.Category == "movie" {
			q.Set("primary_release_year", p.Year)
		} else {
			q.Set("first_air_date_year", p.Year)
		}
	}
	if p.MinRating != "" {
		q.Set("vote_average.gte", p.MinRating)
		q.Set("vote_count.gte", "100")
	}
	return q
}

func (c *Client) Genres(ctx context.Context, category string) ([]Genre, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	var out struct {
		Genres []Genre `json:"genres"`
	}
	err := c.get(ctx, "genres", "genre/"+category+"/list", nil, &out)
	return out.Genres, err
}

// MoodShows discovers popular titles matching all of genreIDs.
func (c *Client) MoodShows(ctx context.Context, genreIDs []int, category string, page int) (*Page, error) {
	if category == "" {
		category = "movie"
	}
	ids := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		ids[i] = strconv.Itoa(id)
	}
	return c.Discover(ctx, DiscoverParams{Category: category, Genres: strings.Join(ids, ","), Page: page})
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, dst any) error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	if q == nil {
		q = url.Values{}
	}
	cacheKey := path + "?" + q.Encode()
	if c.cache != nil {
		if b, ok := c.cache.Get(cacheKey); ok {
			metrics.UpstreamRequests.WithLabelValues(endpoint, "cached").Inc()
			return decode(b, dst)
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	q.Set("api_key", c.APIKey)
	rawURL := c.BaseURL + "/" + path + "?" + q.Encode()

	b, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, rawURL)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "breaker_open").Inc()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, outcomeLabel(err)).Inc()
		return err
	}
	metrics.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()

	if err := decode(b, dst); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Set(cacheKey, b)
	}
	return nil
}

func decode(b []byte, dst any) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("tmdb: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "watchpicker-tracker/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("tmdb: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	return b, nil
}

func checkCategory(category string) error {
	if category != "movie" && category != "tv" {
		return fmt.Errorf("%w: category %q", ErrInvalidQuery, category)
	}
	return nil
}

func pageParam(page int) string {
	if page < 1 {
		page = 1
	}
	return strconv.Itoa(page)
}

func outcomeLabel(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	return "error"
}
