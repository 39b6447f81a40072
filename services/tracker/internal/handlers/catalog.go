package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/watchpicker/internal/platform/api"
	"github.com/example/watchpicker/internal/platform/httpserver"
	"github.com/example/watchpicker/services/tracker/internal/moods"
	"github.com/example/watchpicker/services/tracker/internal/stremio"
	"github.com/example/watchpicker/services/tracker/internal/tmdb"
)

// Catalog serves the metadata proxy, mood and deep-link routes.
type Catalog struct {
	Meta tmdb.Provider
	Log  *zap.Logger
}

type moodsResponse struct {
	Moods   []moods.Mood   `json:"moods"`
	Genres  []moods.Genre  `json:"genres"`
	Ratings []moods.Option `json:"ratings"`
	Years   []moods.Option `json:"years"`
}

type moodShowsResponse struct {
	Mood moods.Mood `json:"mood"`
	*tmdb.Page
}

type stremioResponse struct {
	IMDbID string `json:"imdb_id"`
	stremio.Links
	Episode string `json:"episode,omitempty"`
}

func (c Catalog) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c Catalog) upstreamError(w http.ResponseWriter, rid string, err error) {
	switch {
	case errors.Is(err, tmdb.ErrInvalidQuery):
		api.BadRequest(w, "INVALID_QUERY", err.Error(), rid, nil)
	case errors.Is(err, tmdb.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "title not found", rid)
	case errors.Is(err, tmdb.ErrNoAPIKey), errors.Is(err, tmdb.ErrUnavailable):
		api.Unavailable(w, "METADATA_UNAVAILABLE", "metadata service unavailable", rid)
	default:
		c.logger().Warn("metadata request failed", zap.String("request_id", rid), zap.Error(err))
		api.BadGateway(w, "UPSTREAM_ERROR", "metadata request failed", rid)
	}
}

func pageOr400(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	page, ok := queryPage(r)
	if !ok {
		api.BadRequest(w, "INVALID_PAGE", "page must be an integer between 1 and 500", rid, nil)
	}
	return page, ok
}

func showID(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		api.BadRequest(w, "INVALID_ID", "id must be a positive integer", rid, nil)
		return 0, false
	}
	return id, true
}

// Moods handles GET /v1/moods
func (c Catalog) Moods(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, moodsResponse{
		Moods:   moods.All(),
		Genres:  moods.Genres(),
		Ratings: moods.RatingOptions(),
		Years:   moods.YearOptions(currentYear(), 30),
	})
}

// MoodShows handles GET /v1/moods/{mood_id}/shows
func (c Catalog) MoodShows(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	mood, ok := moods.ByID(chi.URLParam(r, "mood_id"))
	if !ok {
		api.NotFound(w, "MOOD_NOT_FOUND", "unknown mood", rid)
		return
	}
	page, ok := pageOr400(w, r, rid)
	if !ok {
		return
	}
	res, err := c.Meta.MoodShows(r.Context(), mood.GenreIDs, r.URL.Query().Get("category"), page)
	if err != nil {
		c.upstreamError(w, rid, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, moodShowsResponse{Mood: mood, Page: res})
}

// Genres handles GET /v1/genres/{category}
func (c Catalog) Genres(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	g, err := c.Meta.Genres(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		c.upstreamError(w, rid, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"genres": g})
}

// Discover handles GET /v1/discover/{category}
func (c Catalog) Discover(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	page, ok := pageOr400(w, r, rid)
	if !ok {
		return
	}
	q := r.URL.Query()
	res, err := c.Meta.Discover(r.Context(), tmdb.DiscoverParams{
		Category:  chi.URLParam(r, "category"),
		Genres:    strings.TrimSpace(q.Get("genres")),
		Year:      strings.TrimSpace(q.Get("year")),
		MinRating: strings.TrimSpace(q.Get("min_rating")),
		Page:      page,
	})
	if err != nil {
		c.upstreamError(w, rid, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// Shows handles GET /v1/shows/{category}/{list}
func (c Catalog) Shows(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	page, ok := pageOr400(w, r, rid)
	if !ok {
		return
	}
	res, err := c.Meta.Shows(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "list"), page)
	if err != nil {
		c.upstreamError(w, rid, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// Search handles GET /v1/search/{category}?q=
func (c Catalog) Search(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	page, ok := pageOr400(w, r, rid)
	if !ok {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		api.BadRequest(w, "MISSING_QUERY", "q is required", rid, nil)
		return
	}
	res, err := c.Meta.Search(r.Context(), chi.URLParam(r, "category"), query, page)
	if err != nil {
		c.upstreamError(w, rid, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// Show handles GET /v1/show/{category}/{id}
func (c Catalog) Show(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	id, ok := showID(w, r, rid)
	if !ok {
		return
	}
	res, err := c.Meta.Show(r.Context(), chi.URLParam(r, "category"), id)
	if err != nil {
		c.upstreamError(w, rid, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// Similar handles GET /v1/show/{category}/{id}/similar
func (c Catalog) Similar(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	id, ok := showID(w, r, rid)
	if !ok {
		return
	}
	res, err := c.Meta.Similar(r.Context(), chi.URLParam(r, "category"), id)
	if err != nil {
		c.upstreamError(w, rid, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// StremioLinks handles GET /v1/stremio/{category}/{imdb_id}. For tv, the
// optional season and episode query parameters add an episode link.
func (c Catalog) StremioLinks(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	imdbID := strings.TrimSpace(chi.URLParam(r, "imdb_id"))
	if !stremio.ValidIMDbID(imdbID) {
		api.BadRequest(w, "INVALID_IMDB_ID", "imdb_id must start with tt", rid, nil)
		return
	}
	category := chi.URLParam(r, "category")
	resp := stremioResponse{IMDbID: imdbID, Links: stremio.LinksFor(imdbID, category)}

	q := r.URL.Query()
	if resp.Type == stremio.TypeSeries && q.Has("season") && q.Has("episode") {
		season, err1 := strconv.Atoi(q.Get("season"))
		episode, err2 := strconv.Atoi(q.Get("episode"))
		if err1 != nil || err2 != nil || season < 0 || episode < 1 {
			api.BadRequest(w, "INVALID_EPISODE", "season and episode must be integers", rid, nil)
			return
		}
		resp.Episode = stremio.EpisodeLink(imdbID, season, episode)
	}
	api.WriteJSON(w, http.StatusOK, resp)
}
