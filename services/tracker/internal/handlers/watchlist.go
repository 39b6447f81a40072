package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/watchpicker/internal/platform/api"
	"github.com/example/watchpicker/internal/platform/httpserver"
	"github.com/example/watchpicker/services/tracker/internal/watchlist"
)

type watchlistResponse struct {
	Items []watchlist.WatchlistEntry `json:"items"`
	Count int                        `json:"count"`
}

type watchedResponse struct {
	Items []watchlist.WatchedEntry `json:"items"`
	Count int                      `json:"count"`
}

type membershipResponse struct {
	ID          string `json:"id"`
	InWatchlist *bool  `json:"in_watchlist,omitempty"`
	Watched     *bool  `json:"watched,omitempty"`
}

func itemID(w http.ResponseWriter, r *http.Request, rid string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		api.BadRequest(w, "MISSING_ID", "id is required", rid, nil)
		return "", false
	}
	return id, true
}

// ListWatchlist handles GET /v1/watchlist
func ListWatchlist(w http.ResponseWriter, r *http.Request) {
	items := watchlist.FromContext(r.Context()).Watchlist()
	api.WriteJSON(w, http.StatusOK, watchlistResponse{Items: items, Count: len(items)})
}

// AddToWatchlist handles POST /v1/watchlist
func AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	var item watchlist.Item
	if !decodeJSON(w, r, rid, &item) {
		return
	}
	tr := watchlist.FromContext(r.Context())
	tr.AddToWatchlist(item)
	in := tr.IsInWatchlist(item.ID)
	api.WriteJSON(w, http.StatusCreated, membershipResponse{ID: item.ID, InWatchlist: &in})
}

// ClearWatchlist handles DELETE /v1/watchlist
func ClearWatchlist(w http.ResponseWriter, r *http.Request) {
	watchlist.FromContext(r.Context()).ClearWatchlist()
	w.WriteHeader(http.StatusNoContent)
}

// GetWatchlistItem handles GET /v1/watchlist/{id}
func GetWatchlistItem(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	id, ok := itemID(w, r, rid)
	if !ok {
		return
	}
	in := watchlist.FromContext(r.Context()).IsInWatchlist(id)
	api.WriteJSON(w, http.StatusOK, membershipResponse{ID: id, InWatchlist: &in})
}

// RemoveFromWatchlist handles DELETE /v1/watchlist/{id}. Removing an absent
// id still answers 204.
func RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	id, ok := itemID(w, r, rid)
	if !ok {
		return
	}
	watchlist.FromContext(r.Context()).RemoveFromWatchlist(id)
	w.WriteHeader(http.StatusNoContent)
}

// ListWatched handles GET /v1/watched
func ListWatched(w http.ResponseWriter, r *http.Request) {
	items := watchlist.FromContext(r.Context()).Watched()
	api.WriteJSON(w, http.StatusOK, watchedResponse{Items: items, Count: len(items)})
}

// MarkAsWatched handles POST /v1/watched
func MarkAsWatched(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	var item watchlist.Item
	if !decodeJSON(w, r, rid, &item) {
		return
	}
	tr := watchlist.FromContext(r.Context())
	tr.MarkAsWatched(item)
	watched, in := tr.IsWatched(item.ID), tr.IsInWatchlist(item.ID)
	api.WriteJSON(w, http.StatusCreated, membershipResponse{ID: item.ID, Watched: &watched, InWatchlist: &in})
}

// GetWatchedItem handles GET /v1/watched/{id}
func GetWatchedItem(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	id, ok := itemID(w, r, rid)
	if !ok {
		return
	}
	watched := watchlist.FromContext(r.Context()).IsWatched(id)
	api.WriteJSON(w, http.StatusOK, membershipResponse{ID: id, Watched: &watched})
}

// RemoveFromWatched handles DELETE /v1/watched/{id}
func RemoveFromWatched(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	id, ok := itemID(w, r, rid)
	if !ok {
		return
	}
	watchlist.FromContext(r.Context()).RemoveFromWatched(id)
	w.WriteHeader(http.StatusNoContent)
}
