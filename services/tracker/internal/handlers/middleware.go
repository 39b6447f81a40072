package handlers

import (
	"net/http"

	"github.com/example/watchpicker/services/tracker/internal/watchlist"
)

// WithTracker installs tr into every request context so handlers can reach
// it through watchlist.FromContext.
func WithTracker(tr *watchlist.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(watchlist.NewContext(r.Context(), tr)))
		})
	}
}
