package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/watchpicker/services/tracker/internal/watchlist"
)

var currentYear = func() int { return time.Now().Year() }

// Mount registers the /v1 API on r.
func Mount(r chi.Router, tr *watchlist.Tracker, catalog Catalog) {
	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(WithTracker(tr))

			r.Get("/watchlist", ListWatchlist)
			r.Post("/watchlist", AddToWatchlist)
			r.Delete("/watchlist", ClearWatchlist)
			r.Get("/watchlist/{id}", GetWatchlistItem)
			r.Delete("/watchlist/{id}", RemoveFromWatchlist)

			r.Get("/watched", ListWatched)
			r.Post("/watched", MarkAsWatched)
			r.Get("/watched/{id}", GetWatchedItem)
			r.Delete("/watched/{id}", RemoveFromWatched)
		})

		r.Get("/moods", catalog.Moods)
		r.Get("/moods/{mood_id}/shows", catalog.MoodShows)
		r.Get("/genres/{category}", catalog.Genres)
		r.Get("/discover/{category}", catalog.Discover)
		r.Get("/shows/{category}/{list}", catalog.Shows)
		r.Get("/search/{category}", catalog.Search)
		r.Get("/show/{category}/{id}", catalog.Show)
		r.Get("/show/{category}/{id}/similar", catalog.Similar)
		r.Get("/stremio/{category}/{imdb_id}", catalog.StremioLinks)
	})
}
