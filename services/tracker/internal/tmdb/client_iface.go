package tmdb

import "context"

// Provider is the port for catalog metadata lookups.
type Provider interface {
	Shows(ctx context.Context, category, list string, page int) (*Page, error)
	Search(ctx context.Context, category, query string, page int) (*Page, error)
	Similar(ctx context.Context, category string, id int) (*Page, error)
	Show(ctx context.Context, category string, id int) (*ShowDetail, error)
	Discover(ctx context.Context, p DiscoverParams) (*Page, error)
	Genres(ctx context.Context, category string) ([]Genre, error)
	MoodShows(ctx context.Context, genreIDs []int, category string, page int) (*Page, error)
}
