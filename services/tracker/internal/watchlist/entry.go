package watchlist

// Durable storage keys. Each holds one JSON array, newest entry first.
const (
	WatchlistKey = "watchpicker_watchlist"
	WatchedKey   = "watchpicker_watched"
)

// Category is the catalog a title belongs to.
type Category string

const (
	CategoryMovie Category = "movie"
	CategoryTV    Category = "tv"
)

func (c Category) Valid() bool {
	return c == CategoryMovie || c == CategoryTV
}

// Item is the caller-supplied part of an entry; the tracker stamps the time.
type Item struct {
	ID         string   `json:"id" validate:"required,max=64"`
	Title      string   `json:"title" validate:"required,max=512"`
	PosterPath string   `json:"poster_path" validate:"max=512"`
	Category   Category `json:"category" validate:"required,oneof=movie tv"`
}

// WatchlistEntry is a title the user wants to watch. AddedAt is epoch
// milliseconds and never changes after insertion.
type WatchlistEntry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	PosterPath string   `json:"poster_path"`
	Category   Category `json:"category"`
	AddedAt    int64    `json:"addedAt"`
}

// WatchedEntry is a title the user has seen. WatchedAt is epoch milliseconds.
type WatchedEntry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	PosterPath string   `json:"poster_path"`
	Category   Category `json:"category"`
	WatchedAt  int64    `json:"watchedAt"`
}

func (i Item) watchlistEntry(at int64) WatchlistEntry {
	return WatchlistEntry{ID: i.ID, Title: i.Title, PosterPath: i.PosterPath, Category: i.Category, AddedAt: at}
}

func (i Item) watchedEntry(at int64) WatchedEntry {
	return WatchedEntry{ID: i.ID, Title: i.Title, PosterPath: i.PosterPath, Category: i.Category, WatchedAt: at}
}
