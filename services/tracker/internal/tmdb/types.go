package tmdb

// Show is one result row from list, search and discover endpoints. Movies
// fill Title and ReleaseDate, series fill Name and FirstAirDate.
type Show struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// DisplayTitle returns whichever of Title and Name is set.
func (s Show) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

type Page struct {
	Page         int    `json:"page"`
	Results      []Show `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type Cast struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

// ShowDetail is a single title with videos, credits and external ids appended.
type ShowDetail struct {
	Show
	Genres          []Genre     `json:"genres"`
	Runtime         int         `json:"runtime,omitempty"`
	NumberOfSeasons int         `json:"number_of_seasons,omitempty"`
	ExternalIDs     ExternalIDs `json:"external_ids"`
	Videos          struct {
		Results []Video `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []Cast `json:"cast"`
	} `json:"credits"`
}

// DiscoverParams filters the discover endpoint. Empty fields are omitted.
type DiscoverParams struct {
	Category  string
	Genres    string
	Year      string
	MinRating string
	Page      int
}
