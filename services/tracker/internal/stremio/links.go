// Package stremio builds deep links that open a title in the Stremio
// desktop or web app.
package stremio

import (
	"fmt"
	"strings"
)

// Type is Stremio's content type.
type Type string

const (
	TypeMovie  Type = "movie"
	TypeSeries Type = "series"
)

const webBase = "https://web.strem.io/#/detail"

// TypeForCategory maps a catalog category to a Stremio type: only "movie"
// stays a movie, everything else is a series.
func TypeForCategory(category string) Type {
	if category == "movie" {
		return TypeMovie
	}
	return TypeSeries
}

// ValidIMDbID reports whether id looks like an IMDb title id.
func ValidIMDbID(id string) bool {
	return strings.HasPrefix(id, "tt")
}

// DesktopLink opens the detail page in the desktop app. Movies carry the
// id twice (meta id and video id); series stop at the meta id.
func DesktopLink(imdbID string, t Type) string {
	if t == TypeSeries {
		return fmt.Sprintf("stremio:///detail/%s/%s/", t, imdbID)
	}
	return fmt.Sprintf("stremio:///detail/%s/%s/%s", t, imdbID, imdbID)
}

func WebLink(imdbID string, t Type) string {
	if t == TypeSeries {
		return fmt.Sprintf("%s/%s/%s", webBase, t, imdbID)
	}
	return fmt.Sprintf("%s/%s/%s/%s", webBase, t, imdbID, imdbID)
}

// EpisodeLink opens one episode of a series in the desktop app.
func EpisodeLink(imdbID string, season, episode int) string {
	return fmt.Sprintf("stremio:///detail/series/%s/%s:%d:%d", imdbID, imdbID, season, episode)
}

// Links is the pair of URLs offered for one title.
type Links struct {
	Type    Type   `json:"type"`
	Desktop string `json:"desktop"`
	Web     string `json:"web"`
}

// LinksFor builds the desktop and web links for a catalog title.
func LinksFor(imdbID, category string) Links {
	t := TypeForCategory(category)
	return Links{Type: t, Desktop: DesktopLink(imdbID, t), Web: WebLink(imdbID, t)}
}
