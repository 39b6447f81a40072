// Package moods is the static catalog behind mood-based recommendations
// and the discover filters. Genre ids are TMDB's.
package moods

import "strconv"

type Mood struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	GenreIDs    []int  `json:"genre_ids"`
	Description string `json:"description"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var all = []Mood{
	{ID: "feel-good", Title: "Feel Good", Icon: "😊", Color: "from-yellow-400 to-orange-500", GenreIDs: []int{35, 10751, 10749}, Description: "Light-hearted fun to lift your spirits"},
	{ID: "thrilling", Title: "Thrilling", Icon: "🔥", Color: "from-amber-600 to-orange-600", GenreIDs: []int{28, 53, 80}, Description: "Edge-of-your-seat excitement"},
	{ID: "mind-bending", Title: "Mind-Bending", Icon: "🧠", Color: "from-purple-500 to-indigo-600", GenreIDs: []int{878, 9648}, Description: "Stories that make you think"},
	{ID: "scary", Title: "Scary", Icon: "👻", Color: "from-gray-700 to-gray-900", GenreIDs: []int{27, 53}, Description: "Spine-chilling frights"},
	{ID: "epic", Title: "Epic Adventure", Icon: "⚔️", Color: "from-emerald-500 to-teal-600", GenreIDs: []int{12, 14, 28}, Description: "Grand journeys and heroic quests"},
	{ID: "relaxing", Title: "Relaxing", Icon: "🌿", Color: "from-green-400 to-cyan-500", GenreIDs: []int{16, 99, 10751}, Description: "Calm and easy viewing"},
	{ID: "romantic", Title: "Romantic", Icon: "💕", Color: "from-pink-400 to-rose-500", GenreIDs: []int{10749, 35, 18}, Description: "Love stories and heartfelt moments"},
	{ID: "dramatic", Title: "Dramatic", Icon: "🎭", Color: "from-blue-500 to-indigo-600", GenreIDs: []int{18, 36, 10752}, Description: "Powerful stories with depth"},
}

var genres = []Genre{
	{28, "Action"}, {12, "Adventure"}, {16, "Animation"}, {35, "Comedy"},
	{80, "Crime"}, {99, "Documentary"}, {18, "Drama"}, {10751, "Family"},
	{14, "Fantasy"}, {36, "History"}, {27, "Horror"}, {10402, "Music"},
	{9648, "Mystery"}, {10749, "Romance"}, {878, "Sci-Fi"}, {53, "Thriller"},
	{10752, "War"}, {37, "Western"},
}

var ratings = []Option{
	{Value: "9", Label: "9+ Excellent"},
	{Value: "8", Label: "8+ Great"},
	{Value: "7", Label: "7+ Good"},
	{Value: "6", Label: "6+ Decent"},
}

// All returns the moods in display order.
func All() []Mood {
	return append([]Mood(nil), all...)
}

// ByID returns the mood with id.
func ByID(id string) (Mood, bool) {
	for _, m := range all {
		if m.ID == id {
			return m, true
		}
	}
	return Mood{}, false
}

func Genres() []Genre {
	return append([]Genre(nil), genres...)
}

func RatingOptions() []Option {
	return append([]Option(nil), ratings...)
}

// YearOptions lists the current year and the n-1 before it, newest first.
func YearOptions(current, n int) []Option {
	out := make([]Option, 0, n)
	for y := current; y > current-n; y-- {
		s := strconv.Itoa(y)
		out = append(out, Option{Value: s, Label: s})
	}
	return out
}
