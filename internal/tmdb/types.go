package tmdb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMediaType is returned when an unsupported media type is provided.
var ErrInvalidMediaType = errors.New("invalid media type")

// ErrInvalidCategory is returned when a category is not known for the media kind.
var ErrInvalidCategory = errors.New("invalid category")

// MediaKind discriminates between the movie and TV catalogs.
type MediaKind string

const (
	Movie MediaKind = "movie"
	TV    MediaKind = "tv"
)

// ParseMediaKind converts a route or flag value to a MediaKind.
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case Movie:
		return Movie, nil
	case TV:
		return TV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, s)
	}
}

// Plural returns the heading used for the kind ("Movies", "TV Shows").
func (k MediaKind) Plural() string {
	if k == TV {
		return "TV Shows"
	}
	return "Movies"
}

// Category is an upstream ranked list, such as "popular" or "top_rated".
type Category string

const (
	Popular     Category = "popular"
	TopRated    Category = "top_rated"
	Upcoming    Category = "upcoming"
	NowPlaying  Category = "now_playing"
	OnTheAir    Category = "on_the_air"
	AiringToday Category = "airing_today"
)

var categoriesByKind = map[MediaKind][]Category{
	Movie: {Popular, TopRated, Upcoming, NowPlaying},
	TV:    {Popular, TopRated, OnTheAir, AiringToday},
}

// Categories returns the categories available for kind, in landing-page order.
func Categories(kind MediaKind) []Category {
	return append([]Category(nil), categoriesByKind[kind]...)
}

// ParseCategory validates that category exists for kind.
func ParseCategory(kind MediaKind, s string) (Category, error) {
	want := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range categoriesByKind[kind] {
		if c == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q for %s", ErrInvalidCategory, s, kind)
}

// Title returns a human-readable label, e.g. "Top Rated".
func (c Category) Title() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Genre is a single entry of a genre catalog.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaItem is a single movie or TV show as returned by list endpoints.
type MediaItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	OriginalLang string  `json:"original_language,omitempty"`
}

// DisplayTitle returns the movie title or the show name.
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// HasPoster reports whether the item carries a poster image reference.
func (m MediaItem) HasPoster() bool {
	return m.PosterPath != ""
}

// YearInt returns the release year for movies or first air year for TV shows as int.
func (m MediaItem) YearInt() int {
	dateStr := m.ReleaseDate
	if dateStr == "" {
		dateStr = m.FirstAirDate
	}
	if len(dateStr) >= 4 {
		if year, err := strconv.Atoi(dateStr[:4]); err == nil {
			return year
		}
	}
	return 0
}

// Year extracts the year from the release or air date.
func (m MediaItem) Year() string {
	if year := m.YearInt(); year > 0 {
		return strconv.Itoa(year)
	}
	return "Unknown"
}

// Page is one page of a paginated list endpoint.
type Page struct {
	Page         int         `json:"page"`
	Results      []MediaItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// HasMore reports whether pages after this one exist.
func (p Page) HasMore() bool {
	return p.Page < p.TotalPages
}
