package slug

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "single word", input: "Action", want: "action"},
		{name: "ampersand becomes and", input: "Sci-Fi & Fantasy", want: "sci-fi-and-fantasy"},
		{name: "ampersand without spaces", input: "Action&Adventure", want: "actionandadventure"},
		{name: "multiple spaces", input: "Science   Fiction", want: "science-fiction"},
		{name: "tabs and newlines", input: "TV\tMovie\n", want: "tv-movie"},
		{name: "special characters stripped", input: "Kids' Shows!", want: "kids-shows"},
		{name: "hyphen runs collapse", input: "War -- Politics", want: "war-politics"},
		{name: "leading and trailing hyphens trimmed", input: "-Drama-", want: "drama"},
		{name: "surrounding whitespace trimmed", input: "  Western  ", want: "western"},
		{name: "non-ascii letters stripped", input: "Comédie", want: "comdie"},
		{name: "digits kept", input: "Top 10", want: "top-10"},
		{name: "only punctuation", input: "?!*", want: ""},
		{name: "byte order mark separates", input: "sci\ufefffi", want: "sci-fi"},
		{name: "no-break space separates", input: "TV\u00a0Movie", want: "tv-movie"},
		{name: "ideographic space separates", input: "War\u3000Politics", want: "war-politics"},
		{name: "en quad separates", input: "Top\u200a10", want: "top-10"},
		{name: "next line is dropped", input: "sci\u0085fi", want: "scifi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Action & Adventure",
		"Sci-Fi & Fantasy",
		"  --Mystery--  ",
		"War & Politics",
		"Kids' Shows!",
		"a - - b",
		"Comédie Dramatique",
		"TV Movie",
		"&&&",
	}

	for _, input := range inputs {
		once := Slugify(input)
		assert.Equal(t, once, Slugify(once), "input %q", input)
	}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "percent-encoded ampersand", raw: "Action%20%26%20Adventure", want: Slugify("Action & Adventure")},
		{name: "already a slug", raw: "science-fiction", want: "science-fiction"},
		{name: "encoded space", raw: "TV%20Movie", want: "tv-movie"},
		{name: "plus is not a space", raw: "a+b", want: "ab"},
		{name: "malformed escape falls back to raw", raw: "drama%zz", want: "dramazz"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromURL(tt.raw))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Science Fiction", DisplayName("science-fiction"))
	assert.Equal(t, "Sci Fi And Fantasy", DisplayName("sci-fi-and-fantasy"))
	assert.Equal(t, "Action", DisplayName("action"))
	assert.Equal(t, "", DisplayName(""))
	assert.Equal(t, "3d Movies", DisplayName("3d-movies"))
	assert.Equal(t, "TV Movie", DisplayName("TV-movie"))
}
