// Package slug converts genre display names to canonical URL slugs and back.
package slug

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matches runs of hyphens.
var multipleHyphens = regexp.MustCompile(`-+`)

// Slugify converts a genre name to its URL slug.
// "Sci-Fi & Fantasy" -> "sci-fi-and-fantasy".
// "War & Politics" -> "war-and-politics".
// "TV Movie" -> "tv-movie".
func Slugify(name string) string {
	if name == "" {
		return ""
	}

	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "&", "and")

	// Keep [a-z0-9], hyphens and whitespace; drop everything else.
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case isSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)

	// Every kept separator is now a plain space.
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == ' ' }), "-")
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// FromURL decodes a percent-encoded path segment and slugifies the result,
// so "Action%20%26%20Adventure" and "action-and-adventure" resolve alike.
// A segment with a malformed escape is slugified as-is.
func FromURL(raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return Slugify(decoded)
}

// isSpace matches the separator set of a regexp \s class in browsers:
// ASCII whitespace, the Unicode space separators, the line and paragraph
// separators and the byte order mark. U+0085 is not a separator.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// DisplayName derives a best-effort display name from a slug by upper-casing
// the first letter of each word. The rest of a word is left alone.
// "science-fiction" -> "Science Fiction", "3d-movies" -> "3d Movies".
func DisplayName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
