package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CategoryPage fetches one page of a ranked category list, e.g. /movie/popular.
func (c *Client) CategoryPage(ctx context.Context, kind MediaKind, category Category, page int) (Page, error) {
	if _, err := ParseCategory(kind, string(category)); err != nil {
		return Page{}, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var result Page
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("%s/%s", kind, category), params), &result); err != nil {
		return Page{}, err
	}
	return result, nil
}

// DiscoverPage fetches one page of /discover/{kind} filtered to a single genre.
func (c *Client) DiscoverPage(ctx context.Context, kind MediaKind, genreID int, page int) (Page, error) {
	if kind != Movie && kind != TV {
		return Page{}, fmt.Errorf("%w: %q", ErrInvalidMediaType, kind)
	}

	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var result Page
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("discover/%s", kind), params), &result); err != nil {
		return Page{}, err
	}
	return result, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
