package tmdb

import (
	"context"
	"fmt"
)

// GenreList returns the genre catalog for kind in upstream order.
// Successful responses are kept in memory for the lifetime of the client.
func (c *Client) GenreList(ctx context.Context, kind MediaKind) ([]Genre, error) {
	if kind != Movie && kind != TV {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, kind)
	}

	c.mu.RLock()
	if genres, ok := c.genreCache[kind]; ok {
		c.mu.RUnlock()
		return genres, nil
	}
	c.mu.RUnlock()

	var response struct {
		Genres []Genre `json:"genres"`
	}

	endpoint := c.endpoint(fmt.Sprintf("genre/%s/list", kind), nil)
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.genreCache[kind] = response.Genres
	c.mu.Unlock()

	return response.Genres, nil
}
