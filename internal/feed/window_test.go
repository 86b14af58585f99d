package feed

import (
	"testing"

	"github.com/lepinkainen/cinefeed/internal/tmdb"
	"github.com/stretchr/testify/assert"
)

func TestWindowGrow(t *testing.T) {
	w := NewWindow()
	assert.Equal(t, 6, w.Limit())

	w.Grow()
	assert.Equal(t, 20, w.Limit())

	w.Grow()
	assert.Equal(t, 40, w.Limit())

	w.Grow()
	assert.Equal(t, 60, w.Limit())
}

func TestZeroWindowBehavesAsInitial(t *testing.T) {
	var w Window
	assert.Equal(t, InitialWindow, w.Limit())
	w.Grow()
	assert.Equal(t, ExpandedWindow, w.Limit())
}

func TestDisplayableDropsPosterless(t *testing.T) {
	in := []tmdb.MediaItem{
		{ID: 1, PosterPath: "/a.jpg"},
		{ID: 2},
		{ID: 3, PosterPath: "/c.jpg"},
	}

	out := Displayable(in)
	assert.Equal(t, []int{1, 3}, ids(out))
	assert.Len(t, in, 3)
}

func TestVisible(t *testing.T) {
	in := items(0, 10)
	in[2].PosterPath = ""

	assert.Equal(t, []int{0, 1, 3, 4, 5, 6}, ids(Visible(in, 6)))
	assert.Len(t, Visible(in, 20), 9)
	assert.Empty(t, Visible(nil, 6))
}

func ids(items []tmdb.MediaItem) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
