package feed

import "github.com/lepinkainen/cinefeed/internal/tmdb"

const (
	// InitialWindow is the number of items shown before any "show more".
	InitialWindow = 6
	// ExpandedWindow is the size after the first "show more".
	ExpandedWindow = 20
	// WindowStep is added by every later "show more".
	WindowStep = 20
)

// Window tracks how many items a section displays.
type Window struct {
	limit int
}

// NewWindow returns a window showing InitialWindow items.
func NewWindow() Window {
	return Window{limit: InitialWindow}
}

// Limit returns the current display count.
func (w Window) Limit() int {
	if w.limit <= 0 {
		return InitialWindow
	}
	return w.limit
}

// Grow advances the window: 6 -> 20 -> 40 -> 60 ...
func (w *Window) Grow() {
	if w.Limit() == InitialWindow {
		w.limit = ExpandedWindow
		return
	}
	w.limit = w.Limit() + WindowStep
}

// Displayable drops items without a poster. Feeds keep every item; this is
// applied only when rendering.
func Displayable(items []tmdb.MediaItem) []tmdb.MediaItem {
	out := make([]tmdb.MediaItem, 0, len(items))
	for _, item := range items {
		if item.HasPoster() {
			out = append(out, item)
		}
	}
	return out
}

// Visible returns the first limit displayable items.
func Visible(items []tmdb.MediaItem, limit int) []tmdb.MediaItem {
	shown := Displayable(items)
	if limit >= 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	return shown
}
