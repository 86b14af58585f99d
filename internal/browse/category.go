package browse

import (
	"context"

	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// CategoryView lists one category at a time and switches between them.
type CategoryView struct {
	source   Source
	kind     tmdb.MediaKind
	category tmdb.Category
	feed     *feed.Feed
}

// NewCategoryView creates a view for kind/category. The feed is not loaded yet.
func NewCategoryView(source Source, kind tmdb.MediaKind, category tmdb.Category, opts ...feed.Option) *CategoryView {
	return &CategoryView{
		source:   source,
		kind:     kind,
		category: category,
		feed:     feed.New(CategoryKey(kind, category), CategorySource(source, kind, category), opts...),
	}
}

// Select switches to another category. It reports whether the listing changed;
// when it did, accumulated items are cleared before the next load.
func (v *CategoryView) Select(kind tmdb.MediaKind, category tmdb.Category) bool {
	if !v.feed.Reset(CategoryKey(kind, category), CategorySource(v.source, kind, category)) {
		return false
	}
	v.kind = kind
	v.category = category
	return true
}

// Next selects the category after the current one for the same kind, wrapping around.
func (v *CategoryView) Next() tmdb.Category {
	cats := tmdb.Categories(v.kind)
	next := cats[0]
	for i, c := range cats {
		if c == v.category {
			next = cats[(i+1)%len(cats)]
			break
		}
	}
	v.Select(v.kind, next)
	return next
}

// Kind is the media kind of the current listing.
func (v *CategoryView) Kind() tmdb.MediaKind { return v.kind }

// Category is the current listing's category.
func (v *CategoryView) Category() tmdb.Category { return v.category }

// Title is the heading of the current listing.
func (v *CategoryView) Title() string {
	return SectionTitle(v.kind, v.category)
}

// Start loads the first page if nothing has been loaded yet.
func (v *CategoryView) Start(ctx context.Context) (feed.State, error) {
	return v.feed.Start(ctx)
}

// LoadNext loads one more page.
func (v *CategoryView) LoadNext(ctx context.Context) (feed.State, error) {
	return v.feed.LoadNext(ctx)
}

// State returns the current feed snapshot.
func (v *CategoryView) State() feed.State {
	return v.feed.State()
}

// Close discards any in-flight response.
func (v *CategoryView) Close() {
	v.feed.Close()
}
