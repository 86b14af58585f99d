package browse

import (
	"context"
	"fmt"
	"sync"

	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
	"github.com/sourcegraph/conc/pool"
)

// Section is one category row of the landing page.
type Section struct {
	Kind     tmdb.MediaKind
	Category tmdb.Category
	Title    string
	Feed     *feed.Feed

	mu     sync.Mutex
	window feed.Window
}

// Limit returns how many items the section currently shows.
func (s *Section) Limit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Limit()
}

// Visible returns the items the section currently shows.
func (s *Section) Visible() []tmdb.MediaItem {
	return feed.Visible(s.Feed.State().Items, s.Limit())
}

// Landing is the home page: every category of both kinds, each with its own feed.
type Landing struct {
	Sections []*Section
}

// NewLanding creates the landing sections in display order: movie categories
// first, then TV.
func NewLanding(source Source, opts ...feed.Option) *Landing {
	l := &Landing{}
	for _, kind := range []tmdb.MediaKind{tmdb.Movie, tmdb.TV} {
		for _, category := range tmdb.Categories(kind) {
			l.Sections = append(l.Sections, &Section{
				Kind:     kind,
				Category: category,
				Title:    SectionTitle(kind, category),
				Feed:     feed.New(CategoryKey(kind, category), CategorySource(source, kind, category), opts...),
				window:   feed.NewWindow(),
			})
		}
	}
	return l
}

// Load primes every section concurrently. A failing section does not stop the
// others; all failures are returned joined.
func (l *Landing) Load(ctx context.Context) error {
	p := pool.New().WithErrors().WithContext(ctx)
	for _, section := range l.Sections {
		p.Go(func(ctx context.Context) error {
			_, err := section.Feed.Start(ctx)
			return err
		})
	}
	return p.Wait()
}

// ShowMore grows section i's window and loads its next page.
func (l *Landing) ShowMore(ctx context.Context, i int) (feed.State, error) {
	if i < 0 || i >= len(l.Sections) {
		return feed.State{}, fmt.Errorf("browse: section %d out of range", i)
	}
	section := l.Sections[i]

	section.mu.Lock()
	section.window.Grow()
	section.mu.Unlock()

	return section.Feed.LoadNext(ctx)
}

// Close discards in-flight responses of every section.
func (l *Landing) Close() {
	for _, section := range l.Sections {
		section.Feed.Close()
	}
}
