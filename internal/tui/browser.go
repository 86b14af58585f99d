// Package tui provides the interactive terminal browser.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/cinefeed/internal/browse"
	apperrors "github.com/lepinkainen/cinefeed/internal/errors"
	"github.com/lepinkainen/cinefeed/internal/feed"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// pager is the view behind the browser: a category or genre listing.
type pager interface {
	Title() string
	Start(ctx context.Context) (feed.State, error)
	LoadNext(ctx context.Context) (feed.State, error)
	State() feed.State
}

type pageLoadedMsg struct {
	title string
	state feed.State
	err   error
}

type model struct {
	ctx      context.Context
	view     pager
	category *browse.CategoryView
	notFound *apperrors.NotFoundError

	list    list.Model
	spinner spinner.Model
	window  feed.Window
	state   feed.State
	loading bool
	errMsg  string
}

func newModel(ctx context.Context, view pager, imageURL func(string) string) *model {
	l := list.New(nil, newDelegate(imageURL), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	m := &model{
		ctx:     ctx,
		view:    view,
		list:    l,
		spinner: s,
		window:  feed.NewWindow(),
	}
	if cv, ok := view.(*browse.CategoryView); ok {
		m.category = cv
	}
	return m
}

func (m *model) Init() tea.Cmd {
	if m.notFound != nil {
		return nil
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.load(m.view.Start))
}

func (m *model) load(fn func(context.Context) (feed.State, error)) tea.Cmd {
	ctx := m.ctx
	title := m.view.Title()
	return func() tea.Msg {
		state, err := fn(ctx)
		return pageLoadedMsg{title: title, state: state, err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "m":
			return m, m.showMore()
		case "tab":
			return m, m.nextCategory()
		}
	case pageLoadedMsg:
		if m.notFound != nil || msg.title != m.view.Title() {
			return m, nil
		}
		m.loading = false
		m.state = msg.state
		m.errMsg = ""
		if msg.err != nil {
			m.errMsg = msg.state.Err
			if m.errMsg == "" {
				m.errMsg = msg.err.Error()
			}
		}
		m.refreshItems()
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-8, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// showMore grows the window and fetches the next page when one exists.
// It does nothing while a load is in flight.
func (m *model) showMore() tea.Cmd {
	if m.loading || m.notFound != nil {
		return nil
	}
	shown := len(feed.Visible(m.state.Items, m.window.Limit()))
	available := len(feed.Displayable(m.state.Items))
	if !m.state.HasMore && shown >= available {
		return nil
	}

	m.window.Grow()
	if !m.state.HasMore {
		m.refreshItems()
		return nil
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.load(m.view.LoadNext))
}

// nextCategory switches a category browser to the following category.
func (m *model) nextCategory() tea.Cmd {
	if m.category == nil {
		return nil
	}
	m.category.Next()
	m.window = feed.NewWindow()
	m.state = m.category.State()
	m.errMsg = ""
	m.refreshItems()
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.load(m.view.Start))
}

func (m *model) refreshItems() {
	visible := feed.Visible(m.state.Items, m.window.Limit())
	items := make([]list.Item, len(visible))
	for i, item := range visible {
		items[i] = mediaItem{MediaItem: item}
	}
	m.list.SetItems(items)
}

func (m *model) View() string {
	if m.notFound != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render("Genre Not Found"),
			errorStyle.Render(fmt.Sprintf("Genre %q not found", m.notFound.Slug)),
			helpStyle.Render("q quit"),
		)
	}

	sections := []string{headerStyle.Render(m.view.Title())}
	if m.loading && len(m.state.Items) == 0 {
		sections = append(sections, fmt.Sprintf("%s Loading...", m.spinner.View()))
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render("Error: "+m.errMsg))
	}
	sections = append(sections, m.list.View())

	status := fmt.Sprintf("Showing %d of %d", len(m.list.Items()), len(feed.Displayable(m.state.Items)))
	if m.loading && len(m.state.Items) > 0 {
		status = fmt.Sprintf("%s %s", m.spinner.View(), status)
	}
	sections = append(sections, statusStyle.Render(status), helpStyle.Render(m.helpText()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) helpText() string {
	help := "Up/Down navigate"
	if m.loading {
		help += " | loading..."
	} else if m.state.HasMore || len(m.list.Items()) < len(feed.Displayable(m.state.Items)) {
		help += " | m more"
	}
	if m.category != nil {
		help += " | tab next category"
	}
	return help + " | q quit"
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("161")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("247"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// BrowseCategory runs the terminal browser over a category view.
func BrowseCategory(ctx context.Context, view *browse.CategoryView, imageURL func(string) string) error {
	defer view.Close()
	_, err := runProgram(newModel(ctx, view, imageURL))
	return err
}

// BrowseGenre runs the terminal browser over an opened genre view. A view in
// the not-found state shows the not-found screen.
func BrowseGenre(ctx context.Context, view *browse.GenreView, imageURL func(string) string) error {
	defer view.Close()
	m := newModel(ctx, view, imageURL)
	m.notFound = view.NotFoundError()
	_, err := runProgram(m)
	return err
}
