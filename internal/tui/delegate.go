package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

type mediaItem struct {
	tmdb.MediaItem
}

func (i mediaItem) Title() string {
	return fmt.Sprintf("%s (%s)", strings.ToUpper(i.DisplayTitle()), i.Year())
}

func (i mediaItem) FilterValue() string {
	return i.DisplayTitle()
}

func (i mediaItem) Description() string {
	return i.Overview
}

type itemStyles struct {
	normal        lipgloss.Style
	selected      lipgloss.Style
	titleStyle    lipgloss.Style
	ratingStyle   lipgloss.Style
	metadataStyle lipgloss.Style
	overviewStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		ratingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		overviewStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
	}
}

type mediaDelegate struct {
	styles   itemStyles
	imageURL func(string) string
}

func newDelegate(imageURL func(string) string) mediaDelegate {
	return mediaDelegate{styles: newItemStyles(), imageURL: imageURL}
}

func (d mediaDelegate) Height() int                         { return 4 }
func (d mediaDelegate) Spacing() int                        { return 1 }
func (d mediaDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d mediaDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	media, ok := item.(mediaItem)
	if !ok {
		return
	}

	titleLine := d.styles.titleStyle.Render(media.Title())
	ratingLine := d.styles.ratingStyle.Render(fmt.Sprintf("%.1f/10", media.VoteAverage))
	metadataLine := d.styles.metadataStyle.Render(formatMetadata(media.MediaItem, d.posterURL(media.PosterPath), m.Width()-4))
	overviewLine := d.styles.overviewStyle.Render(truncate(media.Overview, m.Width()-4))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, ratingLine, metadataLine, overviewLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

func (d mediaDelegate) posterURL(path string) string {
	if d.imageURL == nil {
		return path
	}
	return d.imageURL(path)
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

// formatMetadata creates the metadata line with language, vote count and poster location
func formatMetadata(item tmdb.MediaItem, poster string, availableWidth int) string {
	var parts []string

	if item.OriginalLang != "" {
		parts = append(parts, strings.ToUpper(item.OriginalLang))
	}
	if item.VoteCount > 0 {
		parts = append(parts, formatVoteCount(item.VoteCount))
	}
	if poster != "" {
		parts = append(parts, poster)
	}

	if len(parts) == 0 {
		return "No metadata available"
	}

	metadata := strings.Join(parts, " | ")
	if availableWidth > 0 && len(metadata) > availableWidth {
		metadata = truncate(metadata, availableWidth)
	}
	return metadata
}

// formatVoteCount formats vote count in a compact way
func formatVoteCount(count int) string {
	if count >= 1000 {
		return fmt.Sprintf("%.1fK votes", float64(count)/1000)
	}
	return fmt.Sprintf("%d votes", count)
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
