package fileutil

import (
	"fmt"
	"strings"
)

// MarkdownBuilder constructs a markdown document with YAML frontmatter
type MarkdownBuilder struct {
	frontmatter strings.Builder
	content     strings.Builder
}

// NewMarkdownBuilder creates a new markdown builder
func NewMarkdownBuilder() *MarkdownBuilder {
	mb := &MarkdownBuilder{}
	mb.frontmatter.WriteString("---\n")
	return mb
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// AddTitle adds a title field to the frontmatter
func (mb *MarkdownBuilder) AddTitle(title string) *MarkdownBuilder {
	fmt.Fprintf(&mb.frontmatter, "title: %s\n", quote(title))
	return mb
}

// AddType adds a type field to the frontmatter
func (mb *MarkdownBuilder) AddType(mediaType string) *MarkdownBuilder {
	fmt.Fprintf(&mb.frontmatter, "type: %s\n", mediaType)
	return mb
}

// AddField adds a key-value field to the frontmatter. Zero values are skipped.
func (mb *MarkdownBuilder) AddField(key string, value any) *MarkdownBuilder {
	switch v := value.(type) {
	case string:
		if v != "" {
			fmt.Fprintf(&mb.frontmatter, "%s: %s\n", key, quote(v))
		}
	case int:
		if v != 0 {
			fmt.Fprintf(&mb.frontmatter, "%s: %d\n", key, v)
		}
	case float64:
		if v > 0 {
			fmt.Fprintf(&mb.frontmatter, "%s: %.1f\n", key, v)
		}
	case bool:
		fmt.Fprintf(&mb.frontmatter, "%s: %t\n", key, v)
	}
	return mb
}

// AddTags adds a list of tags to the frontmatter
func (mb *MarkdownBuilder) AddTags(tags ...string) *MarkdownBuilder {
	if len(tags) == 0 {
		return mb
	}

	mb.frontmatter.WriteString("tags:\n")
	for _, tag := range tags {
		if tag != "" {
			fmt.Fprintf(&mb.frontmatter, "  - %s\n", tag)
		}
	}
	return mb
}

// DecadeTag returns a decade tag for year, e.g. "year/1990s"
func DecadeTag(year int) string {
	switch {
	case year <= 0:
		return ""
	case year < 1950:
		return "year/pre-1950s"
	default:
		return fmt.Sprintf("year/%ds", year/10*10)
	}
}

// AddHeading adds a heading of the given level to the content
func (mb *MarkdownBuilder) AddHeading(level int, text string) *MarkdownBuilder {
	level = max(1, min(level, 6))
	fmt.Fprintf(&mb.content, "%s %s\n\n", strings.Repeat("#", level), text)
	return mb
}

// AddParagraph adds a paragraph of text to the content
func (mb *MarkdownBuilder) AddParagraph(text string) *MarkdownBuilder {
	if text == "" {
		return mb
	}

	mb.content.WriteString(text)
	mb.content.WriteString("\n\n")
	return mb
}

// AddImage adds an image to the content
func (mb *MarkdownBuilder) AddImage(imageURL string) *MarkdownBuilder {
	if imageURL == "" {
		return mb
	}

	fmt.Fprintf(&mb.content, "![](%s)\n\n", imageURL)
	return mb
}

// AddCallout adds a collapsed callout section to the content
func (mb *MarkdownBuilder) AddCallout(calloutType, title, content string) *MarkdownBuilder {
	if content == "" {
		return mb
	}

	if title != "" {
		fmt.Fprintf(&mb.content, ">[!%s]- %s\n", calloutType, title)
	} else {
		fmt.Fprintf(&mb.content, ">[!%s]\n", calloutType)
	}

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&mb.content, "> %s\n", line)
	}

	mb.content.WriteString("\n")
	return mb
}

// AddExternalLink adds an external link to the content
func (mb *MarkdownBuilder) AddExternalLink(title, url string) *MarkdownBuilder {
	if url == "" {
		return mb
	}

	fmt.Fprintf(&mb.content, "[%s](%s)\n\n", title, url)
	return mb
}

// Build returns the complete markdown document as a string
func (mb *MarkdownBuilder) Build() string {
	var doc strings.Builder
	doc.WriteString(mb.frontmatter.String())
	doc.WriteString("---\n\n")
	doc.WriteString(mb.content.String())
	return doc.String()
}
