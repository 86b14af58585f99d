package fetch

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/fileutil"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

const tmdbSiteURL = "https://www.themoviedb.org"

// renderMarkdown builds a digest note of the listing's displayable items.
func renderMarkdown(l Listing, posters Posters) string {
	items := feed.Displayable(l.Items)

	mb := fileutil.NewMarkdownBuilder().
		AddTitle(l.Title).
		AddType("listing").
		AddField("list_key", l.Key).
		AddField("media_type", string(l.MediaType)).
		AddField("pages", l.Pages).
		AddField("titles", len(items)).
		AddField("fetched", l.FetchedAt.Format("2006-01-02"))
	if l.Genre != nil {
		mb.AddField("genre_id", l.Genre.ID)
	}
	mb.AddTags("cinefeed/listing", "media/"+string(l.MediaType))

	for i, item := range items {
		heading := fmt.Sprintf("%d. %s", i+1, item.DisplayTitle())
		if year := item.YearInt(); year > 0 {
			heading += fmt.Sprintf(" (%d)", year)
		}
		mb.AddHeading(2, heading).
			AddImage(posters.PosterURL(item.PosterPath)).
			AddParagraph(item.Overview).
			AddCallout("info", "Details", itemDetails(item)).
			AddExternalLink("View on TMDB", fmt.Sprintf("%s/%s/%d", tmdbSiteURL, l.MediaType, item.ID))
	}

	return mb.Build()
}

func itemDetails(item tmdb.MediaItem) string {
	var lines []string
	if item.VoteCount > 0 {
		lines = append(lines, fmt.Sprintf("Rating: %.1f (%d votes)", item.VoteAverage, item.VoteCount))
	}
	if date := item.ReleaseDate + item.FirstAirDate; date != "" {
		lines = append(lines, "Released: "+date)
	}
	if tag := fileutil.DecadeTag(item.YearInt()); tag != "" {
		lines = append(lines, "Decade: #"+tag)
	}
	return strings.Join(lines, "\n")
}
