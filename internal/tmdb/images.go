package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ErrNoPoster is returned when no poster is available for the media.
var ErrNoPoster = errors.New("poster not available")

// PosterURL constructs the full image URL from a poster path.
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.imageBaseURL + posterPath
}

// DownloadPoster downloads the item's poster and resizes it to at most maxWidth pixels wide.
func (c *Client) DownloadPoster(ctx context.Context, item MediaItem, savePath string, maxWidth int) error {
	if !item.HasPoster() {
		return ErrNoPoster
	}
	return c.DownloadAndResizeImage(ctx, c.PosterURL(item.PosterPath), savePath, maxWidth)
}

// DownloadAndResizeImage downloads an image and resizes it to the specified width.
func (c *Client) DownloadAndResizeImage(ctx context.Context, imageURL, savePath string, maxWidth int) error {
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return err
	}

	return imaging.Save(img, savePath, imaging.JPEGQuality(85))
}
