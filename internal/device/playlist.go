package device

import (
	"context"
	"fmt"

	"github.com/css-signage/css-agent-go/internal/models"
	"github.com/css-signage/css-agent-go/internal/playlist"
)

// PlaylistConfig returns a copy of the playlist section of the document.
func (c *Controller) PlaylistConfig() models.Playlist {
	return c.Config().Playlist
}

// UpdatePlaylist applies a partial update of the slideshow settings.
func (c *Controller) UpdatePlaylist(upd models.PlaylistUpdate) (models.Playlist, *models.AppError) {
	if upd.DisplayTime != nil && *upd.DisplayTime <= 0 {
		return models.Playlist{}, models.ErrValidation("display_time must be greater than 0")
	}
	if upd.FadeTime != nil && *upd.FadeTime < 0 {
		return models.Playlist{}, models.ErrValidation("fade_time must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.apply(func(cfg *models.Config) error {
		if upd.DisplayTime != nil {
			cfg.Playlist.DisplayTime = *upd.DisplayTime
		}
		if upd.FadeTime != nil {
			cfg.Playlist.FadeTime = *upd.FadeTime
		}
		if upd.FallbackEnabled != nil {
			cfg.Playlist.FallbackEnabled = *upd.FallbackEnabled
		}
		return nil
	})
	if err != nil {
		return models.Playlist{}, models.ErrConfigIO(err.Error())
	}
	return next.Playlist, nil
}

// AddPlaylistImage validates, stores, and appends an uploaded image.
// Returns the new image's index, filename, and the resulting image count.
func (c *Controller) AddPlaylistImage(ctx context.Context, data []byte, ext string) (int, string, int, *models.AppError) {
	ext, ok := playlist.NormalizeExt(ext)
	if !ok {
		return 0, "", 0, models.ErrUnsupportedType(fmt.Sprintf("unsupported image type %q", ext))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	index := len(c.cfg.Playlist.Images)
	if index >= models.MaxPlaylistImages {
		return 0, "", 0, models.ErrPlaylistFull(fmt.Sprintf("playlist is full (max %d images)", models.MaxPlaylistImages))
	}

	filename, err := c.engine.Store(index, ext, data)
	if err != nil {
		return 0, "", 0, models.ErrUnsupportedType(err.Error())
	}

	next, err := c.apply(func(cfg *models.Config) error {
		cfg.Playlist.Images = append(cfg.Playlist.Images, filename)
		return nil
	})
	if err != nil {
		return 0, "", 0, models.ErrConfigIO(err.Error())
	}
	return index, filename, len(next.Playlist.Images), nil
}

// RemovePlaylistImage removes the image at index, shifting later entries
// down. Returns the resulting image count.
func (c *Controller) RemovePlaylistImage(ctx context.Context, index int) (int, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.cfg.Playlist.Images) {
		return 0, models.ErrIndexOutOfRange(fmt.Sprintf("index %d out of range (playlist has %d images)", index, len(c.cfg.Playlist.Images)))
	}

	renumbered := c.engine.Remove(c.cfg.Playlist.Images, index)
	next, err := c.apply(func(cfg *models.Config) error {
		cfg.Playlist.Images = renumbered
		return nil
	})
	if err != nil {
		return 0, models.ErrConfigIO(err.Error())
	}
	return len(next.Playlist.Images), nil
}

// ClearPlaylist removes every image and its backing file.
func (c *Controller) ClearPlaylist(ctx context.Context) *models.AppError {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.RemoveAll(c.cfg.Playlist.Images)
	if _, err := c.apply(func(cfg *models.Config) error {
		cfg.Playlist.Images = []string{}
		return nil
	}); err != nil {
		return models.ErrConfigIO(err.Error())
	}
	return nil
}

// ActivatePlaylist points the display at the slideshow view. Fails without
// touching the boot pointer if the playlist is empty.
func (c *Controller) ActivatePlaylist(ctx context.Context) *models.AppError {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cfg.Playlist.Images) == 0 {
		return models.ErrEmptyPlaylist("playlist has no images")
	}

	url := models.SlideshowURL(c.cfg.APIPort)
	if _, err := c.apply(func(cfg *models.Config) error {
		cfg.DisplayURL = url
		return nil
	}); err != nil {
		return models.ErrConfigIO(err.Error())
	}
	if err := c.driver.Apply(ctx, url); err != nil {
		return models.ErrConfigIO(err.Error())
	}
	return nil
}

// SlideshowHTML renders the current playlist as a self-contained page.
func (c *Controller) SlideshowHTML() (string, error) {
	return playlist.Slideshow(c.PlaylistConfig(), "/images")
}

// ImageDir returns the directory playlist images are served from.
func (c *Controller) ImageDir() string {
	return c.engine.Dir()
}
