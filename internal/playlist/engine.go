// Package playlist manages the bounded, ordered set of slideshow images on
// disk and renders the auto-advancing slideshow view. Images are named by
// their position in the playlist ("0.jpg", "1.png", ...); removal renumbers
// the files behind the removed index so index always means current position.
package playlist

import (
	"bytes"
	"fmt"
	"image/gif"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// maxImageWidth is the width uploads are downscaled to. Signage panels top
// out at 1080p/4K; storing phone-camera originals just wastes the SD card.
const maxImageWidth = 1920

// allowedExtensions maps normalized extensions to the imaging format used to
// re-encode them. GIFs are stored verbatim to keep animations intact.
var allowedExtensions = map[string]imaging.Format{
	"jpg":  imaging.JPEG,
	"jpeg": imaging.JPEG,
	"png":  imaging.PNG,
	"gif":  -1, // verbatim
	"bmp":  imaging.BMP,
}

// Engine stores and serves playlist image files from a single directory.
type Engine struct {
	dir string
}

// NewEngine returns an Engine rooted at dir, creating it if needed.
func NewEngine(dir string) (*Engine, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("playlist: create image dir: %w", err)
	}
	return &Engine{dir: dir}, nil
}

// Dir returns the image directory.
func (e *Engine) Dir() string { return e.dir }

// NormalizeExt lower-cases ext and strips a leading dot. Returns false if the
// extension is not an allowed image type.
func NormalizeExt(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	_, ok := allowedExtensions[ext]
	return ext, ok
}

// Store decodes, downscales if oversized, and writes the image as
// "<index>.<ext>". Returns the stored filename. The data must decode as the
// claimed type; garbage uploads are rejected here rather than rendered as a
// broken slide.
func (e *Engine) Store(index int, ext string, data []byte) (string, error) {
	ext, ok := NormalizeExt(ext)
	if !ok {
		return "", fmt.Errorf("playlist: unsupported extension %q", ext)
	}
	name := fmt.Sprintf("%d.%s", index, ext)
	path := filepath.Join(e.dir, name)

	if ext == "gif" {
		// Verify it decodes, then keep the original bytes (animation frames).
		if _, err := gif.DecodeAll(bytes.NewReader(data)); err != nil {
			return "", fmt.Errorf("playlist: decode gif: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", err
		}
		return name, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("playlist: decode image: %w", err)
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("playlist: save image: %w", err)
	}
	return name, nil
}

// Remove deletes the backing file at index and renumbers the files after it
// so positions stay dense. File deletion is best-effort: a missing file does
// not abort the logical removal. Returns the updated image list.
func (e *Engine) Remove(images []string, index int) []string {
	if err := os.Remove(filepath.Join(e.dir, images[index])); err != nil && !os.IsNotExist(err) {
		slog.Warn("playlist: failed to delete image file", "file", images[index], "err", err)
	}

	next := make([]string, 0, len(images)-1)
	next = append(next, images[:index]...)
	for i := index + 1; i < len(images); i++ {
		old := images[i]
		renamed := fmt.Sprintf("%d%s", i-1, filepath.Ext(old))
		if err := os.Rename(filepath.Join(e.dir, old), filepath.Join(e.dir, renamed)); err != nil {
			slog.Warn("playlist: failed to renumber image file", "from", old, "to", renamed, "err", err)
		}
		next = append(next, renamed)
	}
	return next
}

// RemoveAll deletes every backing file, best-effort.
func (e *Engine) RemoveAll(images []string) {
	for _, name := range images {
		if err := os.Remove(filepath.Join(e.dir, name)); err != nil && !os.IsNotExist(err) {
			slog.Warn("playlist: failed to delete image file", "file", name, "err", err)
		}
	}
}
