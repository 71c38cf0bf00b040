// Package screenshot captures the screen through an external command,
// downscales the image, and persists it against the open session.
package screenshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/wkallhof/activity-tracker/internal/core/models"
	"github.com/wkallhof/activity-tracker/internal/core/source"
)

// Store persists captured screenshots.
type Store interface {
	SaveScreenshot(sessionID int64, data []byte) (*models.Screenshot, error)
}

// Service captures screenshots via a shell script that prints the path of
// the captured image file.
type Service struct {
	runner source.Runner
	store  Store
	script string
}

// NewService returns a capture service using the platform default script
// when script is empty.
func NewService(runner source.Runner, store Store, script string) *Service {
	if script == "" {
		script = defaultCaptureScript
	}
	return &Service{runner: runner, store: store, script: script}
}

// Capture takes a screenshot, halves its dimensions to keep the stored
// blobs small, and saves it for the given session.
func (s *Service) Capture(ctx context.Context, sessionID int64) error {
	if s.script == "" {
		return errors.New("screenshot capture is not supported on this platform")
	}

	out, err := s.runner.Run(ctx, s.script)
	if err != nil {
		return fmt.Errorf("capture script failed: %w", err)
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return errors.New("capture script printed no file path")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read captured image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode captured image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, halve(img), &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}

	if _, err := s.store.SaveScreenshot(sessionID, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	return nil
}

// halve returns the image at half width and height, sampling every second
// pixel. Nearest-neighbour is plenty for an archival thumbnail.
func halve(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()/2, b.Dy()/2))
	for y := 0; y < b.Dy()/2; y++ {
		for x := 0; x < b.Dx()/2; x++ {
			dst.Set(x, y, src.At(b.Min.X+x*2, b.Min.Y+y*2))
		}
	}
	return dst
}
