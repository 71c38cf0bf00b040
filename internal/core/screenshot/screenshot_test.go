package screenshot

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

type fakeRunner struct {
	out string
	err error
}

func (r fakeRunner) Run(ctx context.Context, script string) (string, error) {
	return r.out, r.err
}

type fakeStore struct {
	sessionID int64
	data      []byte
}

func (f *fakeStore) SaveScreenshot(sessionID int64, data []byte) (*models.Screenshot, error) {
	f.sessionID = sessionID
	f.data = data
	return &models.Screenshot{ID: 1, SessionID: sessionID, Data: data}, nil
}

func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "shot.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCaptureHalvesAndSaves(t *testing.T) {
	path := writeTestImage(t, 64, 48)
	store := &fakeStore{}
	svc := NewService(fakeRunner{out: path + "\n"}, store, "true")

	if err := svc.Capture(context.Background(), 7); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	if store.sessionID != 7 {
		t.Errorf("saved sessionID = %d, want 7", store.sessionID)
	}

	img, err := jpeg.Decode(bytes.NewReader(store.data))
	if err != nil {
		t.Fatalf("saved data is not a JPEG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("saved image is %dx%d, want 32x24", b.Dx(), b.Dy())
	}
}

func TestCaptureEmptyPath(t *testing.T) {
	svc := NewService(fakeRunner{out: "\n"}, &fakeStore{}, "true")
	if err := svc.Capture(context.Background(), 1); err == nil {
		t.Error("Capture() should fail when the script prints no path")
	}
}

func TestHalve(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	small := halve(img)
	b := small.Bounds()
	if b.Dx() != 5 || b.Dy() != 3 {
		t.Errorf("halve() bounds = %v, want 5x3", b)
	}
}
