package ebitenhost

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"intro", "intro"},
		{"after-click", "after-click"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/page", "path_to_page"},
		{"special!@#", "special___"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	h := New(Options{})
	h.Screenshot("a")
	h.Screenshot("b")
	if len(h.shots) != 2 || h.shots[0] != "a" || h.shots[1] != "b" {
		t.Errorf("queue = %v", h.shots)
	}
	if h.opts.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", h.opts.ScreenshotDir)
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{
		0x40, 0x20, 0x00, 0x80, // half alpha
		0xff, 0xff, 0xff, 0xff,
		0, 0, 0, 0,
	}, 3, 1)
	if got := img.Pix[:4]; got[0] != 0x7f || got[1] != 0x3f || got[3] != 0x80 {
		t.Errorf("pixel 0 = %v", got)
	}
	if img.Pix[4] != 0xff || img.Pix[11] != 0 {
		t.Errorf("pix = %v", img.Pix)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat = %v, %v", fi, err)
	}
}
