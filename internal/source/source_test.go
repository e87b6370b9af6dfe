package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stvp/assert"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	img.SetGray(0, 0, color.Gray{Y: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageSourceDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "frame_002.png"), 4, 3)
	writePNG(t, filepath.Join(dir, "frame_001.png"), 4, 3)
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip me"), 0644)

	src, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	assert.Equal(t, src.FrameCount(), 2)
	assert.Equal(t, src.FrameName(0), "frame_001.png")
	assert.Equal(t, src.FrameName(1), "frame_002.png")

	img, err := src.RenderFrame(0)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	assert.Equal(t, img.Bounds().Size(), image.Pt(4, 3))
}

func TestListSource(t *testing.T) {
	dir := t.TempDir()
	frames := filepath.Join(dir, "frames")
	os.MkdirAll(frames, 0755)
	writePNG(t, filepath.Join(frames, "a.png"), 2, 2)
	writePNG(t, filepath.Join(frames, "b.png"), 2, 2)

	list := filepath.Join(dir, "frames-list.txt")
	os.WriteFile(list, []byte("b.png\n\n  a.png  \nmissing.png\n"), 0644)

	src, err := Open(list, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	assert.Equal(t, src.FrameCount(), 3)
	assert.Equal(t, src.FrameName(0), "b.png")
	assert.Equal(t, src.FrameName(1), "a.png")

	if _, err := src.RenderFrame(1); err != nil {
		t.Errorf("RenderFrame failed: %v", err)
	}
	if _, err := src.RenderFrame(2); err == nil {
		t.Error("Expected error for missing frame")
	}
}

func TestQRSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.txt")
	os.WriteFile(path, []byte("hello\n\nhttps://example.com/rect2query\n"), 0644)

	src, err := Open(path, Options{QR: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()
	assert.Equal(t, src.FrameCount(), 2)

	gs, ok := src.(GridSource)
	if !ok {
		t.Fatal("QRSource should render grids directly")
	}

	for i := 0; i < src.FrameCount(); i++ {
		g, err := gs.RenderGrid(i)
		if err != nil {
			t.Fatalf("RenderGrid(%d) failed: %v", i, err)
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("grid %d: %v", i, err)
		}
		assert.Equal(t, g.Height(), g.Width())
		if g.Count() == 0 {
			t.Errorf("grid %d has no dark modules", i)
		}

		img, err := src.RenderFrame(i)
		if err != nil {
			t.Fatalf("RenderFrame(%d) failed: %v", i, err)
		}
		assert.Equal(t, img.Bounds().Dx(), g.Width())
	}
}

func TestOpenMissing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"missing.png", "missing.txt"} {
		if _, err := Open(filepath.Join(dir, name), Options{}); err == nil {
			t.Errorf("Expected error for %s", name)
		}
	}
}
