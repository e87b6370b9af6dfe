package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stvp/assert"

	"github.com/ivlev/rect2query/internal/decompose"
)

func TestBinarize(t *testing.T) {
	// Black square on a white background
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for y := 50; y < 150; y++ {
		for x := 50; x < 150; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	g := Binarize(img, 20, 20, 10)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	assert.Equal(t, g.Height(), 20)
	assert.Equal(t, g.Width(), 20)

	// Interior of the square is foreground, corners are background
	assert.Equal(t, g[10][10], uint8(1))
	assert.Equal(t, g[6][6], uint8(1))
	assert.Equal(t, g[0][0], uint8(0))
	assert.Equal(t, g[19][19], uint8(0))

	// Resampling softens the border cells, so only bound the count
	count := g.Count()
	if count < 50 || count > 110 {
		t.Errorf("Expected 50..110 foreground cells, got %d", count)
	}
}

func TestBinarizeNativeSize(t *testing.T) {
	img := image.NewGray(image.Rect(10, 10, 13, 12))
	img.SetGray(10, 10, color.Gray{Y: 0})
	img.SetGray(11, 10, color.Gray{Y: 9})
	img.SetGray(12, 10, color.Gray{Y: 10})
	img.SetGray(10, 11, color.Gray{Y: 200})
	img.SetGray(11, 11, color.Gray{Y: 255})
	img.SetGray(12, 11, color.Gray{Y: 3})

	g := Binarize(img, 0, 0, 10)
	assert.Equal(t, g, decompose.Grid{
		{1, 1, 0},
		{0, 0, 1},
	})
}

func TestPreview(t *testing.T) {
	g := decompose.Grid{
		{1, 1, 1, 0, 0},
		{0, 1, 1, 1, 0},
		{0, 1, 1, 0, 0},
	}
	assert.Equal(t, Preview(g), "###..\n.###.\n.##..")
	assert.Equal(t, Preview(nil), "")
}

func TestBitmapImageRoundTrip(t *testing.T) {
	g := FromBitmap([][]bool{
		{true, false},
		{false, true},
		{true, true},
	})
	assert.Equal(t, g, decompose.Grid{{1, 0}, {0, 1}, {1, 1}})

	img := ToImage(g)
	assert.Equal(t, img.Bounds(), image.Rect(0, 0, 2, 3))
	assert.Equal(t, Binarize(img, 0, 0, 128), g)
}
