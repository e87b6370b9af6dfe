package raster

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ivlev/rect2query/internal/decompose"
	"github.com/ivlev/rect2query/internal/system"
)

// Binarize scales img to width x height and marks every pixel darker than
// threshold as foreground. A non-positive width or height keeps the source
// size.
func Binarize(img image.Image, width, height int, threshold int) decompose.Grid {
	src := img.Bounds()
	size := image.Pt(width, height)
	if width <= 0 || height <= 0 {
		size = src.Size()
	}

	gray := system.GetGray(size)
	defer system.PutGray(gray)

	if size == src.Size() {
		draw.Draw(gray, gray.Bounds(), img, src.Min, draw.Src)
	} else {
		// CatmullRom is the closest kernel to Lanczos that x/image provides.
		draw.CatmullRom.Scale(gray, gray.Bounds(), img, src, draw.Src, nil)
	}

	g := make(decompose.Grid, size.Y)
	for y := range g {
		row := make([]uint8, size.X)
		pix := gray.Pix[y*gray.Stride : y*gray.Stride+size.X]
		for x, v := range pix {
			if int(v) < threshold {
				row[x] = 1
			}
		}
		g[y] = row
	}
	return g
}

// FromBitmap converts a boolean bitmap (true = foreground).
func FromBitmap(bits [][]bool) decompose.Grid {
	g := make(decompose.Grid, len(bits))
	for y, line := range bits {
		row := make([]uint8, len(line))
		for x, b := range line {
			if b {
				row[x] = 1
			}
		}
		g[y] = row
	}
	return g
}

// ToImage renders g with black foreground on white, one pixel per cell.
func ToImage(g decompose.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for y, row := range g {
		for x, v := range row {
			c := color.Gray{Y: 255}
			if v != 0 {
				c = color.Gray{Y: 0}
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}

// Preview draws g as text, '#' for foreground and '.' for background.
func Preview(g decompose.Grid) string {
	var sb strings.Builder
	sb.Grow(g.Height() * (g.Width() + 1))
	for y, row := range g {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, v := range row {
			if v != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
