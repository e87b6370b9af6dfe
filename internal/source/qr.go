package source

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/rect2query/internal/decompose"
	"github.com/ivlev/rect2query/internal/raster"
)

// QRSource turns each non-empty line of a text file into a QR code frame,
// one cell per module, dark modules as foreground.
type QRSource struct {
	texts []string
	level qrcode.RecoveryLevel
}

func NewQRSource(path string) (*QRSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var texts []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return NewQRTexts(texts), nil
}

// NewQRTexts builds a QRSource from in-memory texts.
func NewQRTexts(texts []string) *QRSource {
	return &QRSource{texts: texts, level: qrcode.Medium}
}

func (s *QRSource) FrameCount() int {
	return len(s.texts)
}

func (s *QRSource) FrameName(index int) string {
	return fmt.Sprintf("qr_%d", index+1)
}

func (s *QRSource) RenderGrid(index int) (decompose.Grid, error) {
	q, err := qrcode.New(s.texts[index], s.level)
	if err != nil {
		return nil, fmt.Errorf("qr %d: %w", index+1, err)
	}
	return raster.FromBitmap(q.Bitmap()), nil
}

func (s *QRSource) RenderFrame(index int) (image.Image, error) {
	g, err := s.RenderGrid(index)
	if err != nil {
		return nil, err
	}
	return raster.ToImage(g), nil
}

func (s *QRSource) Close() error {
	return nil
}
