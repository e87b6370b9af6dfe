package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/rect2query/internal/decompose"
)

// Source yields the frames of a batch in order.
type Source interface {
	FrameCount() int
	FrameName(index int) string
	RenderFrame(index int) (image.Image, error)
	Close() error
}

// GridSource is implemented by sources whose frames are binary rasters
// already. The engine uses RenderGrid instead of resizing and thresholding.
type GridSource interface {
	RenderGrid(index int) (decompose.Grid, error)
}

type Options struct {
	DPI       int
	FramesDir string
	QR        bool
}

// Open picks a source for path: QR text when opts.QR is set, a PDF by
// extension, a frames list for .txt, otherwise an image file or directory.
func Open(path string, opts Options) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case opts.QR:
		return NewQRSource(path)
	case ext == ".pdf":
		return NewFitzPDFSource(path, opts.DPI)
	case ext == ".txt":
		return NewListSource(path, opts.FramesDir)
	default:
		return NewImageSource(path)
	}
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 72
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) FrameCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) FrameName(index int) string {
	return fmt.Sprintf("%s#%d", filepath.Base(f.path), index+1)
}

func (f *FitzPDFSource) RenderFrame(index int) (image.Image, error) {
	// go-fitz documents are not safe for concurrent use; each worker opens its own.
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(f.dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
