package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stvp/assert"

	"github.com/ivlev/rect2query/internal/decompose"
)

func TestReportWriteRead(t *testing.T) {
	r := &Report{
		Version: "1.0",
		Input:   "frames-list.txt",
		Frames: []Frame{
			{
				Index:    0,
				Name:     "frame_001.png",
				Width:    5,
				Height:   3,
				Strategy: "horizontal",
				Length:   62,
				Lengths:  map[string]int{"horizontal": 62, "vertical": 62, "runlength": 62},
				Rects: []decompose.Rect{
					{Row0: 0, Row1: 1, Col0: 0, Col1: 1},
					{Row0: 1, Row1: 2, Col0: 3, Col1: 4},
					{Row0: 0, Row1: 3, Col0: 1, Col1: 3},
				},
			},
			{Index: 1, Name: "frame_002.png", Width: 5, Height: 3, Strategy: "horizontal"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := Write(r, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "rects: [{row0: 0, row1: 1") {
		t.Errorf("Expected flow-style rects, got:\n%s", data)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	assert.Equal(t, got.Version, r.Version)
	assert.Equal(t, len(got.Frames), 2)
	assert.Equal(t, got.Frames[0].Rects, r.Frames[0].Rects)
	assert.Equal(t, got.Frames[0].Lengths, r.Frames[0].Lengths)
	assert.Equal(t, len(got.Frames[1].Rects), 0)
}
