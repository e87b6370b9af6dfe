package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Ext is appended to output names when compression is enabled.
const Ext = ".zst"

type fileWriter struct {
	f   *os.File
	buf *bufio.Writer
	enc *zstd.Encoder
	w   io.Writer
}

// Create opens path for writing queries. With compress set the stream is
// zstd-compressed; the caller chooses the file name.
func Create(path string, compress bool) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	fw := &fileWriter{f: f, buf: bufio.NewWriter(f)}
	fw.w = fw.buf
	if compress {
		enc, err := zstd.NewWriter(fw.buf,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		fw.enc = enc
		fw.w = enc
	}
	return fw, nil
}

func (fw *fileWriter) Write(p []byte) (int, error) {
	return fw.w.Write(p)
}

func (fw *fileWriter) Close() error {
	if fw.enc != nil {
		if err := fw.enc.Close(); err != nil {
			fw.f.Close()
			return fmt.Errorf("zstd close: %w", err)
		}
	}
	if err := fw.buf.Flush(); err != nil {
		fw.f.Close()
		return err
	}
	return fw.f.Close()
}

// Open returns a reader for a file written by Create, decompressing when
// the name ends in Ext.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, Ext) {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &decodeCloser{dec: dec, f: f}, nil
}

type decodeCloser struct {
	dec *zstd.Decoder
	f   *os.File
}

func (d *decodeCloser) Read(p []byte) (int, error) {
	return d.dec.Read(p)
}

func (d *decodeCloser) Close() error {
	d.dec.Close()
	return d.f.Close()
}

// WriteQueries writes each non-empty query on its own line and returns how
// many lines were written.
func WriteQueries(w io.Writer, queries []string) (int, error) {
	n := 0
	for _, q := range queries {
		if q == "" {
			continue
		}
		if _, err := io.WriteString(w, q+"\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
