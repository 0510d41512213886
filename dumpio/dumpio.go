// Package dumpio opens and creates possibly compressed dump and
// revision document files.  Compression is chosen by file extension.
package dumpio

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strings"

	dsbzip2 "github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compression formats.
const (
	None  = "none"
	Bzip2 = "bz2"
	Gzip  = "gz"
	Zstd  = "zst"
)

var extensions = map[string]string{
	".bz2": Bzip2,
	".gz":  Gzip,
	".zst": Zstd,
}

// Format guesses the compression of the named file.
func Format(path string) string {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return None
}

// Ext is the file extension of a compression format.
func Ext(format string) string {
	if format == None || format == "" {
		return ""
	}
	return "." + format
}

// Valid reports whether format is a known compression format.
func Valid(format string) bool {
	switch format {
	case None, Bzip2, Gzip, Zstd:
		return true
	}
	return false
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var rv error
	for _, c := range r.closers {
		if err := c(); err != nil && rv == nil {
			rv = err
		}
	}
	return rv
}

// Open opens the named file, decompressing it according to its
// extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(f, Format(path))
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "opening %v", path)
	}
	return rc, nil
}

// NewReader decompresses r.  Closing the result closes r if it's an
// io.Closer.
func NewReader(r io.Reader, format string) (io.ReadCloser, error) {
	rv := &readCloser{}
	if c, ok := r.(io.Closer); ok {
		rv.closers = append(rv.closers, c.Close)
	}
	br := bufio.NewReaderSize(r, 1<<16)

	switch format {
	case None, "":
		rv.Reader = br
	case Bzip2:
		rv.Reader = bzip2.NewReader(br)
	case Gzip:
		z, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		rv.Reader = z
		rv.closers = append([]func() error{z.Close}, rv.closers...)
	case Zstd:
		z, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		rv.Reader = z
		rv.closers = append([]func() error{func() error { z.Close(); return nil }}, rv.closers...)
	default:
		return nil, errors.Errorf("unknown compression %q", format)
	}
	return rv, nil
}

type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var rv error
	for _, c := range w.closers {
		if err := c(); err != nil && rv == nil {
			rv = err
		}
	}
	return rv
}

// Create creates the named file, compressing what's written to it.
func Create(path, format string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	wc, err := NewWriter(f, format)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "creating %v", path)
	}
	return wc, nil
}

// NewWriter compresses into w.  Closing the result flushes everything
// and closes w if it's an io.Closer.
func NewWriter(w io.Writer, format string) (io.WriteCloser, error) {
	bw := bufio.NewWriterSize(w, 1<<16)
	rv := &writeCloser{}

	switch format {
	case None, "":
		rv.Writer = bw
	case Bzip2:
		z, err := dsbzip2.NewWriter(bw, nil)
		if err != nil {
			return nil, err
		}
		rv.Writer = z
		rv.closers = append(rv.closers, z.Close)
	case Gzip:
		z := gzip.NewWriter(bw)
		rv.Writer = z
		rv.closers = append(rv.closers, z.Close)
	case Zstd:
		z, err := zstd.NewWriter(bw)
		if err != nil {
			return nil, err
		}
		rv.Writer = z
		rv.closers = append(rv.closers, z.Close)
	default:
		return nil, errors.Errorf("unknown compression %q", format)
	}

	rv.closers = append(rv.closers, bw.Flush)
	if c, ok := w.(io.Closer); ok {
		rv.closers = append(rv.closers, c.Close)
	}
	return rv, nil
}
