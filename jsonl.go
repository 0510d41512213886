package mwdiffs

import (
	"bufio"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// A RevDocReader decodes a stream of JSON revision documents, usually
// one per line.
type RevDocReader struct {
	d *jsoniter.Decoder
	n int64
}

// NewRevDocReader gets a revision document reader for r.
func NewRevDocReader(r io.Reader) *RevDocReader {
	return &RevDocReader{d: json.NewDecoder(bufio.NewReaderSize(r, 1<<20))}
}

// Next gets the next document from the stream.
func (r *RevDocReader) Next() (*RevisionDoc, error) {
	if !r.d.More() {
		return nil, io.EOF
	}
	rv := new(RevisionDoc)
	if err := r.d.Decode(rv); err != nil {
		return nil, errors.Wrapf(err, "decoding revision document %d", r.n+1)
	}
	r.n++
	return rv, nil
}

// WriteRevDocs writes every document from src to w, one per line, and
// returns how many were written.
func WriteRevDocs(w io.Writer, src RevDocSource) (int64, error) {
	bw := bufio.NewWriter(w)
	e := json.NewEncoder(bw)
	e.SetEscapeHTML(false)

	var n int64
	for {
		doc, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if err := e.Encode(doc); err != nil {
			return n, errors.Wrapf(err, "encoding revision %d", doc.ID)
		}
		n++
	}
	return n, errors.Wrap(bw.Flush(), "flushing revision documents")
}
