package mwdiffs

import (
	"bufio"
	"compress/bzip2"
	"context"
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dustin/go-mwdiffs/dumpio"
)

type indexChunk struct {
	offset int64
	count  int
}

// A MultiStreamReader reads a multistream dump with several workers,
// using the dump's index to find the bzip2 streams.
//
// Every page's revisions come out together, but pages from different
// streams may come out in any order.
type MultiStreamReader struct {
	// The toplevel site info.
	SiteInfo SiteInfo

	pages  chan []*RevisionDoc
	cur    []*RevisionDoc
	cancel context.CancelFunc
	err    error
}

// NewIndexedDumpReader gets a multistream reader over datafn, whose
// streams are listed in indexfn.
func NewIndexedDumpReader(ctx context.Context, indexfn, datafn string, numWorkers int) (*MultiStreamReader, error) {
	si, err := readSiteInfo(datafn)
	if err != nil {
		return nil, err
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	rv := &MultiStreamReader{
		SiteInfo: si,
		pages:    make(chan []*RevisionDoc, 1000),
		cancel:   cancel,
	}

	chunks := make(chan indexChunk, 1000)
	g.Go(func() error {
		defer close(chunks)
		return readIndexChunks(ctx, indexfn, chunks)
	})
	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			return rv.worker(ctx, datafn, chunks)
		})
	}

	go func() {
		rv.err = g.Wait()
		close(rv.pages)
	}()

	return rv, nil
}

func readSiteInfo(datafn string) (SiteInfo, error) {
	f, err := os.Open(datafn)
	if err != nil {
		return SiteInfo{}, errors.Wrap(err, "opening multistream dump")
	}
	defer f.Close()

	d, err := NewDumpReader(bzip2.NewReader(bufio.NewReader(f)))
	if err != nil {
		return SiteInfo{}, err
	}
	return d.SiteInfo, nil
}

func readIndexChunks(ctx context.Context, indexfn string, ch chan<- indexChunk) error {
	r, err := dumpio.Open(indexfn)
	if err != nil {
		return errors.Wrap(err, "opening multistream index")
	}
	defer r.Close()

	isr, err := NewIndexSummaryReader(r)
	if err != nil {
		return errors.Wrap(err, "reading multistream index")
	}
	for {
		offset, count, err := isr.Next()
		if count > 0 {
			select {
			case ch <- indexChunk{offset, count}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading multistream index")
		}
	}
}

func (p *MultiStreamReader) worker(ctx context.Context, datafn string, chunks <-chan indexChunk) error {
	r, err := os.Open(datafn)
	if err != nil {
		return errors.Wrap(err, "opening multistream dump")
	}
	defer r.Close()

	for c := range chunks {
		if _, err := r.Seek(c.offset, io.SeekStart); err != nil {
			return errors.Wrapf(err, "seeking to stream at %d", c.offset)
		}
		d := xml.NewDecoder(bzip2.NewReader(bufio.NewReader(r)))

		for i := 0; i < c.count; i++ {
			page := new(Page)
			err := d.Decode(page)
			if err == io.EOF {
				break
			}
			if err != nil {
				return errors.Wrapf(err, "decoding page %d of stream at %d", i, c.offset)
			}
			select {
			case p.pages <- page.RevDocs():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// Next gets the next revision.
func (p *MultiStreamReader) Next() (*RevisionDoc, error) {
	for len(p.cur) == 0 {
		page, ok := <-p.pages
		if !ok {
			if p.err != nil {
				return nil, p.err
			}
			return nil, io.EOF
		}
		p.cur = page
	}
	doc := p.cur[0]
	p.cur = p.cur[1:]
	return doc, nil
}

// Close stops the workers.
func (p *MultiStreamReader) Close() error {
	p.cancel()
	for range p.pages {
	}
	return nil
}
