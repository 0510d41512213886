package mwdiffs

import (
	"io"

	"github.com/pkg/errors"
)

// ErrMissingPage is returned for a revision document without a page.
var ErrMissingPage = errors.New("revision document has no page")

// A Grouper splits a page-partitioned stream of revision documents into
// per-page groups.
//
// Only one document is read ahead, so a page with a long history is
// never held in memory.  A page whose revisions aren't contiguous comes
// out as more than one group.
type Grouper struct {
	src  RevDocSource
	peek *RevisionDoc
	err  error
	cur  *PageGroup
}

// NewGrouper gets a Grouper reading from src.
func NewGrouper(src RevDocSource) *Grouper {
	return &Grouper{src: src}
}

// A PageGroup is a contiguous run of revisions of one page.
type PageGroup struct {
	Page PageRef

	g    *Grouper
	done bool
}

func (g *Grouper) fill() {
	if g.peek != nil || g.err != nil {
		return
	}
	doc, err := g.src.Next()
	switch {
	case err != nil:
		g.err = err
	case doc.Page == nil:
		g.err = errors.Wrapf(ErrMissingPage, "revision %d", doc.ID)
	default:
		g.peek = doc
	}
}

// NextPage gets the next page group, returning io.EOF when the stream
// is exhausted.  Any unread revisions of the previous group are
// skipped.
func (g *Grouper) NextPage() (*PageGroup, error) {
	if g.cur != nil {
		for {
			_, err := g.cur.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}
	}

	g.fill()
	if g.peek == nil {
		return nil, g.err
	}
	g.cur = &PageGroup{Page: *g.peek.Page, g: g}
	return g.cur, nil
}

// Next gets the next revision of the page, returning io.EOF at the end
// of the group.
func (pg *PageGroup) Next() (*RevisionDoc, error) {
	if pg.done {
		return nil, io.EOF
	}
	g := pg.g
	g.fill()
	if g.peek == nil {
		if g.err == io.EOF {
			pg.done = true
		}
		return nil, g.err
	}
	if g.peek.Page.key() != pg.Page.key() {
		pg.done = true
		return nil, io.EOF
	}
	doc := g.peek
	g.peek = nil
	return doc, nil
}
