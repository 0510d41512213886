package mwdiffs

import (
	"io"
	"time"

	"github.com/juju/clock"
	"github.com/juju/loggo"

	"github.com/dustin/go-mwdiffs/diffengine"
)

var logger = loggo.GetLogger("mwdiffs")

// A Differ attaches a Diff to every revision of a page-partitioned
// stream.
type Differ struct {
	// Engine makes one processor per page.
	Engine diffengine.Engine
	// Namespaces limits processing to pages in these namespaces.  Nil
	// means all of them.
	Namespaces map[int]bool
	// Timeout bounds each revision's diff.  Zero means no bound.
	Timeout time.Duration
	// Progress, if set, receives the page title followed by a "." for
	// each revision, "S" for a skipped one or "T" for a timed out one,
	// and a newline at the end of each page.
	Progress io.Writer
	// Observe, if set, is called with every diffed revision.
	Observe func(*RevisionDoc)
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

func (d *Differ) clock() clock.Clock {
	if d.Clock == nil {
		return clock.WallClock
	}
	return d.Clock
}

func (d *Differ) wants(ns int) bool {
	return d.Namespaces == nil || d.Namespaces[ns]
}

func (d *Differ) progress(s string) {
	if d.Progress != nil {
		io.WriteString(d.Progress, s)
	}
}

// Diffs returns the documents of src, minus those in unwanted
// namespaces, in the same order with Diff set.
func (d *Differ) Diffs(src RevDocSource) RevDocSource {
	return &diffStream{d: d, groups: NewGrouper(src)}
}

type diffStream struct {
	d      *Differ
	groups *Grouper

	page   *PageGroup
	proc   diffengine.Processor
	lastID *uint64
}

func (s *diffStream) Next() (*RevisionDoc, error) {
	d := s.d
	for {
		if s.page == nil {
			pg, err := s.groups.NextPage()
			if err != nil {
				return nil, err
			}
			if !d.wants(pg.Page.Namespace) {
				logger.Tracef("Skipping %q in namespace %d", pg.Page.Title, pg.Page.Namespace)
				continue
			}
			s.page, s.proc, s.lastID = pg, d.Engine.Processor(), nil
			d.progress(pg.Page.Title + ": ")
		}

		rev, err := s.page.Next()
		if err == io.EOF {
			d.progress("\n")
			s.page, s.proc = nil, nil
			continue
		}
		if err != nil {
			return nil, err
		}

		rev.Diff = d.diffRevision(s.proc, rev, s.lastID)
		switch {
		case rev.Diff.Skipped != "":
			d.progress("S")
		case rev.Diff.TimedOut:
			d.progress("T")
		default:
			d.progress(".")
		}
		if d.Observe != nil {
			d.Observe(rev)
		}

		id := rev.ID
		s.lastID = &id
		return rev, nil
	}
}
