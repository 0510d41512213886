package mwdiffs

import (
	"io"
	"time"

	"github.com/dustin/go-mwdiffs/diffengine"
)

// Options control a diff run.
type Options struct {
	Engine diffengine.Engine
	// Namespaces to process; nil for all.
	Namespaces map[int]bool
	// Timeout for each revision's diff; zero for none.
	Timeout time.Duration
	// KeepText leaves the revision text in the output.
	KeepText bool
	// Progress receives progress characters when set.
	Progress io.Writer
	Observe  func(*RevisionDoc)
}

func (o Options) differ() *Differ {
	return &Differ{
		Engine:     o.Engine,
		Namespaces: o.Namespaces,
		Timeout:    o.Timeout,
		Progress:   o.Progress,
		Observe:    o.Observe,
	}
}

// RevDocs2Diffs diffs a page-partitioned stream of revision documents.
func RevDocs2Diffs(src RevDocSource, o Options) RevDocSource {
	docs := o.differ().Diffs(src)
	if !o.KeepText {
		docs = DropText(docs)
	}
	return docs
}

// Dump2Diffs diffs the revisions of an XML dump.
func Dump2Diffs(r io.Reader, o Options) (RevDocSource, error) {
	dr, err := NewDumpReader(r)
	if err != nil {
		return nil, err
	}
	return RevDocs2Diffs(dr, o), nil
}
