package mwdiffs

import (
	"context"

	"github.com/dustin/go-mwdiffs/diffengine"
)

type processed struct {
	ops  []diffengine.Operation
	a, b []string
}

// diffRevision computes the diff of rev against the processor's last
// text.  Nothing here fails: missing text and timeouts are recorded in
// the returned Diff.
func (d *Differ) diffRevision(proc diffengine.Processor, rev *RevisionDoc, lastID *uint64) *Diff {
	diff := &Diff{LastID: lastID}
	if rev.Text == nil {
		logger.Debugf("No text to process for %d.  Skipping.", rev.ID)
		diff.Skipped = SkippedNoText
		diff.Ops = []OpDoc{}
		return diff
	}
	text := *rev.Text

	clk := d.clock()
	start := clk.Now()
	if d.Timeout <= 0 {
		ops, a, b := proc.Process(context.Background(), text)
		diff.Ops = OpDocs(ops, a, b)
	} else {
		// ctx is only cancelled once the timer has won, so whatever
		// comes back on ch was computed in full.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a := proc.Last()
		ch := make(chan processed, 1)
		go func() {
			ops, a, b := proc.Process(ctx, text)
			ch <- processed{ops, a, b}
		}()

		t := clk.NewTimer(d.Timeout)
		select {
		case p := <-ch:
			t.Stop()
			diff.Ops = OpDocs(p.ops, p.a, p.b)
		case <-t.Chan():
			cancel()
			logger.Debugf("Diff of revision %d timed out after %v", rev.ID, d.Timeout)
			diff.Ops = replaceAll(a, proc.Tokenize(text))
			diff.TimedOut = true
			// The abandoned computation may never commit, so make
			// sure the next revision is diffed against this one.
			proc.Update(text)
		}
	}

	elapsed := clk.Now().Sub(start).Seconds()
	diff.Time = &elapsed
	return diff
}
