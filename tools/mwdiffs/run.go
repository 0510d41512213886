package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dustin/go-mwdiffs"
	"github.com/dustin/go-mwdiffs/diffengine"
	"github.com/dustin/go-mwdiffs/dumpio"
	"github.com/dustin/go-mwdiffs/store"
)

const (
	allNamespaces = "<all>"
	stdinName     = "-"
	reportfreq    = int64(10000)
)

type inputKind int

const (
	dumpInput inputKind = iota
	revDocInput
)

type runFlags struct {
	config      string
	namespaces  string
	timeout     float64
	keepText    bool
	threads     int
	output      string
	compress    string
	store       string
	metricsAddr string
	verbose     bool
	index       string
}

// A runner processes every input with its own independent pipeline.
type runner struct {
	kind    inputKind
	flags   *runFlags
	opts    mwdiffs.Options
	metrics *metrics

	stdoutMu sync.Mutex
	stdout   io.Writer
}

func parseNamespaces(s string) (map[int]bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == allNamespaces {
		return nil, nil
	}
	rv := map[int]bool{}
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(err, "bad namespace %q", part)
		}
		rv[id] = true
	}
	return rv, nil
}

// outputPath names the output file for an input, e.g.
// enwiki-pages-meta-history1.xml.bz2 becomes
// enwiki-pages-meta-history1.json.bz2.
func outputPath(dir, input, compress string) string {
	base := filepath.Base(input)
	if input == stdinName {
		base = "stdin"
	}
	if dumpio.Format(base) != dumpio.None {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".xml", ".json", ".jsonl":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(dir, base+".json"+dumpio.Ext(compress))
}

func (f *runFlags) newRunner(kind inputKind) (*runner, error) {
	conf, err := diffengine.LoadConfig(f.config)
	if err != nil {
		return nil, err
	}
	engine, err := diffengine.FromConfig(conf, "")
	if err != nil {
		return nil, err
	}
	namespaces, err := parseNamespaces(f.namespaces)
	if err != nil {
		return nil, err
	}
	if !dumpio.Valid(f.compress) {
		return nil, errors.Errorf("unknown compression %q", f.compress)
	}
	if f.threads < 1 {
		f.threads = 1
	}

	r := &runner{
		kind:    kind,
		flags:   f,
		metrics: newMetrics(),
		stdout:  os.Stdout,
		opts: mwdiffs.Options{
			Engine:     engine,
			Namespaces: namespaces,
			Timeout:    time.Duration(f.timeout * float64(time.Second)),
			KeepText:   f.keepText,
		},
	}
	if f.verbose {
		r.opts.Progress = os.Stderr
	}
	return r, nil
}

func (f *runFlags) run(ctx context.Context, kind inputKind, inputs []string) error {
	r, err := f.newRunner(kind)
	if err != nil {
		return err
	}
	if f.metricsAddr != "" {
		go func() {
			if err := r.metrics.serve(f.metricsAddr); err != nil {
				logger.Errorf("Error serving metrics: %v", err)
			}
		}()
	}
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}

	start := time.Now()
	if f.index != "" {
		if len(inputs) != 1 || inputs[0] == stdinName {
			return errors.New("--index needs exactly one multistream dump file")
		}
		err = r.processMultiStream(ctx, f.index, inputs[0])
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.threads)
		for _, input := range inputs {
			input := input
			g.Go(func() error {
				return r.process(gctx, input)
			})
		}
		err = g.Wait()
	}

	logger.Infof("Ended after %v with %s revisions (%s timed out, %s skipped)",
		time.Since(start), humanize.Comma(r.metrics.total()),
		humanize.Comma(r.metrics.count(statusTimedOut)), humanize.Comma(r.metrics.count(statusSkipped)))
	return err
}

func (r *runner) open(input string) (io.ReadCloser, error) {
	if input == stdinName {
		return dumpio.NewReader(os.Stdin, dumpio.None)
	}
	return dumpio.Open(input)
}

func (r *runner) process(ctx context.Context, input string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := r.open(input)
	if err != nil {
		return err
	}
	defer in.Close()

	opts := r.opts
	opts.Observe = r.observer(input)

	var docs mwdiffs.RevDocSource
	switch r.kind {
	case dumpInput:
		docs, err = mwdiffs.Dump2Diffs(in, opts)
		if err != nil {
			return errors.Wrapf(err, "reading %v", input)
		}
	default:
		docs = mwdiffs.RevDocs2Diffs(mwdiffs.NewRevDocReader(in), opts)
	}
	return errors.Wrapf(r.write(input, contextSource{ctx, docs}), "processing %v", input)
}

func (r *runner) processMultiStream(ctx context.Context, indexfn, datafn string) error {
	src, err := mwdiffs.NewIndexedDumpReader(ctx, indexfn, datafn, r.flags.threads)
	if err != nil {
		return err
	}
	defer src.Close()
	logger.Infof("Got site info:  %+v", src.SiteInfo)

	opts := r.opts
	opts.Observe = r.observer(datafn)
	docs := mwdiffs.RevDocs2Diffs(src, opts)
	return errors.Wrapf(r.write(datafn, contextSource{ctx, docs}), "processing %v", datafn)
}

// contextSource stops a source once ctx is done.
type contextSource struct {
	ctx context.Context
	src mwdiffs.RevDocSource
}

func (c contextSource) Next() (*mwdiffs.RevisionDoc, error) {
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}
	return c.src.Next()
}

func (r *runner) write(input string, docs mwdiffs.RevDocSource) error {
	switch {
	case r.flags.store != "":
		st, err := store.Open(r.flags.store)
		if err != nil {
			return err
		}
		_, err = store.Load(st, docs)
		if cerr := st.Close(); err == nil {
			err = cerr
		}
		return err

	case r.flags.output != "":
		fn := outputPath(r.flags.output, input, r.flags.compress)
		w, err := dumpio.Create(fn, r.flags.compress)
		if err != nil {
			return err
		}
		n, err := mwdiffs.WriteRevDocs(w, docs)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		logger.Debugf("Wrote %s revisions to %v", humanize.Comma(n), fn)
		return err

	default:
		_, err := mwdiffs.WriteRevDocs(&lineWriter{mu: &r.stdoutMu, w: r.stdout}, docs)
		return err
	}
}

// observer counts revisions and logs throughput for one input.
func (r *runner) observer(input string) func(*mwdiffs.RevisionDoc) {
	revs := int64(0)
	prev := time.Now()
	return func(doc *mwdiffs.RevisionDoc) {
		r.metrics.observe(doc)
		revs++
		if revs%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			logger.Infof("%v: Processed %s revisions total (%.2f/s)",
				input, humanize.Comma(revs), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
}

// lineWriter passes only whole lines through, so several inputs can
// share stdout.
type lineWriter struct {
	mu  *sync.Mutex
	w   io.Writer
	buf []byte
}

func (l *lineWriter) Write(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	i := bytes.LastIndexByte(l.buf, '\n')
	if i < 0 {
		return len(p), nil
	}

	l.mu.Lock()
	_, err := l.w.Write(l.buf[:i+1])
	l.mu.Unlock()
	if err != nil {
		return 0, err
	}
	l.buf = append(l.buf[:0], l.buf[i+1:]...)
	return len(p), nil
}
