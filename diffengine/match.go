package diffengine

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// SequenceMatcher diffs with difflib's longest matching block search.
// Replacements are reported as a delete followed by an insert.
//
// Cancellation is only noticed between difflib's passes over the
// input; a pass already running finishes first.
type SequenceMatcher struct{}

// Diff implements Matcher.
func (SequenceMatcher) Diff(ctx context.Context, a, b []string) []Operation {
	if ctx.Err() != nil {
		return nil
	}
	m := difflib.NewMatcher(a, b)
	if ctx.Err() != nil {
		return nil
	}
	// Cached by the matcher, so GetOpCodes doesn't search again.
	m.GetMatchingBlocks()
	if ctx.Err() != nil {
		return nil
	}
	codes := m.GetOpCodes()
	ops := make([]Operation, 0, len(codes))
	for _, c := range codes {
		switch c.Tag {
		case 'e':
			ops = append(ops, Operation{Equal, c.I1, c.I2, c.J1, c.J2})
		case 'd':
			ops = append(ops, Operation{Delete, c.I1, c.I2, c.J1, c.J1})
		case 'i':
			ops = append(ops, Operation{Insert, c.I1, c.I1, c.J1, c.J2})
		case 'r':
			ops = append(ops,
				Operation{Delete, c.I1, c.I2, c.J1, c.J1},
				Operation{Insert, c.I2, c.I2, c.J1, c.J2})
		}
	}
	return ops
}

// maxRuneTokens is how many distinct tokens fit in the rune space once
// surrogates are skipped.
const maxRuneTokens = utf8.MaxRune - 0x800

// DiffMatchPatch diffs with Myers' bisection from diff-match-patch.
// Every distinct token is encoded as one rune.
type DiffMatchPatch struct {
	// Timeout bounds a single diff; past it the result is coarser but
	// still correct.  Zero means no bound beyond the context deadline.
	Timeout time.Duration
}

// Diff implements Matcher.
func (m DiffMatchPatch) Diff(ctx context.Context, a, b []string) []Operation {
	if ctx.Err() != nil {
		return nil
	}

	ids := map[string]rune{}
	ra, ok := tokenRunes(ids, a)
	if ok {
		var rb []rune
		rb, ok = tokenRunes(ids, b)
		if ok {
			return m.diffRunes(ctx, ra, rb)
		}
	}
	logger.Warningf("too many distinct tokens (%d) for diff_match_patch, using sequence matcher", len(ids))
	return SequenceMatcher{}.Diff(ctx, a, b)
}

func (m DiffMatchPatch) diffRunes(ctx context.Context, ra, rb []rune) []Operation {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = m.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			left = time.Millisecond
		}
		if dmp.DiffTimeout == 0 || left < dmp.DiffTimeout {
			dmp.DiffTimeout = left
		}
	}

	diffs := dmp.DiffMainRunes(ra, rb, false)
	ops := make([]Operation, 0, len(diffs))
	ai, bi := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			ops = append(ops, Operation{Equal, ai, ai + n, bi, bi + n})
			ai += n
			bi += n
		case diffmatchpatch.DiffDelete:
			ops = append(ops, Operation{Delete, ai, ai + n, bi, bi})
			ai += n
		case diffmatchpatch.DiffInsert:
			ops = append(ops, Operation{Insert, ai, ai, bi, bi + n})
			bi += n
		}
	}
	return ops
}

func tokenRunes(ids map[string]rune, tokens []string) ([]rune, bool) {
	rv := make([]rune, len(tokens))
	for i, t := range tokens {
		r, ok := ids[t]
		if !ok {
			if len(ids) >= maxRuneTokens {
				return nil, false
			}
			r = rune(len(ids)) + 1
			if r >= 0xD800 {
				r += 0x800
			}
			ids[t] = r
		}
		rv[i] = r
	}
	return rv, true
}
