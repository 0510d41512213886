package mwdiffs

import "github.com/dustin/go-mwdiffs/diffengine"

// OpDocs converts engine operations into documents.  Inserts carry the
// tokens they add from b; deletes carry the tokens they remove from a.
func OpDocs(ops []diffengine.Operation, a, b []string) []OpDoc {
	rv := make([]OpDoc, 0, len(ops))
	for _, op := range ops {
		rv = append(rv, opDoc(op, a, b))
	}
	return rv
}

func opDoc(op diffengine.Operation, a, b []string) OpDoc {
	doc := OpDoc{Name: op.Name, A1: op.A1, A2: op.A2, B1: op.B1, B2: op.B2}
	switch op.Name {
	case diffengine.Insert:
		doc.Tokens = b[op.B1:op.B2]
	case diffengine.Delete:
		doc.Tokens = a[op.A1:op.A2]
	}
	return doc
}

// replaceAll is the diff reported when the real one took too long:
// everything in a is removed and everything in b is added.
func replaceAll(a, b []string) []OpDoc {
	return []OpDoc{
		{Name: diffengine.Delete, A1: 0, A2: len(a), B1: 0, B2: 0, Tokens: a},
		{Name: diffengine.Insert, A1: 0, A2: 0, B1: 0, B2: len(b), Tokens: b},
	}
}
