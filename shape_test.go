package mwdiffs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-mwdiffs/diffengine"
)

func TestOpDocs(t *testing.T) {
	ops := []diffengine.Operation{
		{Name: "insert", A1: 0, A2: 0, B1: 0, B2: 3},
		{Name: "delete", A1: 0, A2: 2, B1: 3, B2: 3},
	}
	a := []string{"a", "b"}
	b := []string{"x", "y", "z"}

	assert.Equal(t, []OpDoc{
		{Name: "insert", A1: 0, A2: 0, B1: 0, B2: 3, Tokens: []string{"x", "y", "z"}},
		{Name: "delete", A1: 0, A2: 2, B1: 3, B2: 3, Tokens: []string{"a", "b"}},
	}, OpDocs(ops, a, b))
}

func TestOpDocsEqualHasNoTokens(t *testing.T) {
	docs := OpDocs([]diffengine.Operation{{Name: "equal", A1: 0, A2: 1, B1: 0, B2: 1}},
		[]string{"a"}, []string{"a"})
	require.Len(t, docs, 1)
	assert.Nil(t, docs[0].Tokens)

	data, err := json.Marshal(docs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"equal","a1":0,"a2":1,"b1":0,"b2":1}`, string(data))
}

func TestOpDocsEmpty(t *testing.T) {
	assert.Equal(t, []OpDoc{}, OpDocs(nil, nil, nil))
}

func TestReplaceAll(t *testing.T) {
	docs := replaceAll(nil, []string{"new", " ", "text"})
	data, err := json.Marshal(docs)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name":"delete","a1":0,"a2":0,"b1":0,"b2":0,"tokens":[]},
		{"name":"insert","a1":0,"a2":0,"b1":0,"b2":3,"tokens":["new"," ","text"]}
	]`, string(data))
}
