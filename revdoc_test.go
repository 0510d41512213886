package mwdiffs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevisionDocKeepsUnknownFields(t *testing.T) {
	in := `{"id":5,"page":{"id":1,"title":"Foo","namespace":0},"text":"hi",` +
		`"contributor_rights":["a","b"],"bytes":2,"sha1":"abc","zzz":{"nested":true}}`

	var doc RevisionDoc
	require.NoError(t, json.Unmarshal([]byte(in), &doc))
	assert.Equal(t, uint64(5), doc.ID)
	assert.Equal(t, &PageRef{ID: 1, Title: "Foo"}, doc.Page)
	require.NotNil(t, doc.Text)
	assert.Equal(t, "hi", *doc.Text)
	assert.Len(t, doc.Extra, 2)

	out, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestRevisionDocTextAbsentVsEmpty(t *testing.T) {
	var doc RevisionDoc
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"page":{"id":1,"title":"x","namespace":0}}`), &doc))
	assert.Nil(t, doc.Text)
	assert.Nil(t, doc.Extra)

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"page":{"id":1,"title":"x","namespace":0},"text":""}`), &doc))
	require.NotNil(t, doc.Text)
	assert.Equal(t, "", *doc.Text)
}

func TestDiffJSON(t *testing.T) {
	elapsed := 0.25
	last := uint64(7)
	diff := Diff{
		LastID:   &last,
		Ops:      replaceAll([]string{"a"}, []string{"b"}),
		Time:     &elapsed,
		TimedOut: true,
	}
	data, err := json.Marshal(diff)
	require.NoError(t, err)
	assert.JSONEq(t, `{"last_id":7,"time":0.25,"timedout":true,"ops":[
		{"name":"delete","a1":0,"a2":1,"b1":0,"b2":0,"tokens":["a"]},
		{"name":"insert","a1":0,"a2":0,"b1":0,"b2":1,"tokens":["b"]}]}`, string(data))

	data, err = json.Marshal(Diff{Ops: []OpDoc{}, Time: new(float64)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"last_id":null,"ops":[],"time":0}`, string(data))
}

func TestRevisionDocRoundTripKeepsZeroFields(t *testing.T) {
	in := `{"id":1,"page":{"id":1,"title":"Foo","namespace":0,"restrictions":["edit=sysop"]},` +
		`"user":{"id":null,"text":"127.0.0.1"},"minor":false,"bytes":0,"parent_id":null,"comment":"","text":""}`

	var doc RevisionDoc
	require.NoError(t, json.Unmarshal([]byte(in), &doc))
	assert.False(t, doc.Minor)
	assert.Equal(t, "127.0.0.1", doc.User.Text)
	assert.Contains(t, doc.Page.Extra, "restrictions")

	out, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	// A field set after decoding is written once, with its new value.
	doc.Minor = true
	out, err = json.Marshal(&doc)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), `"minor"`))
	assert.Contains(t, string(out), `"minor":true`)
}

func TestPageIdentityIgnoresExtra(t *testing.T) {
	var a, b PageRef
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"Foo","namespace":0,"restrictions":[]}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"Foo","namespace":0}`), &b))
	assert.Equal(t, a.key(), b.key())
}

func TestDropTextRemovesNullText(t *testing.T) {
	var doc RevisionDoc
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"page":{"id":1,"title":"x","namespace":0},"text":null}`), &doc))
	assert.Contains(t, doc.Extra, "text")

	docs := drain(t, DropText(&sliceSource{&doc}))
	out, err := json.Marshal(docs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"page":{"id":1,"title":"x","namespace":0}}`, string(out))
}
