package mwdiffs

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIndex = `499:10:AccessibleComputing
499:12:Anarchism
499:13:AfghanistanHistory
499:14:AfghanistanGeography
499:15:AfghanistanPeople
499:18:AfghanistanCommunications
499:19:AfghanistanTransportations
499:20:AfghanistanMilitary
499:21:AfghanistanTransnationalIssues
499:23:AssistiveTechnology
2147418907:2638569:William Earl Brown
2147418907:2638570:Lebuhraya Persekutuan
2147418907:2638571:St Francis of Paola
2147418907:2638573:Francesco di Paula
2147418907:2638575:Arapahoe Community College
2147418907:2638583:Francesco Borgia
-2147469295:2638585:Philadelphia Bulletin
-2147469295:2638588:Zrínyi Miklós
-2147469295:2638602:Privatize
-2147469295:2638604:Island of Montréal: The Sequel
`

const lastChunk = 2147498001

func TestIndexReader(t *testing.T) {
	ir := NewIndexReader(strings.NewReader(testIndex))

	e, err := ir.Next()
	require.NoError(t, err)
	assert.Equal(t, "499:10:AccessibleComputing", e.String())

	for {
		tmp, err := ir.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		e = tmp
	}
	assert.Equal(t, IndexEntry{lastChunk, 2638604, "Island of Montréal: The Sequel"}, e)
}

func TestIndexReaderBadRecord(t *testing.T) {
	for _, in := range []string{"499:10\n", "x:10:Foo\n", "499:-1:Foo\n"} {
		_, err := NewIndexReader(strings.NewReader(in)).Next()
		assert.Error(t, err, "reading %q", in)
		assert.NotEqual(t, io.EOF, err)
	}
}

func TestIndexSummary(t *testing.T) {
	isr, err := NewIndexSummaryReader(strings.NewReader(testIndex))
	require.NoError(t, err)

	expected := []struct {
		offset int64
		count  int
		err    error
	}{
		{499, 10, nil},
		{2147418907, 6, nil},
		{lastChunk, 4, io.EOF},
		{0, 0, io.EOF},
	}

	for _, e := range expected {
		offset, count, err := isr.Next()
		assert.Equal(t, e.offset, offset)
		assert.Equal(t, e.count, count)
		assert.Equal(t, e.err, err)
	}
}

func TestIndexSummaryEmpty(t *testing.T) {
	_, err := NewIndexSummaryReader(strings.NewReader(""))
	assert.Equal(t, io.EOF, err)
}
