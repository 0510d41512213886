package mwdiffs

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource []*RevisionDoc

func (s *sliceSource) Next() (*RevisionDoc, error) {
	if len(*s) == 0 {
		return nil, io.EOF
	}
	doc := (*s)[0]
	*s = (*s)[1:]
	return doc, nil
}

func strp(s string) *string {
	return &s
}

func rev(id uint64, page PageRef, text *string) *RevisionDoc {
	return &RevisionDoc{ID: id, Page: &page, Text: text}
}

var (
	fooPage = PageRef{ID: 1, Title: "Foo", Namespace: 0}
	barPage = PageRef{ID: 2, Title: "Talk:Bar", Namespace: 1}
)

func readGroups(t *testing.T, g *Grouper) (pages []PageRef, ids [][]uint64) {
	t.Helper()
	for {
		pg, err := g.NextPage()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
		pages = append(pages, pg.Page)

		var group []uint64
		for {
			doc, err := pg.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			group = append(group, doc.ID)
		}
		ids = append(ids, group)
	}
}

func TestGrouperTwoPages(t *testing.T) {
	src := sliceSource{
		rev(1, fooPage, nil), rev(2, fooPage, nil), rev(3, fooPage, nil),
		rev(4, barPage, nil), rev(5, barPage, nil),
	}
	pages, ids := readGroups(t, NewGrouper(&src))
	assert.Equal(t, []PageRef{fooPage, barPage}, pages)
	assert.Equal(t, [][]uint64{{1, 2, 3}, {4, 5}}, ids)
}

func TestGrouperInterleaved(t *testing.T) {
	src := sliceSource{rev(1, fooPage, nil), rev(2, barPage, nil), rev(3, fooPage, nil)}
	pages, ids := readGroups(t, NewGrouper(&src))
	assert.Equal(t, []PageRef{fooPage, barPage, fooPage}, pages)
	assert.Equal(t, [][]uint64{{1}, {2}, {3}}, ids)
}

func TestGrouperEmpty(t *testing.T) {
	src := sliceSource{}
	_, err := NewGrouper(&src).NextPage()
	assert.Equal(t, io.EOF, err)
}

func TestGrouperSkipsUnreadRevisions(t *testing.T) {
	src := sliceSource{rev(1, fooPage, nil), rev(2, fooPage, nil), rev(3, barPage, nil)}
	g := NewGrouper(&src)

	pg, err := g.NextPage()
	require.NoError(t, err)
	doc, err := pg.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), doc.ID)

	pg, err = g.NextPage()
	require.NoError(t, err)
	assert.Equal(t, barPage, pg.Page)
	doc, err = pg.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), doc.ID)

	_, err = pg.Next()
	assert.Equal(t, io.EOF, err)
	_, err = g.NextPage()
	assert.Equal(t, io.EOF, err)
}

func TestGrouperMissingPage(t *testing.T) {
	src := sliceSource{rev(1, fooPage, nil), {ID: 2}}
	g := NewGrouper(&src)

	pg, err := g.NextPage()
	require.NoError(t, err)
	_, err = pg.Next()
	require.NoError(t, err)
	_, err = pg.Next()
	assert.Equal(t, ErrMissingPage, errors.Cause(err))

	_, err = g.NextPage()
	assert.Equal(t, ErrMissingPage, errors.Cause(err))
}
