package dumpio

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	data := strings.Repeat(`{"id": 1, "text": "some text"}`+"\n", 1000)
	dir := t.TempDir()

	for _, format := range []string{None, Bzip2, Gzip, Zstd} {
		fn := filepath.Join(dir, "revs.json"+Ext(format))

		w, err := Create(fn, format)
		require.NoError(t, err, format)
		_, err = w.Write([]byte(data))
		require.NoError(t, err, format)
		require.NoError(t, w.Close(), format)

		assert.Equal(t, format, Format(fn))

		r, err := Open(fn)
		require.NoError(t, err, format)
		got, err := ioutil.ReadAll(r)
		require.NoError(t, err, format)
		require.NoError(t, r.Close(), format)
		assert.Equal(t, data, string(got), format)
	}
}

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"enwiki-pages-meta-history1.xml.bz2": Bzip2,
		"revs.JSON.GZ":                       Gzip,
		"revs.json.zst":                      Zstd,
		"revs.json":                          None,
		"-":                                  None,
	}
	for fn, exp := range tests {
		assert.Equal(t, exp, Format(fn), fn)
	}
}

func TestUnknownFormat(t *testing.T) {
	assert.False(t, Valid("lzma"))
	assert.True(t, Valid(Bzip2))

	_, err := NewWriter(ioutil.Discard, "lzma")
	assert.Error(t, err)
	_, err = NewReader(strings.NewReader(""), "lzma")
	assert.Error(t, err)
	_, err = Open(filepath.Join(t.TempDir(), "missing.bz2"))
	assert.Error(t, err)
}
