package diffengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWikitextSplit(t *testing.T) {
	tok, ok := LookupTokenizer("wikitext_split")
	if !ok {
		t.Fatalf("wikitext_split not registered")
	}

	tests := []struct {
		in  string
		exp []string
	}{
		{"", []string{}},
		{"Hello world.", []string{"Hello", " ", "world", "."}},
		{"[[Foo|bar]]", []string{"[[", "Foo", "|", "bar", "]]"}},
		{"{{cite web|url=http://example.com/a?b=1}}",
			[]string{"{{", "cite", " ", "web", "|", "url", "=", "http://example.com/a?b=1", "}}"}},
		{"'''bold''' ''it''", []string{"'''", "bold", "'''", " ", "''", "it", "''"}},
		{"<!-- hidden -->", []string{"<!--", " ", "hidden", " ", "-->"}},
		{"a<br/>b &nbsp; <ref name=\"x\">",
			[]string{"a", "<br/>", "b", " ", "&nbsp;", " ", "<ref name=\"x\">"}},
		{"== Head ==\n\nPara", []string{"==", " ", "Head", " ", "==", "\n\n", "Para"}},
		{"3.14 and 1,000", []string{"3.14", " ", "and", " ", "1,000"}},
		{"日本語", []string{"日", "本", "語"}},
		{"{|\n|-\n|}", []string{"{|", "\n", "|-", "\n", "|}"}},
	}

	for _, test := range tests {
		got := tok.Tokenize(test.in)
		assert.Equal(t, test.exp, got, "tokenizing %q", test.in)
	}
}

func TestTokenizersCoverInput(t *testing.T) {
	inputs := []string{
		"Plain text, with punctuation!",
		"weird \x00 bytes \xff and ☃ snowmen",
		"{{Infobox\n| name = X\n}}\n\n'''X''' is a [[thing]].<ref>{{cite}}</ref>",
	}
	for _, name := range []string{"wikitext_split", "text_split"} {
		tok, _ := LookupTokenizer(name)
		for _, in := range inputs {
			assert.Equal(t, in, strings.Join(tok.Tokenize(in), ""), "%s on %q", name, in)
		}
	}
}

func TestTextSplit(t *testing.T) {
	tok, _ := LookupTokenizer("deltas.tokenizers.text_split")
	assert.Equal(t, []string{"foo", "  ", "bar", "!", "?"}, tok.Tokenize("foo  bar!?"))
}
