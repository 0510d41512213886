package diffengine

import (
	"regexp"
	"strings"
)

// RegexpTokenizer tokenizes with a lexicon of alternatives.  The last
// alternative must match any single character so that every byte of the
// input ends up in some token.
type RegexpTokenizer struct {
	re *regexp.Regexp
}

// NewRegexpTokenizer builds a tokenizer out of an ordered lexicon.
// Earlier entries win.
func NewRegexpTokenizer(lexicon []string) *RegexpTokenizer {
	alts := make([]string, 0, len(lexicon)+1)
	for _, l := range lexicon {
		alts = append(alts, "(?:"+l+")")
	}
	alts = append(alts, `(?s:.)`)
	return &RegexpTokenizer{re: regexp.MustCompile(strings.Join(alts, "|"))}
}

// Tokenize implements Tokenizer.
func (t *RegexpTokenizer) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	return t.re.FindAllString(text, -1)
}

var wikitextLexicon = []string{
	`<!--`,
	`-->`,
	`(?:https?|ftp|irc|news|gopher)://[^\s\[\]<>"{}|]+`,
	`mailto:[^\s\[\]<>"{}|]+`,
	`&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#x[0-9a-fA-F]+);`,
	`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`,
	`[0-9]+(?:[.,][0-9]+)*`,
	`[\p{Han}\p{Hiragana}\p{Katakana}\p{Hangul}]`,
	`[\p{L}\p{M}][\p{L}\p{M}\p{N}_]*`,
	`\n(?:[ \t]*\n)+`,
	`[\s\p{Zs}]+`,
	`'''''|'''|''`,
	`\[\[|\]\]`,
	`\{\{\{|\}\}\}|\{\{|\}\}`,
	`\{\||\|\}|\|-|\|\+`,
	`={2,6}`,
	`[\[\]{}|=]`,
	`[.!?,:;]`,
	`[\x{3001}\x{3002}\x{ff01}\x{ff0c}\x{ff1a}\x{ff1b}\x{ff1f}]`,
	`[\x{0964}\x{0965}]`,
}

var textLexicon = []string{
	`[\p{L}\p{M}\p{N}_]+`,
	`\s+`,
}

var tokenizers map[string]Tokenizer

func init() {
	wikitext := NewRegexpTokenizer(wikitextLexicon)
	text := NewRegexpTokenizer(textLexicon)
	tokenizers = map[string]Tokenizer{
		"wikitext_split":                   wikitext,
		"deltas.tokenizers.wikitext_split": wikitext,
		"text_split":                       text,
		"deltas.tokenizers.text_split":     text,
	}
}

// LookupTokenizer finds a built-in tokenizer by name.
func LookupTokenizer(name string) (Tokenizer, bool) {
	t, ok := tokenizers[name]
	return t, ok
}
