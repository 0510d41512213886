package diffengine

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is a diff engine configuration document.
//
//	diff_engine: wikitext_sequence
//	diff_engines:
//	  wikitext_sequence:
//	    class: sequence_matcher
//	    tokenizer: wikitext_split
//	tokenizers:
//	  wikitext_split:
//	    class: deltas.tokenizers.wikitext_split
//
// The tokenizers section is optional; an engine's tokenizer may name a
// built-in tokenizer directly.
type Config struct {
	DiffEngine  string                     `yaml:"diff_engine"`
	DiffEngines map[string]EngineConfig    `yaml:"diff_engines"`
	Tokenizers  map[string]TokenizerConfig `yaml:"tokenizers"`
}

// EngineConfig configures one named engine.
type EngineConfig struct {
	Class     string `yaml:"class"`
	Tokenizer string `yaml:"tokenizer"`
	// Timeout in seconds, only used by diff_match_patch.
	Timeout float64 `yaml:"timeout"`
}

// TokenizerConfig configures one named tokenizer.
type TokenizerConfig struct {
	Class string `yaml:"class"`
}

// ParseConfig parses a YAML configuration document.
func ParseConfig(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrap(err, "parsing diff engine config")
	}
	return c, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading diff engine config")
	}
	return ParseConfig(data)
}

// FromConfig builds the named engine.  An empty name selects the
// config's diff_engine.
func FromConfig(c *Config, name string) (Engine, error) {
	if name == "" {
		name = c.DiffEngine
	}
	if name == "" {
		return nil, errors.New("no diff_engine configured")
	}
	ec, ok := c.DiffEngines[name]
	if !ok {
		return nil, errors.Errorf("diff engine %q not configured", name)
	}

	tok, err := c.tokenizer(ec.Tokenizer)
	if err != nil {
		return nil, errors.Wrapf(err, "diff engine %q", name)
	}

	var m Matcher
	switch ec.Class {
	case "sequence_matcher", "deltas.SequenceMatcher":
		m = SequenceMatcher{}
	case "diff_match_patch":
		if ec.Timeout < 0 {
			return nil, errors.Errorf("diff engine %q: negative timeout", name)
		}
		m = DiffMatchPatch{Timeout: time.Duration(ec.Timeout * float64(time.Second))}
	default:
		return nil, errors.Errorf("diff engine %q: unknown class %q", name, ec.Class)
	}

	logger.Debugf("using diff engine %q (%s, %s)", name, ec.Class, ec.Tokenizer)
	return New(tok, m), nil
}

func (c *Config) tokenizer(name string) (Tokenizer, error) {
	if name == "" {
		return nil, errors.New("no tokenizer")
	}
	class := name
	if tc, ok := c.Tokenizers[name]; ok {
		class = tc.Class
	}
	t, ok := LookupTokenizer(class)
	if !ok {
		return nil, errors.Errorf("unknown tokenizer %q", class)
	}
	return t, nil
}
