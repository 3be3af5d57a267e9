//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/jdkato/prose/v2"
)

//
// TEXT PREPARATION
//

// Lemmatizer - reduce an inflected form to its dictionary form
type Lemmatizer interface {
	Lemma(word string) string
}

var (
	englishlemm = sync.OnceValues(func() (*golem.Lemmatizer, error) {
		return golem.New(en.New())
	})
)

// PrepOptions - knobs for the Preprocessor
type PrepOptions struct {
	MinTokenLen  int
	StopwordFile string
	POSFilter    bool
	Lemm         Lemmatizer
}

// Preprocessor - deterministic text to token pipeline; safe for concurrent use
type Preprocessor struct {
	stops  map[string]struct{}
	lemm   Lemmatizer
	minlen int
	pos    bool
}

// DefaultPrepOptions - the options that correspond to the configuration defaults
func DefaultPrepOptions(cfg str.CurrentConfiguration) PrepOptions {
	return PrepOptions{
		MinTokenLen:  cfg.MinTokenLen,
		StopwordFile: cfg.StopwordFile,
		POSFilter:    cfg.LdaPOS,
	}
}

func NewPreprocessor(o PrepOptions) (*Preprocessor, error) {
	const (
		FAIL1 = "could not load the english lemmatizer: %w"
	)

	ss, err := readstopconfig(o.StopwordFile)
	if err != nil {
		return nil, err
	}

	lm := o.Lemm
	if lm == nil {
		gl, e := englishlemm()
		if e != nil {
			return nil, fmt.Errorf(FAIL1, e)
		}
		lm = gl
	}

	ml := o.MinTokenLen
	if ml < 1 {
		ml = vv.MINTOKENLEN
	}

	return &Preprocessor{
		stops:  gen.ToSet(ss),
		lemm:   lm,
		minlen: ml,
		pos:    o.POSFilter,
	}, nil
}

// Preprocess - lowercase, strip everything but a-z, drop stopwords, lemmatize, drop short words
func (p *Preprocessor) Preprocess(raw string) str.Preprocessed {
	// sample: "The networks were trained on graphs." --> [network train graph]

	// [a] lowercase and clean
	words := Clean(raw)

	// [b] optional part-of-speech filter
	if p.pos && len(words) > 0 {
		words = keepcontentwords(words)
	}

	// [c] stopwords, lemmata, minimum length
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if p.isstop(w) {
			continue
		}
		l := p.lemma(w)
		if len(l) < p.minlen || p.isstop(l) {
			continue
		}
		tokens = append(tokens, l)
	}

	// [d] summary
	uniq := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		uniq[t] = struct{}{}
	}

	return str.Preprocessed{
		Tokens:          tokens,
		WordCount:       len(tokens),
		UniqueWordCount: len(uniq),
		SampleWords:     append([]string{}, gen.FirstN(tokens, vv.SAMPLEWORDS)...),
	}
}

func (p *Preprocessor) isstop(w string) bool {
	_, ok := p.stops[w]
	return ok
}

// lemma - iterate to a fixed point and refuse anything that is not plain a-z
func (p *Preprocessor) lemma(w string) string {
	const (
		MAXHOPS = 4
	)
	for i := 0; i < MAXHOPS; i++ {
		l := strings.ToLower(p.lemm.Lemma(w))
		if l == w || !isaz(l) {
			return w
		}
		w = l
	}
	return w
}

// Clean - lowercase; every character outside a-z is a word boundary
func Clean(raw string) []string {
	s := strings.ToLower(raw)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}
	return strings.Fields(sb.String())
}

// Detokenize - the inverse of strings.Fields for a token stream
func Detokenize(tokens []string) string {
	return strings.Join(tokens, " ")
}

func isaz(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// keepcontentwords - nouns, verbs and adjectives survive; tagging needs the running text
func keepcontentwords(words []string) []string {
	doc, err := prose.NewDocument(strings.Join(words, " "),
		prose.WithSegmentation(false), prose.WithExtraction(false))
	if err != nil {
		return words
	}
	var kept []string
	for _, tk := range doc.Tokens() {
		switch {
		case strings.HasPrefix(tk.Tag, "NN"), strings.HasPrefix(tk.Tag, "VB"), strings.HasPrefix(tk.Tag, "JJ"):
			if isaz(tk.Text) {
				kept = append(kept, tk.Text)
			}
		}
	}
	return kept
}
