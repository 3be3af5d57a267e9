//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suffixlemm - a tiny deterministic lemmatizer for tests that should not depend on a dictionary
type suffixlemm struct{}

func (suffixlemm) Lemma(w string) string {
	switch {
	case strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "ing") && len(w) > 6:
		return strings.TrimSuffix(w, "ing")
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

func fakeprep(t *testing.T) *Preprocessor {
	p, err := NewPreprocessor(PrepOptions{MinTokenLen: 4, Lemm: suffixlemm{}})
	require.NoError(t, err)
	return p
}

func TestPreprocessBasics(t *testing.T) {
	p := fakeprep(t)
	out := p.Preprocess("The Networks were TRAINED on 3 graphs; state-of-the-art studies!")

	// "studies" lemmatises to "study", which is abstract boilerplate
	assert.Equal(t, []string{"network", "trained", "graph", "state"}, out.Tokens)
	assert.Equal(t, len(out.Tokens), out.WordCount)
	assert.LessOrEqual(t, out.UniqueWordCount, out.WordCount)
}

func TestCleanSplitsOnPunctuationAndDigits(t *testing.T) {
	in := "graphs,networks and proteins;genes (see e.g.Smith) covid19vaccine x.y state-of-the-art a/b don't"
	want := []string{"graphs", "networks", "and", "proteins", "genes", "see", "e", "g", "smith",
		"covid", "vaccine", "x", "y", "state", "of", "the", "art", "a", "b", "don", "t"}
	assert.Equal(t, want, Clean(in))
}

func TestPreprocessGluedPunctuation(t *testing.T) {
	p := fakeprep(t)
	out := p.Preprocess("graphs,networks;proteins")
	assert.Equal(t, []string{"graph", "network", "protein"}, out.Tokens)
}

func TestPreprocessEmpty(t *testing.T) {
	p := fakeprep(t)
	for _, in := range []string{"", "   ", "123 !!! ...", "the and of"} {
		out := p.Preprocess(in)
		assert.Equal(t, 0, out.WordCount, in)
		assert.Equal(t, 0, out.UniqueWordCount, in)
		assert.NotNil(t, out.Tokens, in)
		assert.Empty(t, out.Tokens, in)
		assert.NotNil(t, out.SampleWords, in)
	}
}

func TestPreprocessIdempotent(t *testing.T) {
	p := fakeprep(t)
	inputs := []string{
		"Graph neural networks learn representations of nodes and edges.",
		"Studies of topic models: latent Dirichlet allocation, revisited (2024).",
		"Co-authorship networks reveal communities; centrality identifies brokers.",
	}
	for _, in := range inputs {
		first := p.Preprocess(in).Tokens
		second := p.Preprocess(Detokenize(first)).Tokens
		assert.Equal(t, first, second, in)
	}
}

func TestPreprocessDeterministic(t *testing.T) {
	p := fakeprep(t)
	in := "Deterministic pipelines produce deterministic tokens every single time."
	assert.Equal(t, p.Preprocess(in), p.Preprocess(in))
}

func TestSampleWordsCapped(t *testing.T) {
	p := fakeprep(t)
	in := strings.Repeat("modelling structure ", 30)
	out := p.Preprocess(in)
	assert.Len(t, out.SampleWords, 20)
	assert.Equal(t, 60, out.WordCount)
	assert.Equal(t, 2, out.UniqueWordCount)
}

func TestGolemLemmatizer(t *testing.T) {
	p, err := NewPreprocessor(PrepOptions{MinTokenLen: 4})
	require.NoError(t, err)
	out := p.Preprocess("The networks were trained on graphs.")
	assert.Contains(t, out.Tokens, "network")
	assert.Contains(t, out.Tokens, "graph")

	again := p.Preprocess(Detokenize(out.Tokens))
	assert.Equal(t, out.Tokens, again.Tokens)
}

func TestStopwordFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "stops.json")
	require.NoError(t, os.WriteFile(fn, []byte(`["Graph"]`), 0644))
	p, err := NewPreprocessor(PrepOptions{MinTokenLen: 4, StopwordFile: fn, Lemm: suffixlemm{}})
	require.NoError(t, err)
	assert.NotContains(t, p.Preprocess("graph theory graphs").Tokens, "graph")

	_, err = NewPreprocessor(PrepOptions{StopwordFile: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestExtractText(t *testing.T) {
	s, err := ExtractText([]byte("plain text"))
	require.NoError(t, err)
	assert.Equal(t, "plain text", s)

	s, err = ExtractText([]byte{'c', 'a', 'f', 0xe9})
	require.NoError(t, err)
	assert.Equal(t, "café", s)

	_, err = ExtractText([]byte("%PDF-1.4 garbage"))
	assert.Error(t, err)
}
