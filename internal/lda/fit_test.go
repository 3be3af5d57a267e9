//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	themeA = []string{"graph", "node", "edge", "network", "community", "centrality"}
	themeB = []string{"protein", "gene", "cell", "sequence", "genome", "molecule"}
)

// twothemes - documents that draw on one of two disjoint vocabularies
func twothemes(n int) []*str.Document {
	var dd []*str.Document
	for i := 0; i < n; i++ {
		theme := themeA
		if i%2 == 1 {
			theme = themeB
		}
		var toks []string
		for j := 0; j < 12; j++ {
			toks = append(toks, theme[(i+j)%len(theme)])
		}
		dd = append(dd, &str.Document{
			ID:       fmt.Sprintf("doc%02d", i),
			Title:    fmt.Sprintf("Paper %d", i),
			Authors:  []string{"A"},
			Year:     2024,
			Tokens:   toks,
			GroupKey: "2024",
		})
	}
	return dd
}

func testopts() Options {
	return Options{Topics: 2, Iterations: 60, Passes: 30, MinDocs: 5, Keywords: 5, Seed: 7}
}

func TestFitInsufficientData(t *testing.T) {
	_, err := Fit(context.Background(), "2024", twothemes(1), testopts())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.InsufficientData))
}

func TestFitIgnoresEmptyDocuments(t *testing.T) {
	dd := twothemes(4)
	dd = append(dd, &str.Document{ID: "empty", Tokens: []string{}}, &str.Document{ID: "none"})
	_, err := Fit(context.Background(), "2024", dd, testopts())
	assert.True(t, errs.IsKind(err, errs.InsufficientData))
}

func TestFitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fit(ctx, "2024", twothemes(10), testopts())
	assert.True(t, errs.IsKind(err, errs.Cancelled))
}

func TestFitShape(t *testing.T) {
	dd := twothemes(12)
	tm, err := Fit(context.Background(), "2024", dd, testopts())
	require.NoError(t, err)

	assert.Equal(t, "2024", tm.GroupKey)
	require.Equal(t, 2, tm.NumTopics())
	assert.Len(t, tm.Theta, 12)
	assert.Len(t, tm.Assigned, 12)
	assert.True(t, sort.StringsAreSorted(tm.DocIDs))

	for _, tp := range tm.Topics {
		require.Len(t, tp.Keywords, 5)
		for i := 1; i < len(tp.Keywords); i++ {
			assert.GreaterOrEqual(t, tp.Keywords[i-1].Weight, tp.Keywords[i].Weight)
		}
		assert.GreaterOrEqual(t, tp.Coherence, -1.0)
		assert.LessOrEqual(t, tp.Coherence, 1.0)
	}

	for id, a := range tm.Assigned {
		assert.GreaterOrEqual(t, a.Confidence, 0.0, id)
		assert.LessOrEqual(t, a.Confidence, 1.0, id)

		dist := tm.Theta[id]
		var sum, top3 float64
		for _, p := range dist {
			sum += p
		}
		for _, k := range RankTopics(dist)[:min(3, len(dist))] {
			top3 += dist[k]
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.LessOrEqual(t, top3, 1.0+1e-9)
		assert.Equal(t, RankTopics(dist)[0], a.TopicID)
	}

	for _, row := range tm.Phi {
		var sum float64
		for _, p := range row {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func keywordsets(tm *str.TopicModel) []string {
	var ss []string
	for _, tp := range tm.Topics {
		ww := tp.Words(len(tp.Keywords))
		sort.Strings(ww)
		ss = append(ss, strings.Join(ww, ","))
	}
	sort.Strings(ss)
	return ss
}

func TestFitReproducibleWithSeed(t *testing.T) {
	dd := twothemes(12)
	a, err := Fit(context.Background(), "2024", dd, testopts())
	require.NoError(t, err)
	b, err := Fit(context.Background(), "2024", dd, testopts())
	require.NoError(t, err)

	assert.Equal(t, keywordsets(a), keywordsets(b))
	assert.Equal(t, a.Assigned, b.Assigned)
}

// mixedthemes - documents that mix four overlapping vocabularies in uneven amounts
func mixedthemes(n int) []*str.Document {
	themes := [][]string{
		themeA,
		themeB,
		{"model", "network", "layer", "training", "gradient", "loss"},
		{"cell", "tissue", "patient", "clinical", "trial", "dose"},
	}
	var dd []*str.Document
	for i := 0; i < n; i++ {
		var toks []string
		for j := 0; j < 20; j++ {
			th := themes[(i+j/7)%len(themes)]
			toks = append(toks, th[(i*j+j)%len(th)])
		}
		dd = append(dd, &str.Document{ID: fmt.Sprintf("mix%02d", i), Tokens: toks, GroupKey: "2024"})
	}
	return dd
}

func TestFitReproducibleOnLargerCorpus(t *testing.T) {
	o := Options{Topics: 4, Iterations: 40, Passes: 20, MinDocs: 5, Keywords: 6, Seed: 42}
	dd := mixedthemes(40)

	first, err := Fit(context.Background(), "2024", dd, o)
	require.NoError(t, err)
	for run := 0; run < 3; run++ {
		again, err := Fit(context.Background(), "2024", dd, o)
		require.NoError(t, err)
		assert.Equal(t, first.Assigned, again.Assigned)
		assert.Equal(t, first.Phi, again.Phi)
		assert.Equal(t, first.Topics, again.Topics)
	}
}

func TestStableCSCOrdersRows(t *testing.T) {
	dense := mat.NewDense(4, 3, []float64{
		0, 2, 0,
		1, 0, 0,
		0, 3, 5,
		4, 0, 6,
	})
	csc := stablecsc(dense)

	var got [][3]float64
	for j := 0; j < 3; j++ {
		csc.DoColNonZero(j, func(i, j int, v float64) {
			got = append(got, [3]float64{float64(j), float64(i), v})
		})
	}
	assert.Equal(t, [][3]float64{{0, 1, 1}, {0, 3, 4}, {1, 0, 2}, {1, 2, 3}, {2, 2, 5}, {2, 3, 6}}, got)
	assert.True(t, mat.Equal(dense, csc))
}

func TestRankTopicsTies(t *testing.T) {
	assert.Equal(t, []int{1, 2, 0, 3}, RankTopics([]float64{0.1, 0.4, 0.4, 0.1}))
}

func TestTopKeywordsTieBreak(t *testing.T) {
	kw := topkeywords([]float64{0.25, 0.25, 0.5}, []string{"zeta", "alpha", "mid"}, 3)
	assert.Equal(t, []string{"mid", "alpha", "zeta"}, []string{kw[0].Word, kw[1].Word, kw[2].Word})
}
