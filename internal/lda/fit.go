//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/e-gun/nlp"
	"github.com/e-gun/sparse"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

//
// LDA TOPIC MODELS
//

// Options - how to fit a model
type Options struct {
	Topics     int
	Iterations int
	Passes     int
	MinDocs    int
	Keywords   int
	Seed       int64
	FoldInIter int
	Alpha      float64
}

func OptionsFromConfig(cfg str.CurrentConfiguration) Options {
	return Options{
		Topics:     cfg.LdaTopics,
		Iterations: cfg.LdaIterations,
		Passes:     cfg.LdaPasses,
		MinDocs:    cfg.LdaMinDocs,
		Keywords:   cfg.LdaKeywords,
		Seed:       cfg.LdaSeed,
		FoldInIter: vv.LDAFOLDINITER,
		Alpha:      vv.LDAFOLDINALPHA,
	}
}

func (o Options) withdefaults() Options {
	if o.Topics < 1 {
		o.Topics = vv.LDATOPICS
	}
	if o.Iterations < 1 {
		o.Iterations = vv.LDAITER
	}
	if o.Passes < 1 {
		o.Passes = vv.LDAXFORMPASSES
	}
	if o.Keywords < 1 {
		o.Keywords = vv.LDAKEYWORDS
	}
	if o.FoldInIter < 1 {
		o.FoldInIter = vv.LDAFOLDINITER
	}
	if o.Alpha <= 0 {
		o.Alpha = vv.LDAFOLDINALPHA
	}
	return o
}

// Fit - build a TopicModel for one group; documents must already carry tokens
func Fit(ctx context.Context, group string, docs []*str.Document, o Options) (*str.TopicModel, error) {
	const (
		OP    = "lda.Fit"
		FAIL1 = "group '%s' has %d usable documents; at least %d are required"
		FAIL2 = "group '%s' has no vocabulary after preprocessing"
		FAIL3 = "non-finite value in %s"
	)

	o = o.withdefaults()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", OP, err)
	}

	// [a] usable documents in a fixed order
	var usable []*str.Document
	for _, d := range docs {
		if len(d.Tokens) > 0 {
			usable = append(usable, d)
		}
	}
	sort.Slice(usable, func(i, j int) bool { return usable[i].ID < usable[j].ID })

	if len(usable) < o.MinDocs || len(usable) == 0 {
		return nil, errs.NewInsufficientData(OP, FAIL1, group, len(usable), max(o.MinDocs, 1))
	}

	corpus := make([]string, len(usable))
	for i, d := range usable {
		corpus[i] = strings.Join(d.Tokens, " ")
	}

	// [b] the library fit; it cannot be interrupted, so ctx only decides whether anyone is still waiting
	type fitted struct {
		dot   mat.Matrix
		tow   mat.Matrix
		vocab map[string]int
		err   error
	}
	done := make(chan fitted, 1)

	go func() {
		var f fitted
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("lda panicked: %v", r)
			}
			done <- f
		}()
		f.dot, f.tow, f.vocab, f.err = ldamodel(o, corpus)
	}()

	var f fitted
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", OP, ctx.Err())
	case f = <-done:
	}
	if f.err != nil {
		return nil, errs.NewModelFit(OP, f.err)
	}
	if len(f.vocab) == 0 {
		return nil, errs.NewInsufficientData(OP, FAIL2, group)
	}

	// [c] topics over words: rows normalised
	k, nv := f.tow.Dims()
	phi := make([][]float64, k)
	for t := 0; t < k; t++ {
		phi[t] = make([]float64, nv)
		for w := 0; w < nv; w++ {
			phi[t][w] = f.tow.At(t, w)
		}
		if !normalise(phi[t]) {
			return nil, errs.NewModelFit(OP, fmt.Errorf(FAIL3, "topic-word distribution"))
		}
	}

	// [d] documents over topics: columns normalised
	theta := make(map[string][]float64, len(usable))
	assigned := make(map[string]str.Assignment, len(usable))
	ids := make([]string, len(usable))
	for j, d := range usable {
		col := make([]float64, k)
		for t := 0; t < k; t++ {
			col[t] = f.dot.At(t, j)
		}
		if !normalise(col) {
			return nil, errs.NewModelFit(OP, fmt.Errorf(FAIL3, "document-topic distribution"))
		}
		theta[d.ID] = col
		best := RankTopics(col)[0]
		assigned[d.ID] = str.Assignment{TopicID: best, Confidence: clamp01(col[best])}
		ids[j] = d.ID
	}

	// [e] keywords and coherence
	inv := make([]string, nv)
	for w, i := range f.vocab {
		inv[i] = w
	}
	topics := make([]str.Topic, k)
	for t := 0; t < k; t++ {
		topics[t] = str.Topic{ID: t, Keywords: topkeywords(phi[t], inv, o.Keywords)}
	}
	cc := newcooccurrence(usable)
	for t := range topics {
		topics[t].Coherence = cc.npmi(topics[t].Words(o.Keywords))
	}

	return &str.TopicModel{
		GroupKey:   group,
		FittedAt:   time.Now(),
		Seed:       o.Seed,
		Topics:     topics,
		Vocabulary: f.vocab,
		Phi:        phi,
		Theta:      theta,
		Assigned:   assigned,
		DocIDs:     ids,
		Alpha:      o.Alpha,
	}, nil
}

// ldamodel - build the lda model for the corpus
func ldamodel(o Options, corpus []string) (mat.Matrix, mat.Matrix, map[string]int, error) {
	vectoriser := nlp.NewCountVectoriser()

	lda := nlp.NewLatentDirichletAllocation(o.Topics)
	// one process: parallel minibatches would make the result depend on scheduling
	lda.Processes = 1
	lda.Iterations = o.Iterations
	lda.TransformationPasses = o.Passes
	lda.BurnInPasses = vv.LDABURNINPASSES
	lda.Alpha = o.Alpha
	lda.PerplexityEvaluationFrequency = vv.LDAPERPEVALFRQ
	lda.PerplexityTolerance = vv.LDAPERPTOL
	lda.Rnd = rand.New(rand.NewSource(uint64(o.Seed)))

	counts, err := vectoriser.FitTransform(corpus...)
	if err != nil {
		return nil, nil, nil, err
	}

	docsOverTopics, err := lda.FitTransform(stablecsc(counts))
	if err != nil {
		return nil, nil, nil, err
	}

	vocab := make(map[string]int, len(vectoriser.Vocabulary))
	for w, i := range vectoriser.Vocabulary {
		vocab[w] = i
	}
	return docsOverTopics, lda.Components(), vocab, nil
}

// stablecsc - the term-document counts as a CSC whose row order inside each column is ascending;
// the vectoriser hands back a map-backed DOK and its own ToCSC() follows map iteration order
func stablecsc(m mat.Matrix) *sparse.CSC {
	type cell struct {
		i, j int
		v    float64
	}

	r, c := m.Dims()
	var cells []cell
	if nz, ok := m.(mat.NonZeroDoer); ok {
		nz.DoNonZero(func(i, j int, v float64) {
			cells = append(cells, cell{i, j, v})
		})
	} else {
		for j := 0; j < c; j++ {
			for i := 0; i < r; i++ {
				if v := m.At(i, j); v != 0 {
					cells = append(cells, cell{i, j, v})
				}
			}
		}
	}

	sort.Slice(cells, func(a, b int) bool {
		if cells[a].j != cells[b].j {
			return cells[a].j < cells[b].j
		}
		return cells[a].i < cells[b].i
	})

	indptr := make([]int, c+1)
	ind := make([]int, len(cells))
	data := make([]float64, len(cells))
	for n, x := range cells {
		indptr[x.j+1]++
		ind[n] = x.i
		data[n] = x.v
	}
	for j := 0; j < c; j++ {
		indptr[j+1] += indptr[j]
	}
	return sparse.NewCSC(r, c, indptr, ind, data)
}

// RankTopics - topic ids ordered by probability descending; ties go to the lower id
func RankTopics(dist []float64) []int {
	idx := make([]int, len(dist))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dist[idx[a]] > dist[idx[b]]
	})
	return idx
}

// topkeywords - the n heaviest words of a topic; ties are broken alphabetically
func topkeywords(row []float64, inv []string, n int) []str.Keyword {
	kw := make([]str.Keyword, 0, len(row))
	for i, w := range row {
		kw = append(kw, str.Keyword{Word: inv[i], Weight: w})
	}
	sort.Slice(kw, func(a, b int) bool {
		if kw[a].Weight != kw[b].Weight {
			return kw[a].Weight > kw[b].Weight
		}
		return kw[a].Word < kw[b].Word
	})
	if n < len(kw) {
		kw = kw[:n]
	}
	return kw
}

// normalise - scale to sum 1; false if the vector holds NaN, Inf, a negative value, or only zeros
func normalise(v []float64) bool {
	var sum float64
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return false
		}
		sum += x
	}
	if sum <= 0 {
		return false
	}
	for i := range v {
		v[i] /= sum
	}
	return true
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
