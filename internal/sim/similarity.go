//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sim

import (
	"context"
	"sort"

	"github.com/e-gun/PaperScopeServer/internal/lda"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"gonum.org/v1/gonum/mat"
)

//
// SIMILARITY
//

type Options struct {
	TopicsPerGroup int
	TopicsTotal    int
	DocsPerGroup   int
	DocsTotal      int
	FoldInIter     int
	LabelWords     int
}

func DefaultOptions() Options {
	return Options{
		TopicsPerGroup: vv.SIMTOPICSPERGRP,
		TopicsTotal:    vv.SIMTOPICSTOTAL,
		DocsPerGroup:   vv.SIMDOCSPERGRP,
		DocsTotal:      vv.SIMDOCSTOTAL,
		FoldInIter:     vv.LDAFOLDINITER,
		LabelWords:     vv.ANALYSISLBLWORDS,
	}
}

// Target - a fitted model plus the documents it was fitted on
type Target struct {
	Model *str.TopicModel
	Docs  map[string]*str.Document
}

func emptyresult() str.SimilarityResult {
	return str.SimilarityResult{
		TopicSimilarity:  []str.TopicSimilarity{},
		SimilarDocuments: []str.SimilarDocument{},
	}
}

// ScoreAgainstModel - project the tokens into one model's topic space; rank its topics and its documents
func ScoreAgainstModel(tokens []string, t Target, o Options) str.SimilarityResult {
	res := emptyresult()
	if len(tokens) == 0 || t.Model == nil {
		return res
	}

	theta := lda.Infer(t.Model, tokens, o.FoldInIter)
	if theta == nil {
		return res
	}

	// [a] topics, descending probability
	for _, k := range lda.RankTopics(theta) {
		if len(res.TopicSimilarity) >= o.TopicsPerGroup {
			break
		}
		res.TopicSimilarity = append(res.TopicSimilarity, str.TopicSimilarity{
			Label:       t.Model.Topics[k].Label(o.LabelWords),
			Probability: theta[k],
			TopicID:     k,
			YearGroup:   t.Model.GroupKey,
		})
	}

	// [b] documents, cosine over topic mixtures
	q := mat.NewVecDense(len(theta), theta)
	for _, id := range t.Model.DocIDs {
		d, ok := t.Docs[id]
		if !ok {
			continue
		}
		dt := t.Model.Theta[id]
		if len(dt) != len(theta) {
			continue
		}
		res.SimilarDocuments = append(res.SimilarDocuments, str.SimilarDocument{
			Title:      d.Title,
			Authors:    d.Authors,
			Year:       d.Year,
			Similarity: Cosine(q, mat.NewVecDense(len(dt), dt)),
		})
	}
	RankDocuments(res.SimilarDocuments)
	if len(res.SimilarDocuments) > o.DocsPerGroup {
		res.SimilarDocuments = res.SimilarDocuments[:o.DocsPerGroup]
	}
	return res
}

// ScoreAgainstModels - score every target and merge the per-group results into one overall ranking
func ScoreAgainstModels(ctx context.Context, tokens []string, tt []Target, o Options) (str.SimilarityResult, error) {
	res := emptyresult()
	if len(tokens) == 0 {
		return res, nil
	}

	for _, t := range tt {
		if err := ctx.Err(); err != nil {
			return emptyresult(), err
		}
		r := ScoreAgainstModel(tokens, t, o)
		res.TopicSimilarity = append(res.TopicSimilarity, r.TopicSimilarity...)
		res.SimilarDocuments = append(res.SimilarDocuments, r.SimilarDocuments...)
	}

	sort.SliceStable(res.TopicSimilarity, func(i, j int) bool {
		a, b := res.TopicSimilarity[i], res.TopicSimilarity[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.YearGroup != b.YearGroup {
			return a.YearGroup < b.YearGroup
		}
		return a.TopicID < b.TopicID
	})
	if len(res.TopicSimilarity) > o.TopicsTotal {
		res.TopicSimilarity = res.TopicSimilarity[:o.TopicsTotal]
	}

	RankDocuments(res.SimilarDocuments)
	if len(res.SimilarDocuments) > o.DocsTotal {
		res.SimilarDocuments = res.SimilarDocuments[:o.DocsTotal]
	}
	return res, nil
}

// RankDocuments - similarity descending, then the more recent year, then title
func RankDocuments(sd []str.SimilarDocument) {
	str.SDOrderedBy(str.SDBySimilarity, str.SDByYear, str.SDByTitle).Sort(sd)
}

// Cosine - 0 when either vector is all zeros
func Cosine(a, b mat.Vector) float64 {
	na, nb := mat.Norm(a, 2), mat.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return mat.Dot(a, b) / (na * nb)
}
