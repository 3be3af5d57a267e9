//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package wc

import (
	"sort"

	"github.com/e-gun/PaperScopeServer/internal/str"
)

// FromModel - every topic keyword weighted by the share of the group's documents in that topic;
// topics nobody is assigned to still count a little so that small models are not blank
func FromModel(tm *str.TopicModel, n int) []str.Keyword {
	if tm == nil {
		return []str.Keyword{}
	}
	nd := float64(len(tm.Assigned))
	k := float64(tm.NumTopics())

	acc := make(map[string]float64)
	for _, tp := range tm.Topics {
		share := 1 / k
		if nd > 0 {
			share = (float64(tm.DominantCount(tp.ID)) + 1) / (nd + k)
		}
		for _, kw := range tp.Keywords {
			acc[kw.Word] += kw.Weight * share
		}
	}
	return ranked(acc, n)
}

// FromTokens - raw token frequencies across the documents
func FromTokens(docs []*str.Document, n int) []str.Keyword {
	acc := make(map[string]float64)
	for _, d := range docs {
		for _, t := range d.Tokens {
			acc[t]++
		}
	}
	return ranked(acc, n)
}

// ranked - weight descending, then word; at most n
func ranked(acc map[string]float64, n int) []str.Keyword {
	kw := make([]str.Keyword, 0, len(acc))
	for w, v := range acc {
		kw = append(kw, str.Keyword{Word: w, Weight: v})
	}
	sort.Slice(kw, func(i, j int) bool {
		if kw[i].Weight != kw[j].Weight {
			return kw[i].Weight > kw[j].Weight
		}
		return kw[i].Word < kw[j].Word
	})
	if n > 0 && len(kw) > n {
		kw = kw[:n]
	}
	return kw
}
