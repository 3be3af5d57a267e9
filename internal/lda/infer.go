//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
)

// Infer - project new tokens into a fitted model's topic space with the topic-word distributions held fixed;
// nil if no token is in the model's vocabulary
func Infer(tm *str.TopicModel, tokens []string, iterations int) []float64 {
	if tm == nil || len(tm.Phi) == 0 {
		return nil
	}
	if iterations < 1 {
		iterations = vv.LDAFOLDINITER
	}
	alpha := tm.Alpha
	if alpha <= 0 {
		alpha = vv.LDAFOLDINALPHA
	}

	// [a] bag of known words, in first-seen order
	counts := make(map[int]float64)
	var order []int
	for _, t := range tokens {
		w, ok := tm.Vocabulary[t]
		if !ok {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) == 0 {
		return nil
	}

	k := len(tm.Phi)
	var n float64
	for _, c := range counts {
		n += c
	}

	// [b] EM over the document's topic mixture
	theta := make([]float64, k)
	for t := range theta {
		theta[t] = 1 / float64(k)
	}
	resp := make([]float64, k)
	nk := make([]float64, k)

	for it := 0; it < iterations; it++ {
		for t := range nk {
			nk[t] = 0
		}
		for _, w := range order {
			var z float64
			for t := 0; t < k; t++ {
				resp[t] = theta[t] * tm.Phi[t][w]
				z += resp[t]
			}
			if z == 0 {
				continue
			}
			for t := 0; t < k; t++ {
				nk[t] += counts[w] * resp[t] / z
			}
		}
		denom := n + float64(k)*alpha
		for t := 0; t < k; t++ {
			theta[t] = (nk[t] + alpha) / denom
		}
	}

	normalise(theta)
	return theta
}
