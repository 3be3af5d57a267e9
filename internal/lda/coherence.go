//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"math"

	"github.com/e-gun/PaperScopeServer/internal/str"
)

//
// COHERENCE
//

// cooccurrence - which documents contain which words
type cooccurrence struct {
	ndocs int
	docs  map[string]map[int]struct{}
}

func newcooccurrence(dd []*str.Document) *cooccurrence {
	c := &cooccurrence{ndocs: len(dd), docs: make(map[string]map[int]struct{})}
	for i, d := range dd {
		for _, t := range d.Tokens {
			s, ok := c.docs[t]
			if !ok {
				s = make(map[int]struct{})
				c.docs[t] = s
			}
			s[i] = struct{}{}
		}
	}
	return c
}

func (c *cooccurrence) joint(a, b string) int {
	sa, sb := c.docs[a], c.docs[b]
	if len(sb) < len(sa) {
		sa, sb = sb, sa
	}
	n := 0
	for i := range sa {
		if _, ok := sb[i]; ok {
			n++
		}
	}
	return n
}

// npmi - mean normalised pointwise mutual information over every pair of words;
// a pair that never co-occurs scores -1, a pair that always co-occurs scores 1
func (c *cooccurrence) npmi(words []string) float64 {
	if c.ndocs == 0 || len(words) < 2 {
		return 0
	}
	nd := float64(c.ndocs)

	var total float64
	var pairs int
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			pairs++
			nij := c.joint(words[i], words[j])
			if nij == 0 {
				total += -1
				continue
			}
			pij := float64(nij) / nd
			if pij >= 1 {
				total += 1
				continue
			}
			pi := float64(len(c.docs[words[i]])) / nd
			pj := float64(len(c.docs[words[j]])) / nd
			total += math.Log(pij/(pi*pj)) / -math.Log(pij)
		}
	}
	return total / float64(pairs)
}
