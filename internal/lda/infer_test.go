//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"testing"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handmodel() *str.TopicModel {
	return &str.TopicModel{
		GroupKey:   "2024",
		Vocabulary: map[string]int{"graph": 0, "node": 1, "gene": 2, "cell": 3},
		Phi: [][]float64{
			{0.45, 0.45, 0.05, 0.05},
			{0.05, 0.05, 0.45, 0.45},
		},
		Alpha: 0.1,
	}
}

func TestInferFavoursMatchingTopic(t *testing.T) {
	th := Infer(handmodel(), []string{"graph", "node", "graph", "unknown"}, 50)
	require.Len(t, th, 2)
	assert.Greater(t, th[0], th[1])
	assert.InDelta(t, 1.0, th[0]+th[1], 1e-9)
}

func TestInferUnknownVocabulary(t *testing.T) {
	assert.Nil(t, Infer(handmodel(), []string{"nothing", "known"}, 50))
	assert.Nil(t, Infer(handmodel(), nil, 50))
	assert.Nil(t, Infer(nil, []string{"graph"}, 50))
}

func TestInferDeterministic(t *testing.T) {
	toks := []string{"gene", "cell", "graph"}
	assert.Equal(t, Infer(handmodel(), toks, 50), Infer(handmodel(), toks, 50))
}
