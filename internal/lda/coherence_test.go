//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"testing"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/stretchr/testify/assert"
)

func tokdocs(tt ...[]string) []*str.Document {
	var dd []*str.Document
	for _, t := range tt {
		dd = append(dd, &str.Document{Tokens: t})
	}
	return dd
}

func TestNPMIBounds(t *testing.T) {
	cc := newcooccurrence(tokdocs(
		[]string{"graph", "node"},
		[]string{"graph", "node"},
		[]string{"gene", "cell"},
		[]string{"gene", "cell"},
	))
	assert.InDelta(t, 1.0, cc.npmi([]string{"graph", "node"}), 1e-9)
	assert.InDelta(t, -1.0, cc.npmi([]string{"graph", "gene"}), 1e-9)
	assert.Equal(t, 0.0, cc.npmi([]string{"graph"}))
}

func TestNPMIMonotone(t *testing.T) {
	// "node" co-occurs with "graph" more often than "cell" does
	cc := newcooccurrence(tokdocs(
		[]string{"graph", "node"},
		[]string{"graph", "node", "cell"},
		[]string{"graph"},
		[]string{"node"},
		[]string{"cell"},
		[]string{"cell"},
	))
	assert.Greater(t, cc.npmi([]string{"graph", "node"}), cc.npmi([]string{"graph", "cell"}))
}

func TestNPMIAlwaysTogether(t *testing.T) {
	cc := newcooccurrence(tokdocs([]string{"a", "b"}, []string{"a", "b"}))
	assert.Equal(t, 1.0, cc.npmi([]string{"a", "b"}))
}
