//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package coauth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func papers(aa ...[]string) []*str.Document {
	var dd []*str.Document
	for i, a := range aa {
		dd = append(dd, &str.Document{ID: fmt.Sprintf("p%d", i), Title: fmt.Sprintf("Paper %d", i), Authors: a, Year: 2020 + i})
	}
	return dd
}

func TestTriangle(t *testing.T) {
	g := Build(papers([]string{"A", "B"}, []string{"B", "C"}, []string{"A", "C"}), "")
	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 3)
	for _, e := range g.Edges {
		assert.Equal(t, 1, e.SharedPaperCount)
	}

	st := Statistics(g, DefaultStatOptions())
	assert.Equal(t, 3, st.Nodes)
	assert.Equal(t, 3, st.Edges)
	assert.Equal(t, 2.0, st.AverageDegree)
	assert.Equal(t, 1.0, st.Density)
	assert.Equal(t, 1, st.Components)
	assert.Equal(t, 1, st.Communities)
}

func TestEveryPairHasAnEdge(t *testing.T) {
	dd := papers(
		[]string{"Ada Lovelace", "Charles Babbage", "Mary Somerville"},
		[]string{"Charles Babbage", "John Herschel"},
		[]string{"Solo Author"},
	)
	g := Build(dd, "")

	pairs := make(map[[2]string]bool)
	for _, d := range dd {
		for i := range d.Authors {
			for j := i + 1; j < len(d.Authors); j++ {
				k := str.EdgeKey(AuthorID(d.Authors[i]), AuthorID(d.Authors[j]))
				pairs[k] = true
				e, ok := g.Edges[k]
				require.True(t, ok)
				assert.GreaterOrEqual(t, e.SharedPaperCount, 1)
			}
		}
	}
	for k, e := range g.Edges {
		assert.True(t, pairs[k])
		assert.NotEqual(t, e.AuthorA, e.AuthorB)
		assert.Less(t, e.AuthorA, e.AuthorB)
	}
	assert.Len(t, g.Nodes, 5)
}

func TestWeightsAccumulate(t *testing.T) {
	g := Build(papers([]string{"A", "B"}, []string{"b", "a"}, []string{"A", "A", "B"}), "")
	require.Len(t, g.Edges, 1)
	for _, e := range g.Edges {
		assert.Equal(t, 3, e.SharedPaperCount)
	}
	a := g.Nodes[AuthorID("A")]
	assert.Equal(t, 3, a.PaperCount)
	assert.Equal(t, "A", a.DisplayName)
}

func TestStableIDs(t *testing.T) {
	assert.Equal(t, AuthorID("Ada  Lovelace"), AuthorID(" ada lovelace "))
	assert.Equal(t, AuthorID("ﬁsher"), AuthorID("Fisher"))
	assert.NotEqual(t, AuthorID("Ada Lovelace"), AuthorID("Ada Byron"))
	assert.Empty(t, AuthorID("   "))

	a := Build(papers([]string{"A", "B"}, []string{"C", "B"}), "")
	b := Build(papers([]string{"C", "B"}, []string{"B", "A"}), "")
	assert.Equal(t, a.SortedNodeIDs(), b.SortedNodeIDs())
}

func TestEgo(t *testing.T) {
	dd := papers([]string{"A", "B"}, []string{"B", "C"}, []string{"C", "D"})
	g := Build(dd, "B")
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)
	_, hasd := g.Nodes[AuthorID("D")]
	assert.False(t, hasd)

	empty := Build(dd, "Nobody")
	assert.Empty(t, empty.Nodes)
	assert.Empty(t, empty.Edges)
	assert.Equal(t, 0.0, Statistics(empty, DefaultStatOptions()).AverageDegree)
}

func TestStatisticsTwoCliques(t *testing.T) {
	dd := papers(
		[]string{"A", "B", "C"}, []string{"A", "B", "C"},
		[]string{"X", "Y", "Z"}, []string{"X", "Y", "Z"},
		[]string{"Lonely"},
	)
	g := Build(dd, "")
	st := Statistics(g, DefaultStatOptions())

	assert.Equal(t, 7, st.Nodes)
	assert.Equal(t, 6, st.Edges)
	assert.Equal(t, 3, st.Components)
	assert.Equal(t, 3, st.Communities)
	assert.Greater(t, st.Modularity, 0.0)
	assert.Equal(t, st.Membership[AuthorID("A")], st.Membership[AuthorID("B")])
	assert.NotEqual(t, st.Membership[AuthorID("A")], st.Membership[AuthorID("X")])
	assert.InDelta(t, 2*6.0/7.0, st.AverageDegree, 1e-12)

	again := Statistics(Build(dd, ""), DefaultStatOptions())
	assert.Equal(t, st.Membership, again.Membership)
	assert.Equal(t, st.TopAuthors, again.TopAuthors)
}

func TestNoEdges(t *testing.T) {
	st := Statistics(Build(papers([]string{"A"}, []string{"B"}), ""), DefaultStatOptions())
	assert.Equal(t, 2, st.Nodes)
	assert.Equal(t, 2, st.Communities)
	assert.Equal(t, 0.0, st.AverageDegree)
}

func TestTopAuthorsBetweenness(t *testing.T) {
	// a path: B sits between A and C
	st := Statistics(Build(papers([]string{"A", "B"}, []string{"B", "C"}), ""), DefaultStatOptions())
	require.NotEmpty(t, st.TopAuthors)
	assert.Equal(t, "B", st.TopAuthors[0].Name)
	assert.Equal(t, 1.0, st.TopAuthors[0].Degree)
	assert.Greater(t, st.TopAuthors[0].Betweenness, 0.0)

	o := DefaultStatOptions()
	o.BetweennessCap = 1
	st = Statistics(Build(papers([]string{"A", "B"}, []string{"B", "C"}), ""), o)
	assert.Equal(t, 0.0, st.TopAuthors[0].Betweenness)
}

func TestViews(t *testing.T) {
	// A and C tie on weighted degree; A has more papers
	dd := papers([]string{"A", "B"}, []string{"A", "B"}, []string{"A"}, []string{"B", "C"}, []string{"C", "D"})
	g := Build(dd, "")
	st := Statistics(g, DefaultStatOptions())

	full := FullView(g, st.Membership, ViewOptions{MaxNodes: 2, MaxLinks: 10})
	require.Len(t, full.Nodes, 2)
	assert.Equal(t, "B", full.Nodes[0].Name)
	assert.Equal(t, 3, full.Nodes[0].Weight)
	require.Len(t, full.Links, 1)
	assert.Equal(t, 2, full.Links[0].Value)

	egoid := AuthorID("C")
	ego := EgoView(Build(dd, "C"), egoid, PapersOf(dd, egoid), ViewOptions{MaxNodes: 100, MaxLinks: 100})
	groups := make(map[string]int)
	for _, n := range ego.Nodes {
		groups[n.Group]++
	}
	assert.Equal(t, map[string]int{GROUPAUTHOR: 1, GROUPCOAUTHOR: 2, GROUPPAPER: 2}, groups)

	// C-B, C-D; C to both papers; B and D each to the paper they share with C
	assert.Len(t, ego.Links, 6)
	assert.Contains(t, ego.Links, LinkJSON{Source: AuthorID("B"), Target: "p3", Value: 1})
	assert.Contains(t, ego.Links, LinkJSON{Source: AuthorID("D"), Target: "p4", Value: 1})
	assert.NotContains(t, ego.Links, LinkJSON{Source: AuthorID("B"), Target: "p4", Value: 1})
	require.NotNil(t, ego.Statistics)
	assert.Equal(t, EgoStatistics{TotalCoAuthors: 2, TotalPapers: 2, TotalConnections: 6}, *ego.Statistics)

	bare := EgoView(Build(dd, "C"), egoid, nil, ViewOptions{MaxNodes: 100, MaxLinks: 100})
	assert.Equal(t, EgoStatistics{TotalCoAuthors: 2, TotalPapers: 0, TotalConnections: 2}, *bare.Statistics)

	none := EgoView(Build(dd, "Z"), AuthorID("Z"), nil, ViewOptions{})
	assert.Empty(t, none.Nodes)
	assert.Empty(t, none.Links)
	assert.Nil(t, none.Statistics)
	assert.Equal(t, "Author not found", none.Message)
}

func TestRenderChart(t *testing.T) {
	g := Build(papers([]string{"A", "B"}), "")
	st := Statistics(g, DefaultStatOptions())
	html, err := RenderChart(FullView(g, st.Membership, ViewOptions{}), "Co-authors")
	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "echarts.init"))
	assert.True(t, strings.Contains(html, "Co-authors"))
}
