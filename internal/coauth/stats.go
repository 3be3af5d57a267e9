//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package coauth

import (
	"sort"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

//
// NETWORK STATISTICS
//

type StatOptions struct {
	Seed           int64
	BetweennessCap int
	TopAuthors     int
	Resolution     float64
}

func DefaultStatOptions() StatOptions {
	return StatOptions{
		Seed:           vv.COMMUNITYSEED,
		BetweennessCap: vv.BETWEENNESSCAP,
		TopAuthors:     vv.TOPAUTHORS,
		Resolution:     1.0,
	}
}

// gonumgraph - the author graph as a weighted gonum graph; node ids follow lexicographic author id order
func gonumgraph(ag *str.AuthorGraph) (*simple.WeightedUndirectedGraph, []string, map[string]int64) {
	ids := ag.SortedNodeIDs()
	idx := make(map[string]int64, len(ids))

	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i, id := range ids {
		idx[id] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range ag.SortedEdges() {
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(idx[e.AuthorA]), simple.Node(idx[e.AuthorB]), float64(e.SharedPaperCount)))
	}
	return g, ids, idx
}

// Statistics - counts, density, components, Louvain communities and centrality
func Statistics(ag *str.AuthorGraph, o StatOptions) str.NetworkStats {
	n := len(ag.Nodes)
	m := len(ag.Edges)

	st := str.NetworkStats{
		Nodes:      n,
		Edges:      m,
		Membership: make(map[string]int, n),
		TopAuthors: []str.CentralAuthor{},
	}
	if n == 0 {
		return st
	}

	st.AverageDegree = AverageDegree(n, m)
	if n > 1 {
		st.Density = 2 * float64(m) / float64(n*(n-1))
	}

	g, ids, _ := gonumgraph(ag)

	// [a] components
	st.Components = len(topo.ConnectedComponents(g))

	// [b] communities
	var comms [][]graph.Node
	if m == 0 {
		// no edge weight for Louvain to work with: every author is a community of one
		for i := range ids {
			comms = append(comms, []graph.Node{simple.Node(int64(i))})
		}
	} else {
		res := o.Resolution
		if res <= 0 {
			res = 1
		}
		reduced := community.Modularize(g, res, rand.NewSource(uint64(o.Seed)))
		comms = reduced.Communities()
		st.Modularity = community.Q(g, comms, res)
	}
	comms = canonicalcommunities(comms)
	st.Communities = len(comms)
	for c, members := range comms {
		for _, nd := range members {
			st.Membership[ids[nd.ID()]] = c
		}
	}

	// [c] centrality
	st.TopAuthors = topauthors(ag, g, ids, o)
	return st
}

// AverageDegree - 2E/N; 0 for an empty graph
func AverageDegree(nodes, edges int) float64 {
	if nodes == 0 {
		return 0
	}
	return 2 * float64(edges) / float64(nodes)
}

// canonicalcommunities - members sorted by id; communities ordered by their smallest member
func canonicalcommunities(cc [][]graph.Node) [][]graph.Node {
	var out [][]graph.Node
	for _, c := range cc {
		if len(c) == 0 {
			continue
		}
		cp := append([]graph.Node(nil), c...)
		sort.Slice(cp, func(i, j int) bool { return cp[i].ID() < cp[j].ID() })
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0].ID() < out[j][0].ID() })
	return out
}

// topauthors - degree centrality descending, then name; betweenness only for graphs under the cap
func topauthors(ag *str.AuthorGraph, g *simple.WeightedUndirectedGraph, ids []string, o StatOptions) []str.CentralAuthor {
	n := len(ids)
	var btw map[int64]float64
	if n <= o.BetweennessCap {
		btw = network.Betweenness(g)
	}

	ca := make([]str.CentralAuthor, n)
	for i, id := range ids {
		deg := g.From(int64(i)).Len()
		var dc float64
		if n > 1 {
			dc = float64(deg) / float64(n-1)
		}
		ca[i] = str.CentralAuthor{
			ID:          id,
			Name:        ag.Nodes[id].DisplayName,
			Degree:      dc,
			Betweenness: btw[int64(i)],
		}
	}

	sort.SliceStable(ca, func(i, j int) bool {
		if ca[i].Degree != ca[j].Degree {
			return ca[i].Degree > ca[j].Degree
		}
		return ca[i].Name < ca[j].Name
	})

	if o.TopAuthors > 0 && len(ca) > o.TopAuthors {
		ca = ca[:o.TopAuthors]
	}
	return ca
}
