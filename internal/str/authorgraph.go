//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import "sort"

type Author struct {
	ID          string
	DisplayName string
	PaperCount  int
}

// CoAuthorship - an undirected edge; AuthorA < AuthorB always
type CoAuthorship struct {
	AuthorA          string
	AuthorB          string
	SharedPaperCount int
}

// AuthorGraph - nodes keyed by author id; edges keyed by the ordered id pair
type AuthorGraph struct {
	Nodes map[string]*Author
	Edges map[[2]string]*CoAuthorship
}

func NewAuthorGraph() *AuthorGraph {
	return &AuthorGraph{
		Nodes: make(map[string]*Author),
		Edges: make(map[[2]string]*CoAuthorship),
	}
}

// EdgeKey - the canonical key for an unordered pair
func EdgeKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// SortedNodeIDs - node ids in lexicographic order
func (g *AuthorGraph) SortedNodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for k := range g.Nodes {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// SortedEdges - edges ordered by (AuthorA, AuthorB)
func (g *AuthorGraph) SortedEdges() []*CoAuthorship {
	ee := make([]*CoAuthorship, 0, len(g.Edges))
	for _, e := range g.Edges {
		ee = append(ee, e)
	}
	sort.Slice(ee, func(i, j int) bool {
		if ee[i].AuthorA != ee[j].AuthorA {
			return ee[i].AuthorA < ee[j].AuthorA
		}
		return ee[i].AuthorB < ee[j].AuthorB
	})
	return ee
}

// WeightedDegree - sum of the shared paper counts on every edge touching each node
func (g *AuthorGraph) WeightedDegree() map[string]int {
	wd := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		wd[e.AuthorA] += e.SharedPaperCount
		wd[e.AuthorB] += e.SharedPaperCount
	}
	return wd
}

type NetworkStats struct {
	Nodes         int
	Edges         int
	Communities   int
	AverageDegree float64
	Density       float64
	Components    int
	Modularity    float64
	Membership    map[string]int // author id --> community id
	TopAuthors    []CentralAuthor
}

type CentralAuthor struct {
	ID          string
	Name        string
	Degree      float64
	Betweenness float64
}
