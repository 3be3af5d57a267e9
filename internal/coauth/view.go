//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package coauth

import (
	"sort"
	"strconv"

	"github.com/e-gun/PaperScopeServer/internal/str"
)

//
// WIRE FORMAT
//

const (
	GROUPAUTHOR   = "author"
	GROUPCOAUTHOR = "co-author"
	GROUPPAPER    = "paper"
)

type NodeJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Group      string `json:"group"`
	PaperCount int    `json:"paper_count,omitempty"`
	Weight     int    `json:"weight,omitempty"`
	Year       int    `json:"year,omitempty"`
}

type LinkJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// EgoStatistics - the counts reported alongside one author's network
type EgoStatistics struct {
	TotalCoAuthors   int `json:"total_co_authors"`
	TotalPapers      int `json:"total_papers"`
	TotalConnections int `json:"total_connections"`
}

type NetworkJSON struct {
	Nodes      []NodeJSON     `json:"nodes"`
	Links      []LinkJSON     `json:"links"`
	Statistics *EgoStatistics `json:"statistics,omitempty"`
	Message    string         `json:"message,omitempty"`
}

type ViewOptions struct {
	MaxNodes int
	MaxLinks int
}

// FullView - every author coloured by community; the heaviest MaxNodes nodes and MaxLinks links survive
func FullView(g *str.AuthorGraph, membership map[string]int, o ViewOptions) NetworkJSON {
	wd := g.WeightedDegree()
	keep := heaviest(g, wd, o.MaxNodes)

	nj := NetworkJSON{Nodes: []NodeJSON{}, Links: []LinkJSON{}}
	for _, id := range keep {
		a := g.Nodes[id]
		grp := ""
		if c, ok := membership[id]; ok {
			grp = strconv.Itoa(c)
		}
		nj.Nodes = append(nj.Nodes, NodeJSON{ID: id, Name: a.DisplayName, Group: grp, PaperCount: a.PaperCount, Weight: wd[id]})
	}
	nj.Links = links(g, idset(keep), o.MaxLinks)
	return nj
}

// EgoView - the author and co-authors; papers are appended when supplied, each linked to the author
// and to every co-author in the view who also wrote it
func EgoView(g *str.AuthorGraph, egoid string, papers []*str.Document, o ViewOptions) NetworkJSON {
	const (
		NOTFOUND = "Author not found"
	)

	nj := NetworkJSON{Nodes: []NodeJSON{}, Links: []LinkJSON{}}
	if _, ok := g.Nodes[egoid]; !ok {
		nj.Message = NOTFOUND
		return nj
	}

	wd := g.WeightedDegree()
	keep := heaviest(g, wd, o.MaxNodes)
	kept := idset(keep)
	if !kept[egoid] {
		// the ego always survives the cap
		keep = append([]string{egoid}, keep[:max(len(keep)-1, 0)]...)
		kept = idset(keep)
	}

	st := EgoStatistics{}
	for _, id := range keep {
		a := g.Nodes[id]
		grp := GROUPCOAUTHOR
		if id == egoid {
			grp = GROUPAUTHOR
		} else {
			st.TotalCoAuthors++
		}
		nj.Nodes = append(nj.Nodes, NodeJSON{ID: id, Name: a.DisplayName, Group: grp, PaperCount: a.PaperCount, Weight: wd[id]})
	}
	nj.Links = links(g, kept, o.MaxLinks)

	seen := make(map[string]bool, len(papers))
	for _, p := range papers {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		st.TotalPapers++
		nj.Nodes = append(nj.Nodes, NodeJSON{ID: p.ID, Name: p.Title, Group: GROUPPAPER, Year: p.Year})
		nj.Links = append(nj.Links, LinkJSON{Source: egoid, Target: p.ID, Value: 1})

		linked := map[string]bool{egoid: true}
		for _, a := range p.Authors {
			id := AuthorID(a)
			if kept[id] && !linked[id] {
				linked[id] = true
				nj.Links = append(nj.Links, LinkJSON{Source: id, Target: p.ID, Value: 1})
			}
		}
	}

	st.TotalConnections = len(nj.Links)
	nj.Statistics = &st
	return nj
}

func idset(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// heaviest - node ids by weighted degree descending, then paper count descending, then id
func heaviest(g *str.AuthorGraph, wd map[string]int, n int) []string {
	ids := g.SortedNodeIDs()
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if wd[a] != wd[b] {
			return wd[a] > wd[b]
		}
		return g.Nodes[a].PaperCount > g.Nodes[b].PaperCount
	})
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// links - edges among the kept nodes, heaviest first
func links(g *str.AuthorGraph, kept map[string]bool, n int) []LinkJSON {
	ll := []LinkJSON{}
	for _, e := range g.SortedEdges() {
		if kept[e.AuthorA] && kept[e.AuthorB] {
			ll = append(ll, LinkJSON{Source: e.AuthorA, Target: e.AuthorB, Value: e.SharedPaperCount})
		}
	}
	sort.SliceStable(ll, func(i, j int) bool { return ll[i].Value > ll[j].Value })
	if n > 0 && len(ll) > n {
		ll = ll[:n]
	}
	return ll
}
