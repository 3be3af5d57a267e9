//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package coauth

import (
	"github.com/e-gun/PaperScopeServer/internal/str"
)

//
// CO-AUTHORSHIP GRAPH
//

// Build - the co-authorship graph of the documents; a non-empty egoname restricts it to that author,
// the author's one-hop neighbours, and the edges among them. An unknown ego yields an empty graph.
func Build(docs []*str.Document, egoname string) *str.AuthorGraph {
	g := NewBuilder()
	for _, d := range docs {
		g.Add(d)
	}
	full := g.Graph()
	if egoname == "" {
		return full
	}
	return Ego(full, AuthorID(egoname))
}

// Builder - accumulates documents into a graph
type Builder struct {
	g *str.AuthorGraph
}

func NewBuilder() *Builder {
	return &Builder{g: str.NewAuthorGraph()}
}

// Add - one document: every listed author gains a paper; every unordered pair of authors gains a shared paper
func (b *Builder) Add(d *str.Document) {
	// [a] the distinct authors of this paper, in listing order
	var ids []string
	seen := make(map[string]bool)
	for _, a := range d.Authors {
		id := AuthorID(a)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)

		dn := tidyname(a)
		n, ok := b.g.Nodes[id]
		if !ok {
			n = &str.Author{ID: id, DisplayName: dn}
			b.g.Nodes[id] = n
		} else if dn < n.DisplayName {
			// several spellings map to one id: the smallest wins so that the result is order independent
			n.DisplayName = dn
		}
		n.PaperCount++
	}

	// [b] pairs
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			k := str.EdgeKey(ids[i], ids[j])
			e, ok := b.g.Edges[k]
			if !ok {
				e = &str.CoAuthorship{AuthorA: k[0], AuthorB: k[1]}
				b.g.Edges[k] = e
			}
			e.SharedPaperCount++
		}
	}
}

func (b *Builder) Graph() *str.AuthorGraph {
	return b.g
}

// Ego - the subgraph induced by an author and its neighbours
func Ego(g *str.AuthorGraph, id string) *str.AuthorGraph {
	eg := str.NewAuthorGraph()
	if _, ok := g.Nodes[id]; !ok {
		return eg
	}

	keep := map[string]bool{id: true}
	for _, e := range g.Edges {
		switch id {
		case e.AuthorA:
			keep[e.AuthorB] = true
		case e.AuthorB:
			keep[e.AuthorA] = true
		}
	}

	for k := range keep {
		n := *g.Nodes[k]
		eg.Nodes[k] = &n
	}
	for k, e := range g.Edges {
		if keep[e.AuthorA] && keep[e.AuthorB] {
			ce := *e
			eg.Edges[k] = &ce
		}
	}
	return eg
}

// PapersOf - the documents listing the author, in input order
func PapersOf(docs []*str.Document, id string) []*str.Document {
	var pp []*str.Document
	for _, d := range docs {
		for _, a := range d.Authors {
			if AuthorID(a) == id {
				pp = append(pp, d)
				break
			}
		}
	}
	return pp
}
