//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/coauth"
	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/lda"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
)

//
// READ MODELS FOR THE JSON API
//

type DocumentRow struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	PublicationYear int      `json:"publicationYear"`
	Topics          string   `json:"topics"`
}

type Overview struct {
	TotalDocuments   int `json:"total_documents"`
	TotalTopics      int `json:"total_topics"`
	TotalAuthors     int `json:"total_authors"`
	TotalConnections int `json:"total_connections"`
}

type GroupTopics struct {
	GroupName      string `json:"group_name"`
	Topics         int    `json:"topics"`
	TotalDocuments int    `json:"total_documents"`
}

type TopicDocument struct {
	Title      string  `json:"title"`
	Confidence float64 `json:"confidence"`
}

type TopicEntry struct {
	Topic     string          `json:"topic"`
	Documents []TopicDocument `json:"documents"`
	Coherence float64         `json:"coherence"`
}

type TrendingTopic struct {
	TopicID       int           `json:"topic_id"`
	DocumentCount int           `json:"document_count"`
	Keywords      []str.Keyword `json:"keywords"`
}

type TrendingGroup struct {
	Group  string          `json:"group"`
	Topics []TrendingTopic `json:"topics"`
}

type TopicCount struct {
	Group         string `json:"group"`
	TopicCount    int    `json:"topic_count"`
	DocumentCount int    `json:"document_count"`
}

type CentralAuthorJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Degree      float64 `json:"degree_centrality"`
	Betweenness float64 `json:"betweenness"`
}

type NetworkStatistics struct {
	Nodes         int                 `json:"nodes"`
	Edges         int                 `json:"edges"`
	Communities   int                 `json:"communities"`
	AverageDegree float64             `json:"average_degree"`
	Density       float64             `json:"density"`
	Components    int                 `json:"components"`
	Modularity    float64             `json:"modularity"`
	TopAuthors    []CentralAuthorJSON `json:"top_authors"`
}

// TopicString - "w1, w2, w3, w4, w5 (0.42) | ..." for the document's strongest topics; "" if its group has no model
func TopicString(tm *str.TopicModel, docid string) string {
	if tm == nil {
		return ""
	}
	dist, ok := tm.Theta[docid]
	if !ok {
		return ""
	}
	var parts []string
	for i, k := range lda.RankTopics(dist) {
		if i >= vv.TOPSTRINGTOPICS {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%.2f)", strings.Join(tm.Topics[k].Words(vv.TOPSTRINGWORDS), ", "), dist[k]))
	}
	return strings.Join(parts, " | ")
}

// DocumentRows - optionally restricted to a group and to titles containing q (case-insensitive)
func (e *Engine) DocumentRows(ctx context.Context, group string, q string) ([]DocumentRow, error) {
	var docs []*str.Document
	var err error
	if group != "" {
		docs, err = e.Store.ByGroup(ctx, group)
	} else {
		docs, err = e.Store.All(ctx)
	}
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(strings.TrimSpace(q))
	rows := make([]DocumentRow, 0, len(docs))
	for _, d := range docs {
		if q != "" && !strings.Contains(strings.ToLower(d.Title), q) {
			continue
		}
		tm, _ := e.Models.Get(d.GroupKey)
		rows = append(rows, DocumentRow{Title: d.Title, Authors: d.Authors, PublicationYear: d.Year, Topics: TopicString(tm, d.ID)})
	}
	return rows, nil
}

func (e *Engine) Overview(ctx context.Context) (Overview, error) {
	n, err := e.Store.Count(ctx)
	if err != nil {
		return Overview{}, err
	}
	var topics int
	for _, tm := range e.Models.All() {
		topics += tm.NumTopics()
	}
	gs := e.Graphs.Load()
	return Overview{
		TotalDocuments:   n,
		TotalTopics:      topics,
		TotalAuthors:     gs.Stats.Nodes,
		TotalConnections: gs.Stats.Edges,
	}, nil
}

// GroupTopicCounts - every group in the store; groups without a model report 0 topics
func (e *Engine) GroupTopicCounts(ctx context.Context) ([]GroupTopics, error) {
	groups, err := e.Store.Groups(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GroupTopics, 0, len(groups))
	for _, g := range groups {
		docs, derr := e.Store.ByGroup(ctx, g)
		if derr != nil {
			return nil, derr
		}
		gt := GroupTopics{GroupName: g, TotalDocuments: len(docs)}
		if tm, ok := e.Models.Get(g); ok {
			gt.Topics = tm.NumTopics()
		}
		out = append(out, gt)
	}
	return out, nil
}

// GroupTopicDetail - each topic of the group with the documents it dominates, most confident first
func (e *Engine) GroupTopicDetail(ctx context.Context, group string) ([]TopicEntry, error) {
	const (
		OP   = "GroupTopicDetail"
		FAIL = "no topic model for group '%s'"
	)
	tm, ok := e.Models.Get(group)
	if !ok {
		return nil, errs.NewNotFound(OP, FAIL, group)
	}
	docs, err := e.Store.ByGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(docs))
	for _, d := range docs {
		titles[d.ID] = d.Title
	}

	out := make([]TopicEntry, 0, tm.NumTopics())
	for _, tp := range tm.Topics {
		te := TopicEntry{Topic: tp.Label(vv.TOPICLABELWORDS), Documents: []TopicDocument{}, Coherence: tp.Coherence}
		for _, id := range tm.DocIDs {
			a := tm.Assigned[id]
			if a.TopicID != tp.ID {
				continue
			}
			t, known := titles[id]
			if !known {
				continue
			}
			te.Documents = append(te.Documents, TopicDocument{Title: t, Confidence: a.Confidence})
		}
		sort.SliceStable(te.Documents, func(i, j int) bool {
			if te.Documents[i].Confidence != te.Documents[j].Confidence {
				return te.Documents[i].Confidence > te.Documents[j].Confidence
			}
			return te.Documents[i].Title < te.Documents[j].Title
		})
		out = append(out, te)
	}
	return out, nil
}

// Trending - per group, the topics that dominate the most documents
func (e *Engine) Trending() []TrendingGroup {
	out := []TrendingGroup{}
	for _, tm := range e.Models.All() {
		tt := make([]TrendingTopic, 0, tm.NumTopics())
		for _, tp := range tm.Topics {
			tt = append(tt, TrendingTopic{TopicID: tp.ID, DocumentCount: tm.DominantCount(tp.ID), Keywords: tp.Keywords})
		}
		sort.SliceStable(tt, func(i, j int) bool { return tt[i].DocumentCount > tt[j].DocumentCount })
		if len(tt) > vv.TRENDINGPERGROUP {
			tt = tt[:vv.TRENDINGPERGROUP]
		}
		out = append(out, TrendingGroup{Group: tm.GroupKey, Topics: tt})
	}
	return out
}

func (e *Engine) TopicCounts() []TopicCount {
	out := []TopicCount{}
	for _, tm := range e.Models.All() {
		out = append(out, TopicCount{Group: tm.GroupKey, TopicCount: tm.NumTopics(), DocumentCount: len(tm.DocIDs)})
	}
	return out
}

func (e *Engine) NetworkStatistics() NetworkStatistics {
	st := e.Graphs.Load().Stats
	ns := NetworkStatistics{
		Nodes:         st.Nodes,
		Edges:         st.Edges,
		Communities:   st.Communities,
		AverageDegree: st.AverageDegree,
		Density:       st.Density,
		Components:    st.Components,
		Modularity:    st.Modularity,
		TopAuthors:    []CentralAuthorJSON{},
	}
	for _, ca := range st.TopAuthors {
		ns.TopAuthors = append(ns.TopAuthors, CentralAuthorJSON{ID: ca.ID, Name: ca.Name, Degree: ca.Degree, Betweenness: ca.Betweenness})
	}
	return ns
}

func (e *Engine) viewopts() coauth.ViewOptions {
	return coauth.ViewOptions{MaxNodes: e.Cfg.MaxNodes, MaxLinks: e.Cfg.MaxLinks}
}

// AuthorNetwork - the full graph, or the ego network of the named author; an unknown author is an empty network
func (e *Engine) AuthorNetwork(ctx context.Context, author string, papers bool) (coauth.NetworkJSON, error) {
	gs := e.Graphs.Load()
	if author == "" {
		return coauth.FullView(gs.Graph, gs.Stats.Membership, e.viewopts()), nil
	}

	id := coauth.AuthorID(author)
	ego := coauth.Ego(gs.Graph, id)

	var pp []*str.Document
	if papers && len(ego.Nodes) > 0 {
		all, err := e.Store.All(ctx)
		if err != nil {
			return coauth.NetworkJSON{}, err
		}
		pp = coauth.PapersOf(all, id)
	}

	o := e.viewopts()
	if o.MaxNodes <= 0 || o.MaxNodes > vv.MAXEGONEIGHB+1 {
		o.MaxNodes = vv.MAXEGONEIGHB + 1
	}
	return coauth.EgoView(ego, id, pp, o), nil
}

// AuthorChart - the same network as an html page
func (e *Engine) AuthorChart(ctx context.Context, author string) (string, error) {
	const (
		TITLEALL = "Co-authorship network"
		TITLEONE = "Co-authors of %s"
	)
	nj, err := e.AuthorNetwork(ctx, author, false)
	if err != nil {
		return "", err
	}
	title := TITLEALL
	if author != "" {
		title = fmt.Sprintf(TITLEONE, author)
	}
	html, err := coauth.RenderChart(nj, title)
	if err != nil {
		return "", errs.NewInternal("AuthorChart", err)
	}
	return html, nil
}
