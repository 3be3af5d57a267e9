//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/db"
	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/lnch"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vec"
	"github.com/e-gun/PaperScopeServer/internal/vlt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samelemm struct{}

func (samelemm) Lemma(w string) string { return w }

var (
	networkwords = []string{"graph", "node", "edge", "network", "community", "centrality"}
	biologywords = []string{"protein", "gene", "cell", "sequence", "genome", "molecule"}
)

func testconfig() str.CurrentConfiguration {
	c := *lnch.BuildDefaultConfig()
	c.StoreDriver = "memory"
	c.LdaTopics = 2
	c.LdaIterations = 60
	c.LdaPasses = 30
	c.LdaMinDocs = 5
	c.LdaKeywords = 5
	c.CloudWidth = 300
	c.CloudHeight = 150
	c.CloudMaxWords = 20
	c.WorkerCount = 2
	return c
}

func testengine(t *testing.T) *Engine {
	prep, err := vec.NewPreprocessor(vec.PrepOptions{Lemm: samelemm{}})
	require.NoError(t, err)
	e, err := NewEngine(testconfig(), db.NewMemStore(), prep)
	require.NoError(t, err)
	return e
}

func paper(i int, year int, authors ...string) *str.Document {
	theme := networkwords
	if i%2 == 1 {
		theme = biologywords
	}
	var sb strings.Builder
	for j := 0; j < 15; j++ {
		sb.WriteString(theme[(i+j)%len(theme)])
		sb.WriteString(" ")
	}
	title := fmt.Sprintf("Paper %d of %d", i, year)
	return &str.Document{
		ID:      db.DocumentID(title, year, authors),
		Title:   title,
		Authors: authors,
		Year:    year,
		RawText: sb.String(),
	}
}

func testcorpus() []*str.Document {
	var dd []*str.Document
	for i := 0; i < 12; i++ {
		dd = append(dd, paper(i, 2024, "Ada Lovelace", fmt.Sprintf("Author %d", i%3)))
	}
	for i := 0; i < 6; i++ {
		dd = append(dd, paper(i, 2025, "Charles Babbage", "Ada Lovelace"))
	}
	dd = append(dd, paper(0, 2023, "Mary Somerville"), paper(1, 2023, "Mary Somerville", "John Herschel"))
	return dd
}

func loaded(t *testing.T) *Engine {
	e := testengine(t)
	ctx := context.Background()
	require.NoError(t, e.Ingest(ctx, testcorpus()))
	require.NoError(t, e.FitAll(ctx))
	return e
}

func TestIngestAndFitAll(t *testing.T) {
	e := loaded(t)

	assert.Equal(t, []string{"2024", "2025"}, e.Models.Groups())
	st, ok := e.Models.Status("2023")
	require.True(t, ok)
	assert.Equal(t, vlt.StatusInsufficient, st.Status)

	ov, err := e.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, ov.TotalDocuments)
	assert.Equal(t, 4, ov.TotalTopics)
	assert.Equal(t, 7, ov.TotalAuthors)
	assert.Greater(t, ov.TotalConnections, 0)
}

func TestFitGroupInsufficient(t *testing.T) {
	e := testengine(t)
	require.NoError(t, e.Ingest(context.Background(), testcorpus()))
	_, err := e.FitGroup(context.Background(), "2023")
	assert.True(t, errs.IsKind(err, errs.InsufficientData))
	_, err = e.FitGroup(context.Background(), "1999")
	assert.True(t, errs.IsKind(err, errs.NotFound))
}

func TestFitTimeoutIsAModelFitFailure(t *testing.T) {
	e := testengine(t)
	ctx := context.Background()
	require.NoError(t, e.Ingest(ctx, testcorpus()))
	e.fitlimit = time.Nanosecond

	_, err := e.FitGroup(ctx, "2024")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.ModelFit), err.Error())
	assert.False(t, errs.IsKind(err, errs.Cancelled))
	assert.Contains(t, err.Error(), "took longer than")

	st, ok := e.Models.Status("2024")
	require.True(t, ok)
	assert.Equal(t, vlt.StatusFailed, st.Status)

	// one group running out of time does not cancel the others: every group is tried and reported
	err = e.FitAll(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.ModelFit))
	for _, g := range []string{"2024", "2025"} {
		st, ok = e.Models.Status(g)
		require.True(t, ok, g)
		assert.Equal(t, vlt.StatusFailed, st.Status, g)
	}
}

func TestFitAllStopsWhenCancelled(t *testing.T) {
	e := testengine(t)
	require.NoError(t, e.Ingest(context.Background(), testcorpus()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.FitAll(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Cancelled))
}

func TestConcurrentSameGroupFits(t *testing.T) {
	e := testengine(t)
	require.NoError(t, e.Ingest(context.Background(), testcorpus()))

	var wg sync.WaitGroup
	models := make([]*str.TopicModel, 4)
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tm, err := e.FitGroup(context.Background(), "2024")
			assert.NoError(t, err)
			models[i] = tm
		}(i)
	}
	wg.Wait()

	cur, ok := e.Models.Get("2024")
	require.True(t, ok)
	assert.Equal(t, 2, cur.NumTopics())
	for _, tm := range models {
		require.NotNil(t, tm)
		assert.LessOrEqual(t, tm.Generation, cur.Generation)
	}
}

func TestViews(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	rows, err := e.DocumentRows(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 20)
	for _, r := range rows {
		if r.PublicationYear == 2023 {
			assert.Empty(t, r.Topics)
		} else {
			assert.NotEmpty(t, r.Topics)
			assert.LessOrEqual(t, strings.Count(r.Topics, " | "), 2)
		}
	}

	rows, err = e.DocumentRows(ctx, "2025", "paper 3")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Paper 3 of 2025", rows[0].Title)

	gt, err := e.GroupTopicCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []GroupTopics{{"2023", 0, 2}, {"2024", 2, 12}, {"2025", 2, 6}}, gt)

	detail, err := e.GroupTopicDetail(ctx, "2024")
	require.NoError(t, err)
	require.Len(t, detail, 2)
	var assigned int
	for _, te := range detail {
		assert.True(t, strings.HasPrefix(te.Topic, "Topic "))
		assigned += len(te.Documents)
	}
	assert.Equal(t, 12, assigned)

	_, err = e.GroupTopicDetail(ctx, "2023")
	assert.True(t, errs.IsKind(err, errs.NotFound))

	tr := e.Trending()
	require.Len(t, tr, 2)
	assert.LessOrEqual(t, len(tr[0].Topics), 5)

	tc := e.TopicCounts()
	assert.Equal(t, []TopicCount{{"2024", 2, 12}, {"2025", 2, 6}}, tc)
}

func TestAuthorNetworkViews(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	full, err := e.AuthorNetwork(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, full.Nodes, 7)

	ego, err := e.AuthorNetwork(ctx, "charles babbage", true)
	require.NoError(t, err)
	var papers int
	for _, n := range ego.Nodes {
		if n.Group == "paper" {
			papers++
		}
	}
	assert.Equal(t, 6, papers)

	none, err := e.AuthorNetwork(ctx, "Nobody Atall", true)
	require.NoError(t, err)
	assert.Empty(t, none.Nodes)
	assert.Empty(t, none.Links)

	ns := e.NetworkStatistics()
	assert.Equal(t, 7, ns.Nodes)
	assert.InDelta(t, 2*float64(ns.Edges)/7, ns.AverageDegree, 1e-12)

	html, err := e.AuthorChart(ctx, "Ada Lovelace")
	require.NoError(t, err)
	assert.Contains(t, html, "Co-authors of Ada Lovelace")
}

func TestAnalyse(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	empty, err := e.Analyse(ctx, "empty.txt", "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.PreprocessingOutputs.WordCount)
	assert.NotNil(t, empty.TopicSimilarity)
	assert.Empty(t, empty.TopicSimilarity)
	assert.NotNil(t, empty.SimilarDocuments)
	assert.Empty(t, empty.SimilarDocuments)

	an, err := e.Analyse(ctx, "new.txt", "graph node edge network community graph node", "")
	require.NoError(t, err)
	assert.Equal(t, 7, an.PreprocessingOutputs.WordCount)
	assert.Equal(t, 5, an.PreprocessingOutputs.UniqueWords)
	assert.LessOrEqual(t, len(an.TopicSimilarity), 10)
	assert.LessOrEqual(t, len(an.SimilarDocuments), 10)
	require.NotEmpty(t, an.SimilarDocuments)

	again, err := e.Analyse(ctx, "new.txt", "graph node edge network community graph node", "")
	require.NoError(t, err)
	assert.Equal(t, an.SimilarDocuments, again.SimilarDocuments)

	one, err := e.Analyse(ctx, "new.txt", "gene cell protein", "2025")
	require.NoError(t, err)
	for _, ts := range one.TopicSimilarity {
		assert.Equal(t, "2025", ts.YearGroup)
	}

	_, err = e.Analyse(ctx, "new.txt", "gene", "1999")
	assert.True(t, errs.IsKind(err, errs.NotFound))

	up, err := e.AnalyseUpload(ctx, "blob.txt", []byte("protein genome molecule"), "")
	require.NoError(t, err)
	assert.Equal(t, 3, up.PreprocessingOutputs.WordCount)
}

func TestAnalyseBeforeAnyFit(t *testing.T) {
	e := testengine(t)
	ctx := context.Background()
	require.NoError(t, e.Ingest(ctx, testcorpus()))

	_, err := e.Analyse(ctx, "new.txt", "graph node edge network community", "")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.NotFound))

	// no tokens is still an empty success
	an, err := e.Analyse(ctx, "empty.txt", "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, an.PreprocessingOutputs.WordCount)
	assert.Empty(t, an.TopicSimilarity)
}

func TestWordCloud(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	_, err := e.WordCloud(ctx, "c", "2023", "", "")
	assert.True(t, errs.IsKind(err, errs.NotFound))

	_, err = e.WordCloud(ctx, "c", "2024", "bogus", "")
	assert.True(t, errs.IsKind(err, errs.Validation))

	b, err := e.WordCloud(ctx, "c", "2024", "", "")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 1, e.Images.Len())

	again, err := e.WordCloud(ctx, "c", "2024", "", "")
	require.NoError(t, err)
	assert.Equal(t, b, again)
	assert.Equal(t, 1, e.Images.Len())

	html, err := e.WordCloud(ctx, "c", "2024", CloudFromTokens, CloudHTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Word cloud for 2024")
}

func TestWordCloudCancelledBeforeCacheHit(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	_, err := e.WordCloud(ctx, "c", "2024", "", "")
	require.NoError(t, err)
	require.Equal(t, 1, e.Images.Len())

	gone, cancel := context.WithCancel(ctx)
	cancel()
	b, err := e.WordCloud(gone, "c", "2024", "", "")
	assert.Nil(t, b)
	assert.True(t, errs.IsKind(err, errs.Cancelled))
}

func TestWordCloudWholeCorpus(t *testing.T) {
	empty := testengine(t)
	_, err := empty.WordCloud(context.Background(), "c", "", "", "")
	assert.True(t, errs.IsKind(err, errs.NotFound))

	e := loaded(t)
	ctx := context.Background()

	b, err := e.WordCloud(ctx, "c", "", "", "")
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(b))
	require.NoError(t, err)

	html, err := e.WordCloud(ctx, "c", "", CloudFromTokens, CloudHTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Word cloud for the whole corpus")
	// words from a group too small to fit still count
	assert.Contains(t, string(html), "protein")

	_, err = e.WordCloud(ctx, "c", "", CloudFromModel, "")
	assert.True(t, errs.IsKind(err, errs.Validation))

	// new documents mean a new graph generation and so a fresh cloud
	n := e.Images.Len()
	require.NoError(t, e.Ingest(ctx, []*str.Document{paper(99, 2026, "Emmy Noether")}))
	_, err = e.WordCloud(ctx, "c", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, n+1, e.Images.Len())
}

func TestWordCloudLastRequestedWins(t *testing.T) {
	e := loaded(t)
	ctx := context.Background()

	// a render for 2024 is outstanding when the same client asks for 2025
	ctx2024, done2024 := e.Renders.Begin(ctx, "client", "2024")
	defer done2024()

	b, err := e.WordCloud(ctx, "client", "2025", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.ErrorIs(t, ctx2024.Err(), context.Canceled)

	_, err = e.WordCloud(ctx2024, "client", "2024", "", "")
	assert.True(t, errs.IsKind(err, errs.Cancelled))
}

func TestPrepareRegroups(t *testing.T) {
	e := testengine(t)
	ctx := context.Background()
	require.NoError(t, e.Ingest(ctx, testcorpus()))

	grp, err := db.NewGrouper("bucket:5")
	require.NoError(t, err)
	e.Grouper = grp
	require.NoError(t, e.Prepare(ctx))

	groups, err := e.Store.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2020-2024", "2025-2029"}, groups)
}

func TestRefitAsync(t *testing.T) {
	e := loaded(t)
	ms, err := e.RefitAsync(context.Background(), "2024")
	require.NoError(t, err)
	assert.Equal(t, "2024", ms.Group)

	_, err = e.RefitAsync(context.Background(), "1999")
	assert.True(t, errs.IsKind(err, errs.NotFound))
}
