//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package wc

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallopts() Options {
	return Options{Width: 400, Height: 200, MaxWords: 30, MinFont: 8, MaxFont: 40}
}

func somewords(n int) []str.Keyword {
	var kw []str.Keyword
	for i := 0; i < n; i++ {
		kw = append(kw, str.Keyword{Word: fmt.Sprintf("word%02d", i), Weight: float64(n - i)})
	}
	return kw
}

func TestRenderPNG(t *testing.T) {
	b, err := Render(context.Background(), somewords(10), smallopts())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestLayoutSizesFollowWeights(t *testing.T) {
	pl, err := Layout(context.Background(), somewords(10), smallopts())
	require.NoError(t, err)
	require.NotEmpty(t, pl)
	assert.Equal(t, "word00", pl[0].Word)
	assert.Equal(t, 40.0, pl[0].Size)
	for i := 1; i < len(pl); i++ {
		assert.LessOrEqual(t, pl[i].Size, pl[i-1].Size)
	}

	again, err := Layout(context.Background(), somewords(10), smallopts())
	require.NoError(t, err)
	assert.Equal(t, pl, again)
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b, err := Render(ctx, somewords(10), smallopts())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, b)
}

func TestMaxWords(t *testing.T) {
	o := smallopts()
	o.MaxWords = 3
	pl, err := Layout(context.Background(), somewords(10), o)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(pl), 3)
}

func TestFromModel(t *testing.T) {
	tm := &str.TopicModel{
		Topics: []str.Topic{
			{ID: 0, Keywords: []str.Keyword{{Word: "graph", Weight: 0.5}, {Word: "node", Weight: 0.3}}},
			{ID: 1, Keywords: []str.Keyword{{Word: "gene", Weight: 0.5}, {Word: "node", Weight: 0.1}}},
		},
		Assigned: map[string]str.Assignment{"a": {TopicID: 0}, "b": {TopicID: 0}, "c": {TopicID: 1}},
	}
	kw := FromModel(tm, 10)
	require.Len(t, kw, 3)
	assert.Equal(t, "graph", kw[0].Word)
	assert.Equal(t, kw, FromModel(tm, 10))
	assert.Len(t, FromModel(tm, 2), 2)
	assert.Empty(t, FromModel(nil, 2))
}

func TestFromTokens(t *testing.T) {
	dd := []*str.Document{{Tokens: []string{"b", "a", "b"}}, {Tokens: []string{"a", "c"}}}
	kw := FromTokens(dd, 10)
	assert.Equal(t, []str.Keyword{{Word: "a", Weight: 2}, {Word: "b", Weight: 2}, {Word: "c", Weight: 1}}, kw)
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("2024", somewords(5), smallopts())
	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "Word cloud for 2024"))
	assert.True(t, strings.Contains(html, "word00"))
}
