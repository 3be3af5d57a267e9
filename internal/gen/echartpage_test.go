//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"testing"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChartPageGraphAndWordCloud(t *testing.T) {
	g := charts.NewGraph()
	g.AddSeries("authors",
		[]opts.GraphNode{{Name: "Ada"}, {Name: "Grace"}},
		[]opts.GraphLink{{Source: "Ada", Target: "Grace"}})

	w := charts.NewWordCloud()
	w.AddSeries("words", []opts.WordCloudData{{Name: "network", Value: 4}, {Name: "graph", Value: 2}})

	for _, ch := range []Chart{g, w} {
		page, err := RenderChartPage("co-authors", ch)
		require.NoError(t, err)
		assert.Contains(t, page, "<title>co-authors</title>")
		assert.Contains(t, page, "echarts.min.js")
		assert.NotContains(t, page, "__f__")
	}
}
