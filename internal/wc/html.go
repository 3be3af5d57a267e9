//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package wc

import (
	"fmt"
	"math"

	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML - the same words as an interactive echarts word cloud
func RenderHTML(group string, words []str.Keyword, o Options) (string, error) {
	const (
		TITLESTR = "Word cloud for %s"
		SHAPE    = "circle"
		SCALE    = 10000
	)

	cloud := charts.NewWordCloud()
	cloud.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: fmt.Sprintf("%dpx", o.Width), Height: fmt.Sprintf("%dpx", o.Height)}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf(TITLESTR, group)}),
	)

	if o.MaxWords > 0 && len(words) > o.MaxWords {
		words = words[:o.MaxWords]
	}

	var wcd []opts.WordCloudData
	for _, kw := range words {
		// echarts sizes by value; integer values keep the tooltips readable
		wcd = append(wcd, opts.WordCloudData{Name: kw.Word, Value: math.Round(kw.Weight * SCALE)})
	}

	cloud.AddSeries(group, wcd).
		SetSeriesOptions(
			charts.WithWorldCloudChartOpts(
				opts.WordCloudChart{
					Shape:     SHAPE,
					SizeRange: []float32{float32(o.MinFont), float32(o.MaxFont)},
				}),
		)

	return gen.RenderChartPage(fmt.Sprintf(TITLESTR, group), cloud)
}
