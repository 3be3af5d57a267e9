//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package coauth

import (
	"fmt"
	"math"

	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart - the network as a standalone echarts force-layout page
func RenderChart(nj NetworkJSON, title string) (string, error) {
	g := generategraph(nj, title)
	return gen.RenderChartPage(title, g)
}

// see also: https://echarts.apache.org/en/option.html#series-graph
func generategraph(nj NetworkJSON, title string) *charts.Graph {
	const (
		REPULSION     = 4000
		GRAVITY       = .12
		EDGELEN       = 60
		SERIESNAME    = ""
		LAYOUTTYPE    = "force"
		LABELPOSITON  = "right"
		LINECURVINESS = 0
		LINETYPE      = "solid"
		SYMMIN        = 6.0
		SYMMAX        = 40.0
		PAPERSYM      = 5
	)

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: vv.DEFAULTCHRTWIDTH, Height: vv.DEFAULTCHRTHEIGHT}),
		charts.WithTitleOpts(opts.Title{Title: title, Left: "20", Bottom: "3%"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show:   true,
			Orient: "vertical",
			Left:   "20",
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: true, Type: "png", Name: title, Title: "Save to file..."},
			},
		}),
	)

	// bubble size follows weighted degree
	var maxw int
	for _, n := range nj.Nodes {
		if n.Weight > maxw {
			maxw = n.Weight
		}
	}
	size := func(w int) float64 {
		if maxw == 0 {
			return SYMMIN
		}
		return math.Round(SYMMIN + (SYMMAX-SYMMIN)*float64(w)/float64(maxw))
	}

	// echarts links refer to node names, not ids
	names := make(map[string]string, len(nj.Nodes))
	var gnn []opts.GraphNode
	for _, n := range nj.Nodes {
		sym := size(n.Weight)
		nm := n.Name
		if n.Group == GROUPPAPER {
			sym = PAPERSYM
			nm = fmt.Sprintf("%s (%d)", n.Name, n.Year)
		}
		names[n.ID] = nm
		gnn = append(gnn, opts.GraphNode{
			Name:       nm,
			Value:      float32(n.PaperCount),
			SymbolSize: sym,
			ItemStyle:  &opts.ItemStyle{Color: groupcolour(n.Group)},
		})
	}

	var gll []opts.GraphLink
	for _, l := range nj.Links {
		gll = append(gll, opts.GraphLink{Source: names[l.Source], Target: names[l.Target], Value: float32(l.Value)})
	}

	graph.AddSeries(SERIESNAME, gnn, gll,
		charts.WithLabelOpts(opts.Label{Show: true, Position: LABELPOSITON}),
		charts.WithLineStyleOpts(opts.LineStyle{Curveness: LINECURVINESS, Type: LINETYPE}),
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:             LAYOUTTYPE,
			Force:              &opts.GraphForce{Repulsion: REPULSION, Gravity: GRAVITY, EdgeLength: EDGELEN},
			Roam:               true,
			FocusNodeAdjacency: true,
		}),
	)
	return graph
}

var palette = []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4", "#ea7ccc"}

func groupcolour(grp string) string {
	switch grp {
	case GROUPAUTHOR:
		return "#c23531"
	case GROUPCOAUTHOR:
		return "#2f4554"
	case GROUPPAPER:
		return "#bda29a"
	case "":
		return palette[0]
	}
	var c int
	if _, err := fmt.Sscanf(grp, "%d", &c); err != nil {
		return palette[0]
	}
	return palette[c%len(palette)]
}
