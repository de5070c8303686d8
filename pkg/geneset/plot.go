package geneset

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PlotEnrichmentBar renders the top records as an HTML bar chart keyed by
// term, bar height -log10 of the adjusted p-value. Records are assumed to be
// in Enrich's sort order; topN <= 0 keeps everything.
func PlotEnrichmentBar(w io.Writer, records []EnrichmentRecord, title string, topN int) error {
	if topN > 0 && len(records) > topN {
		records = records[:topN]
	}

	var (
		bar   = charts.NewBar()
		terms []string
		items []opts.BarData
	)
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "-log10(adjusted p-value)",
		}))

	for _, r := range records {
		terms = append(terms, r.Term)
		items = append(items, opts.BarData{Value: negLog10(r.AdjustedP)})
	}

	bar.SetXAxis(terms).AddSeries("-log10(adj.p)", items)
	bar.XYReversal()
	return bar.Render(w)
}

// PlotIntersectionBar renders subset-intersection sizes as an HTML bar chart,
// the approximate layout used for 4-6 sets.
func PlotIntersectionBar(w io.Writer, rows []IntersectionRow, title string) error {
	var (
		bar    = charts.NewBar()
		labels []string
		items  []opts.BarData
	)
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "subset intersection sizes",
		}))

	for _, r := range rows {
		labels = append(labels, r.Label())
		items = append(items, opts.BarData{Value: r.Size})
	}

	bar.SetXAxis(labels).AddSeries("size", items)
	return bar.Render(w)
}

// negLog10 caps at 300 so p=0 stays plottable.
func negLog10(p float64) float64 {
	if p <= 0 {
		return 300
	}
	return math.Min(-math.Log10(p), 300)
}
