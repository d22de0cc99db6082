// Package report renders corpus statistics: a text summary for the terminal
// and bar charts of the label and character distributions.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nicksexton/emojitranslate/datasets"
)

// ErrNoData is returned when a chart would have no bars.
var ErrNoData = errors.New("report: nothing to plot")

// WriteSummary writes the dataset overview followed by the top labels by
// count. top <= 0 lists every label.
func WriteSummary(w io.Writer, st datasets.Stats, top int) {
	overview := tablewriter.NewWriter(w)
	overview.SetHeader([]string{"Metric", "Value"})
	overview.SetAlignment(tablewriter.ALIGN_LEFT)
	overview.SetBorder(false)
	overview.AppendBulk([][]string{
		{"records", strconv.Itoa(st.Records)},
		{"labels", strconv.Itoa(len(st.Labels))},
		{"distinct chars", strconv.Itoa(len(st.Chars))},
		{"max length", strconv.Itoa(st.MaxLength)},
		{"mean length", strconv.FormatFloat(st.MeanLength, 'f', 1, 64)},
		{"truncated", strconv.Itoa(st.Truncated)},
	})
	overview.Render()

	labels := tablewriter.NewWriter(w)
	labels.SetHeader([]string{"Label", "Count", "Share"})
	labels.SetAlignment(tablewriter.ALIGN_LEFT)
	labels.SetBorder(false)
	for _, c := range head(st.Labels, top) {
		labels.Append([]string{c.Symbol, strconv.Itoa(c.N), share(c.N, st.Records)})
	}
	labels.Render()
}

func share(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}

func head[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[:n]
}

// PlotLabels saves a bar chart of the top label counts to path. The image
// format follows the file extension.
func PlotLabels(path string, st datasets.Stats, top int) error {
	counts := head(st.Labels, top)
	names := lo.Map(counts, func(c datasets.Count[string], _ int) string { return c.Symbol })
	values := lo.Map(counts, func(c datasets.Count[string], _ int) float64 { return float64(c.N) })
	return barChart(path, "Tweets per label", "label", names, values, color.RGBA{R: 20, G: 80, B: 200, A: 220})
}

// PlotChars saves a bar chart of the top character counts to path. Space is
// drawn as "␠" and newline as "⏎".
func PlotChars(path string, st datasets.Stats, top int) error {
	counts := head(st.Chars, top)
	names := lo.Map(counts, func(c datasets.Count[rune], _ int) string { return charName(c.Symbol) })
	values := lo.Map(counts, func(c datasets.Count[rune], _ int) float64 { return float64(c.N) })
	return barChart(path, "Character frequency", "character", names, values, color.RGBA{R: 200, G: 30, B: 30, A: 200})
}

func charName(r rune) string {
	switch r {
	case ' ':
		return "␠"
	case '\n':
		return "⏎"
	default:
		return string(r)
	}
}

func barChart(path, title, xlabel string, names []string, values []float64, col color.Color) error {
	if len(values) == 0 {
		return ErrNoData
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(12))
	if err != nil {
		return err
	}
	bars.Color = col
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalX(names...)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	width := max(8*vg.Inch, vg.Length(len(values))*vg.Points(16))
	if err := p.Save(width, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
