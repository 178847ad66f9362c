package devapi

import (
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/YoanAncelly/gtfs-viewer/internal/feed"
)

const (
	chartWidth  = 800
	chartHeight = 480
	chartMargin = 60
	chartBins   = 20
)

type ChartLabels struct {
	Title  string
	XLabel string
	YLabel string
}

var DelayChartLabels = ChartLabels{
	Title:  "Distribution des retards",
	XLabel: "Retard (minutes)",
	YLabel: "Nombre de mises à jour",
}

// WriteDelayChart draws a histogram of delays as SVG, with a dashed line
// marking zero when it falls inside the range.
func WriteDelayChart(out io.Writer, delays []float64, labels ChartLabels) error {
	bins := feed.Histogram(delays, chartBins)

	plotWidth := float64(chartWidth - 2*chartMargin)
	plotHeight := float64(chartHeight - 2*chartMargin)
	bottom := float64(chartHeight - chartMargin)

	w := &svgWriter{out: out}
	w.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		chartWidth, chartHeight, chartWidth, chartHeight)
	w.printf(`<rect width="100%%" height="100%%" fill="white"/>` + "\n")
	w.printf(`<text x="%d" y="%d" text-anchor="middle" font-size="18">%s</text>`+"\n",
		chartWidth/2, chartMargin/2, html.EscapeString(labels.Title))

	if len(bins) > 0 {
		tallest := 0
		for _, bin := range bins {
			tallest = max(tallest, bin.Count)
		}

		low, high := bins[0].Low, bins[len(bins)-1].High
		barWidth := plotWidth / float64(len(bins))
		for i, bin := range bins {
			height := plotHeight * float64(bin.Count) / float64(tallest)
			w.printf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="steelblue" fill-opacity="0.7"><title>%d</title></rect>`+"\n",
				chartMargin+float64(i)*barWidth, bottom-height, barWidth-1, height, bin.Count)
		}

		if low < 0 && high > 0 {
			zero := chartMargin + plotWidth*(-low)/(high-low)
			w.printf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%.1f" stroke="red" stroke-dasharray="6 4"/>`+"\n",
				zero, chartMargin, zero, bottom)
		}

		w.printf(`<text x="%d" y="%.1f" font-size="12">%s</text>`+"\n", chartMargin, bottom+18, formatTick(low))
		w.printf(`<text x="%d" y="%.1f" text-anchor="end" font-size="12">%s</text>`+"\n",
			chartWidth-chartMargin, bottom+18, formatTick(high))
		w.printf(`<text x="%d" y="%d" text-anchor="end" font-size="12">%d</text>`+"\n",
			chartMargin-6, chartMargin+12, tallest)
	}

	w.printf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="black"/>`+"\n",
		chartMargin, bottom, chartWidth-chartMargin, bottom)
	w.printf(`<line x1="%d" y1="%d" x2="%d" y2="%.1f" stroke="black"/>`+"\n",
		chartMargin, chartMargin, chartMargin, bottom)
	w.printf(`<text x="%d" y="%d" text-anchor="middle" font-size="14">%s</text>`+"\n",
		chartWidth/2, chartHeight-15, html.EscapeString(labels.XLabel))
	w.printf(`<text x="20" y="%d" text-anchor="middle" font-size="14" transform="rotate(-90 20 %d)">%s</text>`+"\n",
		chartHeight/2, chartHeight/2, html.EscapeString(labels.YLabel))
	w.printf("</svg>\n")

	return w.err
}

func formatTick(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}

// svgWriter remembers the first write error.
type svgWriter struct {
	out io.Writer
	err error
}

func (w *svgWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}
