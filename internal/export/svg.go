// Package export renders stored run series to standalone SVG files.
package export

import (
	"fmt"
	"strings"
)

// Series is one named curve over the shared time axis.
type Series struct {
	Name   string
	Values []float64
}

// palette cycles per series, matching the terminal plot ordering.
var palette = []string{"#00d7d7", "#d7af00", "#5faf5f", "#d75f5f", "#af87ff", "#d7d7d7"}

const (
	marginLeft   = 56.0
	marginRight  = 16.0
	marginTop    = 20.0
	marginBottom = 36.0
)

// SeriesToSVG plots the series against times as polylines with a framed
// plot area and min/max/time tick labels. Series shorter than times are
// truncated to the overlap.
func SeriesToSVG(times []float64, series []Series, width, height int, title string) string {
	if len(times) < 2 || len(series) == 0 {
		return ""
	}

	lo, hi := seriesBounds(times, series)
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	lo -= pad
	hi += pad

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom
	t0, t1 := times[0], times[len(times)-1]

	toX := func(t float64) float64 {
		return marginLeft + (t-t0)/(t1-t0)*plotW
	}
	toY := func(v float64) float64 {
		return marginTop + (1-(v-lo)/(hi-lo))*plotH
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="11">
<rect width="100%%" height="100%%" fill="#101014"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#3a3a44"/>
`, width, height, width, height, marginLeft, marginTop, plotW, plotH)

	if title != "" {
		fmt.Fprintf(&sb, `<text x="%.1f" y="14" fill="#d7d7d7">%s</text>
`, marginLeft, title)
	}

	// Axis labels: value range on the left, time range along the bottom.
	fmt.Fprintf(&sb, `<text x="4" y="%.1f" fill="#878787">%.3g</text>
<text x="4" y="%.1f" fill="#878787">%.3g</text>
<text x="%.1f" y="%.1f" fill="#878787">%.2fs</text>
<text x="%.1f" y="%.1f" fill="#878787" text-anchor="end">%.2fs</text>
`, marginTop+10, hi, marginTop+plotH, lo,
		marginLeft, float64(height)-12, t0,
		marginLeft+plotW, float64(height)-12, t1)

	for i, sr := range series {
		n := len(sr.Values)
		if n > len(times) {
			n = len(times)
		}
		if n < 2 {
			continue
		}
		color := palette[i%len(palette)]

		sb.WriteString(`<polyline fill="none" stroke="` + color + `" stroke-width="1.5" points="`)
		for j := 0; j < n; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", toX(times[j]), toY(sr.Values[j]))
		}
		sb.WriteString("\"/>\n")

		// Legend entry stacked under the title.
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, marginLeft+plotW-140, marginTop+14+float64(i)*14, color, sr.Name)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func seriesBounds(times []float64, series []Series) (lo, hi float64) {
	first := true
	for _, sr := range series {
		n := len(sr.Values)
		if n > len(times) {
			n = len(times)
		}
		for _, v := range sr.Values[:n] {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
