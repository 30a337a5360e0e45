package viz

import (
	"fmt"
	"strings"
)

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	sw, sh := canvas.SubSize()
	width := float64(sw) * scale
	height := float64(sh) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g fill="#000000">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// AngleTraceToSVG plots the rod angle against time as a single path.
func AngleTraceToSVG(times, angles []float64, width, height int, strokeColor string) string {
	n := len(angles)
	if len(times) < n {
		n = len(times)
	}
	if n < 2 {
		return ""
	}

	minT, maxT := times[0], times[n-1]
	minA, maxA := angles[0], angles[0]
	for _, a := range angles[:n] {
		if a < minA {
			minA = a
		}
		if a > maxA {
			maxA = a
		}
	}

	rangeT := maxT - minT
	rangeA := maxA - minA
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeA == 0 {
		rangeA = 1
	}
	minA -= rangeA * 0.1
	rangeA *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minT) / rangeT * float64(width)
		y := float64(height) - (angles[i]-minA)/rangeA*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
