package plot

import (
	"math"
	"strings"

	"github.com/voltmaps/gridviz/pkg/figure"
)

// ObjectivePrefix marks the annotation carrying the optimization objective.
const ObjectivePrefix = "OBJ"

// Trace tuning bounds. Widths and sizes are scaled gently and clamped so the
// result stays legible regardless of how many elements are plotted.
const (
	lineWidthScale   = 1.08
	lineWidthMin     = 0.8
	lineWidthMax     = 2.2
	defaultLineWidth = 1.0

	markerSizeScale   = 1.12
	markerSizeMin     = 6.0
	markerSizeMax     = 18.0
	defaultMarkerSize = 6.0
)

// legendLines is the fixed legend describing the bus color encoding and the
// switched-off-lines caption.
var legendLines = []string{
	"No lines turned off",
	"",
	"<b>Bus colors</b>",
	"Black: generation ≤ 75 & load < 50",
	`<span style="color:#1f77b4">Blue</span>: generation ≤ 75 & load ≥ 50`,
	`<span style="color:#9467bd">Purple</span>: generation > 75`,
	`<span style="color:#ff7f0e">Orange</span>: generation > 150`,
	`<span style="color:#d62728">Red</span>: generation > 500`,
}

// FindObjective returns the text of the first annotation starting with the
// objective marker, trimmed, or "" when none exists.
func FindObjective(fig *figure.Figure) string {
	for _, a := range fig.Annotations {
		text := strings.TrimSpace(a.Text)
		if strings.HasPrefix(text, ObjectivePrefix) {
			return text
		}
	}
	return ""
}

// RestyleAnnotations discards every existing annotation and installs a
// single tidy block in paper coordinates: the objective as a bolded first
// line when objText is non-empty, then the fixed legend. The block is
// anchored to the top-left of the plotting area with a semi-opaque
// background so it stays legible over dense plots.
func RestyleAnnotations(fig *figure.Figure, objText string) {
	fig.Annotations = nil

	var lines []string
	if objText != "" {
		lines = append(lines, "<b>"+objText+"</b>", "")
	}
	lines = append(lines, legendLines...)

	fig.AddAnnotation(figure.Annotation{
		Text:        strings.Join(lines, "<br>"),
		XRef:        "paper",
		YRef:        "paper",
		X:           0.02,
		Y:           0.98,
		XAnchor:     "left",
		YAnchor:     "top",
		ShowArrow:   false,
		Align:       "left",
		BgColor:     "rgba(255,255,255,0.90)",
		BorderColor: "rgba(0,0,0,0.15)",
		BorderWidth: 1,
		BorderPad:   6,
		Font:        figure.Font{Size: 16, Color: "black"},
	})
}

// TuneTraces rescales line widths and marker sizes within bounded ranges.
// Malformed or missing values (NaN, infinite, non-positive, unset) are
// replaced by a fixed default before scaling, so this never fails a figure.
func TuneTraces(fig *figure.Figure) {
	for _, tr := range fig.Traces {
		if tr.Mode.HasLines() {
			tr.Line.Width = clampScale(tr.Line.Width, lineWidthScale, lineWidthMin, lineWidthMax, defaultLineWidth)
		}
		if tr.Mode.HasMarkers() {
			tr.Marker.Size = tuneSize(tr.Marker.Size)
		}
	}
}

// tuneSize applies the marker transform to either shape of the size union.
func tuneSize(size figure.MarkerSize) figure.MarkerSize {
	if seq, ok := size.Sequence(); ok {
		out := make([]float64, len(seq))
		for i, v := range seq {
			out[i] = clampScale(v, markerSizeScale, markerSizeMin, markerSizeMax, defaultMarkerSize)
		}
		return figure.SequenceSize(out)
	}
	v, ok := size.Scalar()
	if !ok {
		v = defaultMarkerSize
	}
	return figure.ScalarSize(clampScale(v, markerSizeScale, markerSizeMin, markerSizeMax, defaultMarkerSize))
}

// clampScale substitutes def for unusable values, scales, and clamps to
// [lo, hi].
func clampScale(v, scale, lo, hi, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		v = def
	}
	return min(max(lo, v*scale), hi)
}
