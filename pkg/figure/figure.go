// Package figure defines the figure document returned by the plotting
// pipeline: a list of traces (visual element groups), a list of annotations
// (text overlays), and layout cosmetics (pixel dimensions, margins,
// backgrounds, axis configuration).
//
// The document serializes to plotly-compatible JSON via [Figure.MarshalJSON]
// and to a self-contained interactive HTML page via [Figure.WriteHTML].
// Figures are built fresh per plotting call, mutated in place by the
// post-processor, and then owned exclusively by the caller.
package figure

// Font styles annotation text.
type Font struct {
	Size  float64
	Color string
}

// Annotation is a text overlay positioned in normalized (0-1) figure
// coordinates when XRef/YRef are "paper".
type Annotation struct {
	Text        string
	XRef        string // "paper" or axis reference
	YRef        string
	X           float64
	Y           float64
	XAnchor     string // "left", "center", "right"
	YAnchor     string // "top", "middle", "bottom"
	ShowArrow   bool
	Align       string
	BgColor     string
	BorderColor string
	BorderWidth float64
	BorderPad   float64
	Font        Font
}

// Margin is the figure margin in pixels.
type Margin struct {
	L, R, T, B int
}

// Axis configures one spatial axis. ScaleAnchor locks this axis's scale to
// another axis ("x") at the given ratio, preventing visual distortion of
// the coordinates.
type Axis struct {
	Visible     bool
	ScaleAnchor string
	ScaleRatio  float64
}

// Layout holds figure-level cosmetics.
type Layout struct {
	Width   int
	Height  int
	Margin  Margin
	PaperBg string
	PlotBg  string
	XAxis   Axis
	YAxis   Axis
}

// Figure is the assembled diagram document.
type Figure struct {
	Traces      []*Trace
	Annotations []Annotation
	Layout      Layout
}

// New creates an empty figure with visible axes and no fixed dimensions.
func New() *Figure {
	return &Figure{
		Layout: Layout{
			XAxis: Axis{Visible: true},
			YAxis: Axis{Visible: true},
		},
	}
}

// AddTrace appends a trace.
func (f *Figure) AddTrace(t *Trace) { f.Traces = append(f.Traces, t) }

// AddAnnotation appends an annotation.
func (f *Figure) AddAnnotation(a Annotation) { f.Annotations = append(f.Annotations, a) }
