package figure

import "github.com/google/uuid"

// Mode is a trace's display mode. It is resolved at construction time so
// downstream code can branch on line/marker rendering without inspecting
// style attributes ad hoc.
type Mode string

// Display modes.
const (
	ModeLines        Mode = "lines"
	ModeMarkers      Mode = "markers"
	ModeLinesMarkers Mode = "lines+markers"
)

// HasLines reports whether the mode includes line rendering.
func (m Mode) HasLines() bool { return m == ModeLines || m == ModeLinesMarkers }

// HasMarkers reports whether the mode includes marker rendering.
func (m Mode) HasMarkers() bool { return m == ModeMarkers || m == ModeLinesMarkers }

// LineStyle holds per-trace line attributes. A zero Width means unset; the
// post-processor substitutes its default before scaling.
type LineStyle struct {
	Width float64
	Color string
	Dash  string // "solid" (empty), "dash", "dot"
}

// sizeKind discriminates the MarkerSize union.
type sizeKind int

const (
	sizeUnset sizeKind = iota
	sizeScalar
	sizeSequence
)

// MarkerSize is an explicit scalar-or-sequence union: a marker size is
// either one value for the whole trace or an ordered per-element sequence.
// The shape is fixed when the size is set, never inferred later.
type MarkerSize struct {
	kind   sizeKind
	scalar float64
	seq    []float64
}

// ScalarSize returns a uniform marker size.
func ScalarSize(v float64) MarkerSize {
	return MarkerSize{kind: sizeScalar, scalar: v}
}

// SequenceSize returns a per-element marker size. The slice is copied.
func SequenceSize(vs []float64) MarkerSize {
	seq := make([]float64, len(vs))
	copy(seq, vs)
	return MarkerSize{kind: sizeSequence, seq: seq}
}

// Scalar returns the uniform size, if that is the union's shape.
func (s MarkerSize) Scalar() (float64, bool) {
	return s.scalar, s.kind == sizeScalar
}

// Sequence returns the per-element sizes, if that is the union's shape.
// The returned slice is the internal one; treat it as read-only.
func (s MarkerSize) Sequence() ([]float64, bool) {
	return s.seq, s.kind == sizeSequence
}

// IsSet reports whether any size was assigned.
func (s MarkerSize) IsSet() bool { return s.kind != sizeUnset }

// MarkerStyle holds per-trace marker attributes.
type MarkerStyle struct {
	Size  MarkerSize
	Color string
}

// Trace is one visual element class of a figure: a group of edges rendered
// as line segments, or a category of nodes rendered as markers.
//
// X and Y are parallel coordinate slices; NaN entries in a lines trace are
// segment separators. Text carries optional per-point hover labels.
type Trace struct {
	UID  string
	Name string
	Mode Mode
	X    []float64
	Y    []float64
	Text []string

	Line   LineStyle
	Marker MarkerStyle
}

// NewTrace creates a trace with the given display mode and a fresh UID.
func NewTrace(mode Mode, name string, x, y []float64) *Trace {
	return &Trace{
		UID:  uuid.NewString(),
		Name: name,
		Mode: mode,
		X:    x,
		Y:    y,
	}
}

// NewLineTrace creates a lines-mode trace with the given line style.
func NewLineTrace(name string, x, y []float64, line LineStyle) *Trace {
	t := NewTrace(ModeLines, name, x, y)
	t.Line = line
	return t
}

// NewMarkerTrace creates a markers-mode trace with the given marker style.
func NewMarkerTrace(name string, x, y []float64, marker MarkerStyle) *Trace {
	t := NewTrace(ModeMarkers, name, x, y)
	t.Marker = marker
	return t
}
