package figure

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// jsonFloats marshals a coordinate slice, encoding NaN as null so that
// lines traces keep their segment separators in plotly's JSON dialect.
type jsonFloats []float64

func (v jsonFloats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

type jsonLine struct {
	Width float64 `json:"width,omitempty"`
	Color string  `json:"color,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

type jsonMarker struct {
	// Size is a number for scalar sizes and an array for per-element ones.
	Size  any    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

type jsonTrace struct {
	Type      string      `json:"type"`
	UID       string      `json:"uid,omitempty"`
	Name      string      `json:"name,omitempty"`
	Mode      string      `json:"mode"`
	X         jsonFloats  `json:"x"`
	Y         jsonFloats  `json:"y"`
	Text      []string    `json:"text,omitempty"`
	HoverInfo string      `json:"hoverinfo,omitempty"`
	Line      *jsonLine   `json:"line,omitempty"`
	Marker    *jsonMarker `json:"marker,omitempty"`
}

type jsonFont struct {
	Size  float64 `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
}

type jsonAnnotation struct {
	Text        string   `json:"text"`
	XRef        string   `json:"xref,omitempty"`
	YRef        string   `json:"yref,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	XAnchor     string   `json:"xanchor,omitempty"`
	YAnchor     string   `json:"yanchor,omitempty"`
	ShowArrow   bool     `json:"showarrow"`
	Align       string   `json:"align,omitempty"`
	BgColor     string   `json:"bgcolor,omitempty"`
	BorderColor string   `json:"bordercolor,omitempty"`
	BorderWidth float64  `json:"borderwidth,omitempty"`
	BorderPad   float64  `json:"borderpad,omitempty"`
	Font        jsonFont `json:"font"`
}

type jsonMargin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type jsonAxis struct {
	Visible     bool    `json:"visible"`
	ScaleAnchor string  `json:"scaleanchor,omitempty"`
	ScaleRatio  float64 `json:"scaleratio,omitempty"`
}

type jsonLayout struct {
	Width       int              `json:"width,omitempty"`
	Height      int              `json:"height,omitempty"`
	Margin      *jsonMargin      `json:"margin,omitempty"`
	PaperBg     string           `json:"paper_bgcolor,omitempty"`
	PlotBg      string           `json:"plot_bgcolor,omitempty"`
	XAxis       jsonAxis         `json:"xaxis"`
	YAxis       jsonAxis         `json:"yaxis"`
	Annotations []jsonAnnotation `json:"annotations"`
	ShowLegend  bool             `json:"showlegend"`
}

type jsonFigure struct {
	Data   []jsonTrace `json:"data"`
	Layout jsonLayout  `json:"layout"`
}

// MarshalJSON serializes the figure in plotly's figure JSON shape:
// {"data": [...traces], "layout": {...}}.
func (f *Figure) MarshalJSON() ([]byte, error) {
	doc := jsonFigure{
		Data: make([]jsonTrace, 0, len(f.Traces)),
		Layout: jsonLayout{
			Width:   f.Layout.Width,
			Height:  f.Layout.Height,
			PaperBg: f.Layout.PaperBg,
			PlotBg:  f.Layout.PlotBg,
			XAxis: jsonAxis{
				Visible:     f.Layout.XAxis.Visible,
				ScaleAnchor: f.Layout.XAxis.ScaleAnchor,
				ScaleRatio:  f.Layout.XAxis.ScaleRatio,
			},
			YAxis: jsonAxis{
				Visible:     f.Layout.YAxis.Visible,
				ScaleAnchor: f.Layout.YAxis.ScaleAnchor,
				ScaleRatio:  f.Layout.YAxis.ScaleRatio,
			},
			Annotations: make([]jsonAnnotation, 0, len(f.Annotations)),
		},
	}

	if f.Layout.Margin != (Margin{}) {
		m := f.Layout.Margin
		doc.Layout.Margin = &jsonMargin{L: m.L, R: m.R, T: m.T, B: m.B}
	}

	for _, t := range f.Traces {
		doc.Data = append(doc.Data, toJSONTrace(t))
	}
	for _, a := range f.Annotations {
		doc.Layout.Annotations = append(doc.Layout.Annotations, jsonAnnotation{
			Text:        a.Text,
			XRef:        a.XRef,
			YRef:        a.YRef,
			X:           a.X,
			Y:           a.Y,
			XAnchor:     a.XAnchor,
			YAnchor:     a.YAnchor,
			ShowArrow:   a.ShowArrow,
			Align:       a.Align,
			BgColor:     a.BgColor,
			BorderColor: a.BorderColor,
			BorderWidth: a.BorderWidth,
			BorderPad:   a.BorderPad,
			Font:        jsonFont{Size: a.Font.Size, Color: a.Font.Color},
		})
	}

	return json.Marshal(doc)
}

func toJSONTrace(t *Trace) jsonTrace {
	out := jsonTrace{
		Type: "scatter",
		UID:  t.UID,
		Name: t.Name,
		Mode: string(t.Mode),
		X:    jsonFloats(t.X),
		Y:    jsonFloats(t.Y),
		Text: t.Text,
	}
	if len(t.Text) > 0 {
		out.HoverInfo = "text"
	}
	if t.Mode.HasLines() {
		out.Line = &jsonLine{Width: t.Line.Width, Color: t.Line.Color, Dash: t.Line.Dash}
	}
	if t.Mode.HasMarkers() {
		m := &jsonMarker{Color: t.Marker.Color}
		if v, ok := t.Marker.Size.Scalar(); ok {
			m.Size = v
		} else if vs, ok := t.Marker.Size.Sequence(); ok {
			m.Size = vs
		}
		out.Marker = m
	}
	return out
}
