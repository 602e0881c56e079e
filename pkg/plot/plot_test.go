package plot

import (
	"context"
	"strings"
	"testing"

	"github.com/voltmaps/gridviz/pkg/errors"
	"github.com/voltmaps/gridviz/pkg/figure"
	"github.com/voltmaps/gridviz/pkg/network"
)

// triangle builds the canonical 3-bus cycle used across the pipeline tests.
func triangle(t *testing.T) *network.Network {
	t.Helper()
	n := network.New()
	buses := []network.Bus{
		{ID: 1, Count: 1, Pd: 30, Pg: 90},
		{ID: 5, Count: 2, Pd: 60},
		{ID: 9, Count: 3, Pd: 10},
	}
	for _, b := range buses {
		if err := n.AddBus(b); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range []network.BranchPair{{F: 1, T: 2}, {F: 2, T: 3}, {F: 1, T: 3}} {
		if err := n.AddBranch(network.Branch{CountF: p.F, CountT: p.T, Status: 1}); err != nil {
			t.Fatal(err)
		}
	}
	return n
}

func triangleCoords() network.CoordMap {
	return network.CoordMap{
		1: {Lat: 0, Lon: 0},
		5: {Lat: 1, Lon: 2},
		9: {Lat: 2, Lon: 1},
	}
}

// recordingStrategy counts layout invocations.
type recordingStrategy struct {
	calls  int
	coords network.CoordMap
}

func (r *recordingStrategy) Layout(_ context.Context, _ *network.Network) (network.CoordMap, error) {
	r.calls++
	return r.coords, nil
}

func TestMapCoords(t *testing.T) {
	net := triangle(t)

	mapped, err := MapCoords(net, triangleCoords())
	if err != nil {
		t.Fatal(err)
	}
	// Keys remapped from bus IDs to counts, values untouched.
	if mapped[2] != (network.Coordinate{Lat: 1, Lon: 2}) {
		t.Errorf("count 2 = %+v, want coordinate of bus 5", mapped[2])
	}
	if len(mapped) != 3 {
		t.Errorf("mapped %d coordinates, want 3", len(mapped))
	}
}

func TestMapCoordsMissingBus(t *testing.T) {
	net := triangle(t)
	coords := triangleCoords()
	delete(coords, 5)
	delete(coords, 9)

	_, err := MapCoords(net, coords)
	if !errors.Is(err, errors.ErrCodeMissingCoordinate) {
		t.Fatalf("error = %v, want MISSING_COORDINATE", err)
	}
	// The smallest missing bus ID is named.
	if !strings.Contains(err.Error(), "bus 5") {
		t.Errorf("error %q does not name bus 5", err)
	}
}

func TestSolutionPlotWithSuppliedCoords(t *testing.T) {
	net := triangle(t)
	sol := &network.Solution{ObjVal: 5296.69}

	fig, err := SolutionPlot(context.Background(), net, triangleCoords(), sol, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if fig.Layout.Width != 1200 || fig.Layout.Height != 900 {
		t.Errorf("dimensions = %dx%d, want 1200x900", fig.Layout.Width, fig.Layout.Height)
	}
	if fig.Layout.PaperBg != "white" || fig.Layout.PlotBg != "white" {
		t.Errorf("backgrounds = %q/%q, want white", fig.Layout.PaperBg, fig.Layout.PlotBg)
	}
	if fig.Layout.XAxis.Visible || fig.Layout.YAxis.Visible {
		t.Error("axes should be hidden")
	}
	if fig.Layout.YAxis.ScaleAnchor != "x" || fig.Layout.YAxis.ScaleRatio != 1 {
		t.Errorf("yaxis anchor = %+v, want 1:1 lock to x", fig.Layout.YAxis)
	}
	if m := fig.Layout.Margin; m != (figure.Margin{L: 20, R: 20, T: 20, B: 20}) {
		t.Errorf("margin = %+v", m)
	}

	// Objective preserved verbatim as the bolded first line.
	if len(fig.Annotations) != 1 {
		t.Fatalf("got %d annotations, want 1", len(fig.Annotations))
	}
	text := fig.Annotations[0].Text
	if !strings.HasPrefix(text, "<b>OBJ 5296.69</b><br>") {
		t.Errorf("annotation does not start with bolded objective: %q", text)
	}
	if !strings.Contains(text, "Bus colors") {
		t.Errorf("annotation missing legend: %q", text)
	}
}

func TestSolutionPlotDropObjective(t *testing.T) {
	net := triangle(t)
	opts := DefaultOptions()
	opts.KeepObjective = false

	fig, err := SolutionPlot(context.Background(), net, triangleCoords(), &network.Solution{ObjVal: 1}, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range fig.Annotations {
		if strings.Contains(a.Text, ObjectivePrefix) {
			t.Errorf("objective text survived KeepObjective=false: %q", a.Text)
		}
	}
}

func TestSolutionPlotAutoLayoutFallback(t *testing.T) {
	// Tool unavailable and no coords supplied: must not fail, and must
	// return a figure with the requested dimensions.
	net := triangle(t)
	opts := DefaultOptions()
	opts.Width = 640
	opts.Height = 480
	opts.LayoutCommand = "gridviz-no-such-tool"

	fig, err := SolutionPlot(context.Background(), net, nil, &network.Solution{}, opts)
	if err != nil {
		t.Fatalf("SolutionPlot with missing tool: %v", err)
	}
	if fig.Layout.Width != 640 || fig.Layout.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", fig.Layout.Width, fig.Layout.Height)
	}
}

func TestSolutionPlotUsesStrategyOverride(t *testing.T) {
	net := triangle(t)
	strategy := &recordingStrategy{coords: triangleCoords()}
	opts := DefaultOptions()
	opts.Strategy = strategy

	if _, err := SolutionPlot(context.Background(), net, nil, nil, opts); err != nil {
		t.Fatal(err)
	}
	if strategy.calls != 1 {
		t.Errorf("strategy called %d times, want 1", strategy.calls)
	}

	// Supplied coords skip the engine entirely.
	strategy.calls = 0
	if _, err := SolutionPlot(context.Background(), net, triangleCoords(), nil, opts); err != nil {
		t.Fatal(err)
	}
	if strategy.calls != 0 {
		t.Errorf("strategy called %d times with supplied coords, want 0", strategy.calls)
	}
}

func TestViolationPlotRequiresCoords(t *testing.T) {
	_, err := ViolationPlot(context.Background(), triangle(t), nil, &network.Violations{}, DefaultOptions())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
}

func TestViolationPlotNeverInvokesLayout(t *testing.T) {
	net := triangle(t)
	strategy := &recordingStrategy{coords: triangleCoords()}
	opts := DefaultOptions()
	opts.Strategy = strategy

	viol := &network.Violations{VmViol: map[int]float64{5: 0.03}}
	fig, err := ViolationPlot(context.Background(), net, triangleCoords(), viol, opts)
	if err != nil {
		t.Fatal(err)
	}
	if strategy.calls != 0 {
		t.Errorf("layout strategy invoked %d times by ViolationPlot, want 0", strategy.calls)
	}

	// Raw figure: no cosmetics pass, no trace tuning.
	if fig.Layout.Width != 0 || fig.Layout.PaperBg != "" {
		t.Errorf("violation figure was post-processed: %+v", fig.Layout)
	}
	for _, tr := range fig.Traces {
		if tr.Name == "violated buses" {
			if _, ok := tr.Marker.Size.Sequence(); !ok {
				t.Error("violation marker sizes should be a raw per-element sequence")
			}
		}
	}
}

func TestFindObjective(t *testing.T) {
	tests := []struct {
		name string
		anns []figure.Annotation
		want string
	}{
		{name: "Empty", want: ""},
		{
			name: "Found",
			anns: []figure.Annotation{{Text: "legend"}, {Text: "  OBJ 12.5  "}},
			want: "OBJ 12.5",
		},
		{
			name: "NoMarker",
			anns: []figure.Annotation{{Text: "objective: 12.5"}},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := figure.New()
			fig.Annotations = tt.anns
			if got := FindObjective(fig); got != tt.want {
				t.Errorf("FindObjective() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRestyleAnnotationsDiscardsExisting(t *testing.T) {
	fig := figure.New()
	fig.AddAnnotation(figure.Annotation{Text: "stale one"})
	fig.AddAnnotation(figure.Annotation{Text: "OBJ 7"})

	RestyleAnnotations(fig, "")
	if len(fig.Annotations) != 1 {
		t.Fatalf("got %d annotations, want exactly 1", len(fig.Annotations))
	}
	a := fig.Annotations[0]
	if strings.Contains(a.Text, "stale") || strings.Contains(a.Text, "OBJ") {
		t.Errorf("old annotations leaked into block: %q", a.Text)
	}
	if a.XRef != "paper" || a.YRef != "paper" || a.X != 0.02 || a.Y != 0.98 {
		t.Errorf("block position = %+v", a)
	}
	if a.BgColor != "rgba(255,255,255,0.90)" || a.Font.Size != 16 {
		t.Errorf("block styling = %+v", a)
	}
}
