package plot

import (
	"math"
	"strings"
	"testing"

	"github.com/voltmaps/gridviz/pkg/figure"
	"github.com/voltmaps/gridviz/pkg/network"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name      string
		gen, load float64
		want      int
	}{
		{name: "Quiet", gen: 0, load: 0, want: 0},
		{name: "HeavyLoad", gen: 10, load: 50, want: 1},
		{name: "ModerateGenBoundary", gen: 75, load: 0, want: 0},
		{name: "ModerateGen", gen: 75.1, load: 0, want: 2},
		{name: "HighGen", gen: 200, load: 0, want: 3},
		{name: "ExtremeGen", gen: 501, load: 999, want: 4},
		{name: "GenBeatsLoad", gen: 80, load: 60, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categorize(tt.gen, tt.load); got != tt.want {
				t.Errorf("categorize(%v, %v) = %d (%s), want %d (%s)",
					tt.gen, tt.load, got, busCategories[got].name, tt.want, busCategories[tt.want].name)
			}
		})
	}
}

func TestBusCategoryTable(t *testing.T) {
	want := []busCategory{
		{name: "buses", color: "black"},
		{name: "buses (load ≥ 50)", color: "#1f77b4"},
		{name: "buses (gen > 75)", color: "#9467bd"},
		{name: "buses (gen > 150)", color: "#ff7f0e"},
		{name: "buses (gen > 500)", color: "#d62728"},
	}
	if len(busCategories) != len(want) {
		t.Fatalf("got %d categories, want %d", len(busCategories), len(want))
	}
	for i, w := range want {
		if busCategories[i] != w {
			t.Errorf("busCategories[%d] = %+v, want %+v", i, busCategories[i], w)
		}
	}
}

func mappedTriangle(t *testing.T) (*network.Network, map[int]network.Coordinate) {
	t.Helper()
	net := triangle(t)
	mapped, err := MapCoords(net, triangleCoords())
	if err != nil {
		t.Fatal(err)
	}
	return net, mapped
}

func findTrace(fig *figure.Figure, name string) *figure.Trace {
	for _, tr := range fig.Traces {
		if tr.Name == name {
			return tr
		}
	}
	return nil
}

func TestBuildSolution(t *testing.T) {
	net, mapped := mappedTriangle(t)
	sol := &network.Solution{
		ObjVal:      100.5,
		SwitchedOff: map[network.BranchPair]bool{{F: 2, T: 3}: true},
	}

	fig, err := StandardBuilder{}.BuildSolution(net, mapped, sol)
	if err != nil {
		t.Fatal(err)
	}

	branches := findTrace(fig, "branches")
	if branches == nil || !branches.Mode.HasLines() {
		t.Fatal("missing branches lines trace")
	}
	// Two in-service branches, three slots each (both ends + gap).
	if len(branches.X) != 6 {
		t.Errorf("branches trace has %d x entries, want 6", len(branches.X))
	}
	if !math.IsNaN(branches.X[2]) {
		t.Error("segment separator is not NaN")
	}

	off := findTrace(fig, "switched off branches")
	if off == nil {
		t.Fatal("missing switched-off trace")
	}
	if off.Line.Dash != "dash" || len(off.X) != 3 {
		t.Errorf("switched-off trace = dash %q, %d entries", off.Line.Dash, len(off.X))
	}

	// Bus 1: gen 90 > 75 -> purple. Bus 5: load 60 -> blue. Bus 9 -> black.
	for _, name := range []string{"buses", "buses (load ≥ 50)", "buses (gen > 75)"} {
		tr := findTrace(fig, name)
		if tr == nil {
			t.Fatalf("missing category trace %q", name)
		}
		if len(tr.X) != 1 {
			t.Errorf("%q has %d points, want 1", name, len(tr.X))
		}
		if len(tr.Text) != len(tr.X) {
			t.Errorf("%q hover text misaligned", name)
		}
	}
	if tr := findTrace(fig, "buses (gen > 500)"); tr != nil {
		t.Error("empty category produced a trace")
	}

	if got := FindObjective(fig); got != "OBJ 100.50" {
		t.Errorf("objective annotation = %q, want OBJ 100.50", got)
	}
}

func TestBuildSolutionNilSolution(t *testing.T) {
	net, mapped := mappedTriangle(t)

	fig, err := StandardBuilder{}.BuildSolution(net, mapped, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := FindObjective(fig); got != "" {
		t.Errorf("nil solution produced objective %q", got)
	}
	if findTrace(fig, "switched off branches") != nil {
		t.Error("nil solution produced switched-off trace")
	}
}

func TestBuildViolations(t *testing.T) {
	net, mapped := mappedTriangle(t)
	viol := &network.Violations{
		VmViol:    map[int]float64{1: 0.05, 9: -0.10},
		LimitViol: map[network.BranchPair]float64{{F: 1, T: 2}: 25},
	}

	fig, err := StandardBuilder{}.BuildViolations(net, mapped, viol)
	if err != nil {
		t.Fatal(err)
	}

	violBuses := findTrace(fig, "violated buses")
	if violBuses == nil {
		t.Fatal("missing violated buses trace")
	}
	sizes, ok := violBuses.Marker.Size.Sequence()
	if !ok || len(sizes) != 2 {
		t.Fatalf("violation sizes = %v, %v; want 2-element sequence", sizes, ok)
	}
	// Bus 9 has the larger magnitude and therefore the larger marker.
	if !(sizes[1] > sizes[0]) {
		t.Errorf("sizes = %v, want second (bus 9) larger", sizes)
	}
	if !strings.Contains(violBuses.Text[1], "bus 9") {
		t.Errorf("hover text = %q, want bus 9", violBuses.Text[1])
	}

	violBranches := findTrace(fig, "violated branches")
	if violBranches == nil || violBranches.Line.Color != "#d62728" {
		t.Fatalf("violated branches trace = %+v", violBranches)
	}

	if len(fig.Annotations) != 1 || !strings.Contains(fig.Annotations[0].Text, "2 bus violations, 1 branch violations") {
		t.Errorf("summary annotation = %+v", fig.Annotations)
	}
}
