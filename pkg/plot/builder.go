package plot

import (
	"fmt"
	"math"

	"github.com/voltmaps/gridviz/pkg/figure"
	"github.com/voltmaps/gridviz/pkg/network"
)

// Builder constructs the base figure from a normalized network. It is the
// contract boundary with the figure-construction collaborator: one trace per
// visual element class (edge groups, bus categories), coordinates keyed by
// internal bus count.
type Builder interface {
	BuildSolution(net *network.Network, coords map[int]network.Coordinate, sol *network.Solution) (*figure.Figure, error)
	BuildViolations(net *network.Network, coords map[int]network.Coordinate, viol *network.Violations) (*figure.Figure, error)
}

// Bus category thresholds (MW). A bus's color encodes its generation level,
// with the blue category marking low-generation buses carrying heavy load.
const (
	genModerate = 75.0
	genHigh     = 150.0
	genExtreme  = 500.0
	loadHigh    = 50.0
)

// busCategory is one marker trace class.
type busCategory struct {
	name  string
	color string
}

// Categories in legend order. Classification walks from the most extreme
// generation level down.
var busCategories = []busCategory{
	{name: "buses", color: "black"},
	{name: "buses (load ≥ 50)", color: "#1f77b4"},
	{name: "buses (gen > 75)", color: "#9467bd"},
	{name: "buses (gen > 150)", color: "#ff7f0e"},
	{name: "buses (gen > 500)", color: "#d62728"},
}

// categorize returns the index into busCategories for a bus.
func categorize(gen, load float64) int {
	switch {
	case gen > genExtreme:
		return 4
	case gen > genHigh:
		return 3
	case gen > genModerate:
		return 2
	case load >= loadHigh:
		return 1
	default:
		return 0
	}
}

// StandardBuilder is the built-in figure builder: one lines trace for
// in-service branches, one for switched-off branches, one markers trace per
// populated bus category, and an objective annotation when a solution is
// present. Violation figures get the base network plus red highlight traces
// with hover magnitudes.
type StandardBuilder struct{}

// BuildSolution implements [Builder].
func (StandardBuilder) BuildSolution(net *network.Network, coords map[int]network.Coordinate, sol *network.Solution) (*figure.Figure, error) {
	fig := figure.New()

	onX, onY, offX, offY := branchSegments(net, coords, func(p network.BranchPair) bool {
		return sol.BranchOff(net, p)
	})
	fig.AddTrace(figure.NewLineTrace("branches", onX, onY, figure.LineStyle{Width: 1, Color: "#888888"}))
	if len(offX) > 0 {
		fig.AddTrace(figure.NewLineTrace("switched off branches", offX, offY,
			figure.LineStyle{Width: 1, Color: "#bbbbbb", Dash: "dash"}))
	}

	addBusTraces(fig, net, coords, sol)

	if sol != nil {
		fig.AddAnnotation(figure.Annotation{
			Text: fmt.Sprintf("%s %.2f", ObjectivePrefix, sol.ObjVal),
			XRef: "paper", YRef: "paper",
			X: 0.01, Y: 0.99,
			XAnchor: "left", YAnchor: "top",
		})
	}
	return fig, nil
}

// BuildViolations implements [Builder].
func (StandardBuilder) BuildViolations(net *network.Network, coords map[int]network.Coordinate, viol *network.Violations) (*figure.Figure, error) {
	fig := figure.New()

	// Base network.
	onX, onY, violX, violY := branchSegments(net, coords, func(p network.BranchPair) bool {
		_, bad := viol.BranchViolation(p)
		return bad
	})
	fig.AddTrace(figure.NewLineTrace("branches", onX, onY, figure.LineStyle{Width: 1, Color: "#888888"}))
	addBusTraces(fig, net, coords, nil)

	// Violating branches drawn on top in red.
	if len(violX) > 0 {
		fig.AddTrace(figure.NewLineTrace("violated branches", violX, violY,
			figure.LineStyle{Width: 2, Color: "#d62728"}))
	}

	// Violating buses: marker sizes scale with relative magnitude.
	busCount := addViolatedBusTrace(fig, net, coords, viol)

	branchCount := 0
	if len(violX) > 0 {
		branchCount = len(violX) / 3 // three entries per segment (x1, x2, gap)
	}
	fig.AddAnnotation(figure.Annotation{
		Text: fmt.Sprintf("%d bus violations, %d branch violations", busCount, branchCount),
		XRef: "paper", YRef: "paper",
		X: 0.02, Y: 0.98,
		XAnchor: "left", YAnchor: "top",
		Align:   "left",
		BgColor: "rgba(255,255,255,0.90)",
		Font:    figure.Font{Size: 14, Color: "black"},
	})
	return fig, nil
}

// branchSegments splits branches into normal and highlighted segment
// coordinate slices. Each segment contributes its two endpoints and a NaN
// separator.
func branchSegments(net *network.Network, coords map[int]network.Coordinate, highlight func(network.BranchPair) bool) (onX, onY, offX, offY []float64) {
	gap := math.NaN()
	for _, br := range net.Branches() {
		from, to := coords[br.CountF], coords[br.CountT]
		if highlight(br.Pair()) {
			offX = append(offX, from.Lon, to.Lon, gap)
			offY = append(offY, from.Lat, to.Lat, gap)
			continue
		}
		onX = append(onX, from.Lon, to.Lon, gap)
		onY = append(onY, from.Lat, to.Lat, gap)
	}
	return onX, onY, offX, offY
}

// addBusTraces groups buses into color categories and appends one markers
// trace per populated category, with generation/load hover text.
func addBusTraces(fig *figure.Figure, net *network.Network, coords map[int]network.Coordinate, sol *network.Solution) {
	type group struct {
		x, y []float64
		text []string
	}
	groups := make([]group, len(busCategories))

	for count := 1; count <= net.NumBuses(); count++ {
		bus := net.Bus(count)
		gen := sol.GenAt(net, count)
		idx := categorize(gen, bus.Pd)
		c := coords[count]
		groups[idx].x = append(groups[idx].x, c.Lon)
		groups[idx].y = append(groups[idx].y, c.Lat)
		groups[idx].text = append(groups[idx].text,
			fmt.Sprintf("bus %d<br>gen %.1f MW<br>load %.1f MW", bus.ID, gen, bus.Pd))
	}

	for i, g := range groups {
		if len(g.x) == 0 {
			continue
		}
		tr := figure.NewMarkerTrace(busCategories[i].name, g.x, g.y, figure.MarkerStyle{
			Size:  figure.ScalarSize(defaultMarkerSize),
			Color: busCategories[i].color,
		})
		tr.Text = g.text
		fig.AddTrace(tr)
	}
}

// addViolatedBusTrace appends the red bus-violation markers trace, sized by
// relative violation magnitude, and returns the number of violating buses.
func addViolatedBusTrace(fig *figure.Figure, net *network.Network, coords map[int]network.Coordinate, viol *network.Violations) int {
	var (
		ids  []int
		mags []float64
	)
	maxMag := 0.0
	for _, id := range net.BusIDs() {
		mag, bad := viol.BusViolation(id)
		if !bad {
			continue
		}
		ids = append(ids, id)
		mags = append(mags, mag)
		maxMag = max(maxMag, math.Abs(mag))
	}
	if len(ids) == 0 {
		return 0
	}

	x := make([]float64, len(ids))
	y := make([]float64, len(ids))
	sizes := make([]float64, len(ids))
	text := make([]string, len(ids))
	for i, id := range ids {
		count, _ := net.CountOf(id)
		c := coords[count]
		x[i], y[i] = c.Lon, c.Lat
		sizes[i] = 8 + 8*math.Abs(mags[i])/maxMag
		text[i] = fmt.Sprintf("bus %d<br>violation %.4g", id, mags[i])
	}

	tr := figure.NewMarkerTrace("violated buses", x, y, figure.MarkerStyle{
		Size:  figure.SequenceSize(sizes),
		Color: "#d62728",
	})
	tr.Text = text
	fig.AddTrace(tr)
	return len(ids)
}

var _ Builder = StandardBuilder{}
