// Package plot assembles interactive figures from a network and its
// optimal-power-flow solution or constraint violations.
//
// # Pipeline
//
// The two entry points compose the full pipeline:
//
//	fig, err := plot.SolutionPlot(ctx, net, nil, sol, plot.DefaultOptions())
//	fig, err := plot.ViolationPlot(ctx, net, coords, viol, plot.DefaultOptions())
//
// SolutionPlot resolves coordinates (caller-supplied, or auto-layout via
// pkg/layout), normalizes them with [MapCoords], builds the base figure
// through a [Builder], rewrites the annotation block, tunes trace styling,
// and applies fixed layout cosmetics. ViolationPlot requires caller-supplied
// coordinates, never auto-layouts, and returns the builder's figure raw.
//
// No state survives across calls; every figure is an independently owned
// result.
package plot

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/voltmaps/gridviz/pkg/errors"
	"github.com/voltmaps/gridviz/pkg/figure"
	"github.com/voltmaps/gridviz/pkg/layout"
	"github.com/voltmaps/gridviz/pkg/network"
)

// Default figure dimensions in pixels.
const (
	DefaultWidth  = 1200
	DefaultHeight = 900
)

// figureMargin is the fixed margin applied on all four sides.
const figureMargin = 20

// Options configures the plotting pipeline. Start from [DefaultOptions] and
// override fields as needed; the zero value of KeepObjective means the
// objective annotation is discarded.
type Options struct {
	// Width and Height are the figure's pixel dimensions
	// (defaults 1200 x 900).
	Width  int
	Height int

	// KeepObjective preserves the builder's objective annotation as the
	// bolded first line of the restyled annotation block.
	KeepObjective bool

	// Builder constructs the base figure (default [StandardBuilder]).
	Builder Builder

	// Strategy overrides the auto-layout path of SolutionPlot. When nil,
	// [layout.Resolve] is used with LayoutCommand and Seed.
	Strategy      layout.Strategy
	LayoutCommand string
	Seed          int

	// Logger receives debug output (default: discard).
	Logger *log.Logger
}

// DefaultOptions returns the options matching the public contract defaults:
// 1200x900 pixels, objective kept.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, KeepObjective: true}
}

func (o *Options) setDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Builder == nil {
		o.Builder = StandardBuilder{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// MapCoords normalizes a coordinate map into the per-count table the figure
// builder consumes. It performs no geometric transformation - only key
// remapping from external bus IDs to internal counts. Every bus must have a
// coordinate; a missing one fails the whole call rather than silently
// dropping a node from the diagram.
func MapCoords(net *network.Network, coords network.CoordMap) (map[int]network.Coordinate, error) {
	mapped := make(map[int]network.Coordinate, net.NumBuses())
	for _, id := range net.BusIDs() {
		c, ok := coords[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeMissingCoordinate, "bus %d has no coordinate", id)
		}
		count, ok := net.CountOf(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "no count for bus %d", id)
		}
		mapped[count] = c
	}
	return mapped, nil
}

// SolutionPlot renders a solved network as a styled interactive figure.
//
// When coords is nil, coordinates are generated by the layout engine
// (force-directed with circular fallback). The figure is post-processed:
// annotations are replaced by a legend block (optionally led by the
// objective), trace styling is rescaled into bounded ranges, and fixed
// cosmetics are applied (margins, white backgrounds, hidden axes, 1:1
// aspect-ratio lock).
func SolutionPlot(ctx context.Context, net *network.Network, coords network.CoordMap, sol *network.Solution, opts Options) (*figure.Figure, error) {
	opts.setDefaults()

	if coords == nil {
		var err error
		if opts.Strategy != nil {
			coords, err = opts.Strategy.Layout(ctx, net)
		} else {
			coords, err = layout.Resolve(ctx, net, layout.Options{
				Command: opts.LayoutCommand,
				Seed:    opts.Seed,
				Logger:  opts.Logger,
			})
		}
		if err != nil {
			return nil, err
		}
	}

	mapped, err := MapCoords(net, coords)
	if err != nil {
		return nil, err
	}

	fig, err := opts.Builder.BuildSolution(net, mapped, sol)
	if err != nil {
		return nil, err
	}

	// Capture the objective before the restyle discards every annotation.
	objText := ""
	if opts.KeepObjective {
		objText = FindObjective(fig)
	}
	RestyleAnnotations(fig, objText)
	applyCosmetics(fig, opts.Width, opts.Height)
	TuneTraces(fig)

	return fig, nil
}

// ViolationPlot renders a network with constraint violations highlighted.
// Coordinates are mandatory - there is no auto-layout path - and the
// builder's figure is returned raw, with no post-processing or cosmetics.
func ViolationPlot(_ context.Context, net *network.Network, coords network.CoordMap, viol *network.Violations, opts Options) (*figure.Figure, error) {
	opts.setDefaults()

	if coords == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "violation plots require caller-supplied coordinates")
	}

	mapped, err := MapCoords(net, coords)
	if err != nil {
		return nil, err
	}
	return opts.Builder.BuildViolations(net, mapped, viol)
}

// applyCosmetics sets the fixed layout: explicit pixel dimensions, 20px
// margins, white backgrounds, hidden axes, and the y axis scale-anchored to
// x at ratio 1 so the spatial coordinates are not visually distorted.
func applyCosmetics(fig *figure.Figure, width, height int) {
	fig.Layout = figure.Layout{
		Width:   width,
		Height:  height,
		Margin:  figure.Margin{L: figureMargin, R: figureMargin, T: figureMargin, B: figureMargin},
		PaperBg: "white",
		PlotBg:  "white",
		XAxis:   figure.Axis{Visible: false},
		YAxis:   figure.Axis{Visible: false, ScaleAnchor: "x", ScaleRatio: 1},
	}
}
