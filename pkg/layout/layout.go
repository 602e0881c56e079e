// Package layout computes 2-D coordinates for every bus in a network.
//
// Two strategies are provided:
//
//   - [ForceDirected] shells out to an external Graphviz-style layout tool
//     (sfdp by default) with a fixed seed for reproducible positions.
//   - [Circular] places buses on a fixed-radius circle in ascending bus-ID
//     order and never fails for non-empty networks.
//
// [Resolve] composes them: it tries the force-directed strategy first and
// falls back to the circular one when - and only when - the external tool is
// missing or exits non-zero. Any other failure propagates to the caller.
//
// Both strategies emit (y, x) pairs: the coordinate axes are intentionally
// swapped from the tool's native orientation (see [network.Coordinate]).
package layout

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/voltmaps/gridviz/pkg/errors"
	"github.com/voltmaps/gridviz/pkg/network"
)

// Strategy produces a coordinate for every bus in the network.
type Strategy interface {
	Layout(ctx context.Context, net *network.Network) (network.CoordMap, error)
}

// Options configures [Resolve].
type Options struct {
	// Command is the external layout tool to try first (default "sfdp").
	Command string
	// Seed is passed to the tool for reproducible layouts (default 1234).
	Seed int
	// Radius is the fallback circle radius (default 100).
	Radius float64
	// Logger receives a debug entry when the fallback engages.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Command == "" {
		o.Command = DefaultCommand
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Resolve tries the force-directed strategy and falls back to circular
// placement when the external tool is unavailable (not installed) or exits
// non-zero. All other errors are returned unmodified; the catch scope is
// deliberately narrow. The chosen strategy is not cached across calls.
func Resolve(ctx context.Context, net *network.Network, opts Options) (network.CoordMap, error) {
	opts.setDefaults()

	coords, err := ForceDirected{Command: opts.Command, Seed: opts.Seed}.Layout(ctx, net)
	if err == nil {
		return coords, nil
	}
	if errors.Is(err, errors.ErrCodeLayoutToolNotFound) || errors.Is(err, errors.ErrCodeLayoutToolFailed) {
		opts.Logger.Debug("force-directed layout unavailable, using circular fallback", "err", err)
		return Circular{Radius: opts.Radius}.Layout(ctx, net)
	}
	return nil, err
}
