package layout

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/voltmaps/gridviz/pkg/errors"
	"github.com/voltmaps/gridviz/pkg/network"
)

const (
	// DefaultCommand is the external force-directed layout tool.
	DefaultCommand = "sfdp"

	// DefaultSeed makes tool output reproducible across calls.
	DefaultSeed = 1234
)

// ForceDirected lays out the network by invoking an external Graphviz-style
// layout tool as a subprocess, requesting plain-text node positions.
//
// The network is serialized as an undirected graph description (one point
// node per bus count, one edge per branch) to a temporary file that is
// removed on every exit path. The tool's output coordinates are translated
// so the minimum x and minimum y are exactly zero.
//
// Failure classes:
//   - tool not installed: ErrCodeLayoutToolNotFound
//   - tool exits non-zero: ErrCodeLayoutToolFailed
//   - output missing positions for some bus: ErrCodeLayoutParse
//
// Only the first two are treated as recoverable by [Resolve].
type ForceDirected struct {
	Command string // Layout tool binary (default "sfdp")
	Seed    int    // Deterministic seed (default 1234)
}

// Layout implements [Strategy].
func (f ForceDirected) Layout(ctx context.Context, net *network.Network) (network.CoordMap, error) {
	command := f.Command
	if command == "" {
		command = DefaultCommand
	}
	seed := f.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	if _, err := exec.LookPath(command); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutToolNotFound, err, "layout tool %q not found", command)
	}

	dir, err := os.MkdirTemp("", "gridviz-layout-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "network.gv")
	if err := os.WriteFile(inPath, []byte(graphDescription(net)), 0o644); err != nil {
		return nil, fmt.Errorf("write graph description: %w", err)
	}

	cmd := exec.CommandContext(ctx, command, "-Tplain", fmt.Sprintf("-Gseed=%d", seed), inPath)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, errors.Wrap(errors.ErrCodeLayoutToolFailed, err, "%s: %s", command, strings.TrimSpace(errBuf.String()))
		}
		return nil, fmt.Errorf("run %s: %w", command, err)
	}

	xs, ys := parsePlain(out.String())
	return toCoordMap(net, xs, ys)
}

// graphDescription serializes the network as an undirected Graphviz graph:
// one point node per bus count, one edge per branch.
func graphDescription(net *network.Network) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  node [shape=point, height=0, width=0, label=\"\"];\n")
	for c := 1; c <= net.NumBuses(); c++ {
		fmt.Fprintf(&buf, "  %d;\n", c)
	}
	for _, br := range net.Branches() {
		fmt.Fprintf(&buf, "  %d -- %d;\n", br.CountF, br.CountT)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// parsePlain extracts node positions from Graphviz -Tplain output.
// Lines look like "node <id> <x> <y> <width> <height> ...". Lines that do
// not parse as numeric positions are skipped.
func parsePlain(out string) (xs, ys map[int]float64) {
	xs = make(map[int]float64)
	ys = make(map[int]float64)
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 4 || parts[0] != "node" {
			continue
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		x, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			continue
		}
		y, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			continue
		}
		xs[count] = x
		ys[count] = y
	}
	return xs, ys
}

// toCoordMap shifts positions to the origin and re-keys them from internal
// counts to external bus IDs, swapping axes to the (lat, lon) convention.
func toCoordMap(net *network.Network, xs, ys map[int]float64) (network.CoordMap, error) {
	if len(xs) == 0 {
		return nil, errors.New(errors.ErrCodeLayoutParse, "layout tool produced no node positions")
	}

	xvals := make([]float64, 0, len(xs))
	yvals := make([]float64, 0, len(ys))
	for _, x := range xs {
		xvals = append(xvals, x)
	}
	for _, y := range ys {
		yvals = append(yvals, y)
	}
	minX := floats.Min(xvals)
	minY := floats.Min(yvals)

	coords := make(network.CoordMap, net.NumBuses())
	for c := 1; c <= net.NumBuses(); c++ {
		x, okX := xs[c]
		y, okY := ys[c]
		if !okX || !okY {
			return nil, errors.New(errors.ErrCodeLayoutParse, "layout tool output has no position for bus count %d", c)
		}
		id, ok := net.IDOf(c)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidNetwork, "no bus ID for count %d", c)
		}
		coords[id] = network.Coordinate{Lat: y - minY, Lon: x - minX}
	}
	return coords, nil
}
