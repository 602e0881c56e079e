package layout

import (
	"context"
	"math"

	"github.com/voltmaps/gridviz/pkg/errors"
	"github.com/voltmaps/gridviz/pkg/network"
)

// DefaultRadius is the circle radius used by the fallback strategy.
const DefaultRadius = 100.0

// Circular places buses on a fixed-radius circle, spaced by 2π/n in
// ascending bus-ID order. It has no external dependencies and always
// produces a finite layout, which makes it the fallback when the
// force-directed tool is unavailable.
type Circular struct {
	Radius float64 // Circle radius (default 100)
}

// Layout implements [Strategy]. The bus with the k-th smallest ID is placed
// at angle 2π·k/n, emitted as (R·sin θ, R·cos θ) per the (lat, lon)
// convention.
func (c Circular) Layout(_ context.Context, net *network.Network) (network.CoordMap, error) {
	radius := c.Radius
	if radius == 0 {
		radius = DefaultRadius
	}

	ids := net.BusIDs()
	n := len(ids)
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInvalidNetwork, "cannot lay out a network with no buses")
	}

	coords := make(network.CoordMap, n)
	for k, id := range ids {
		theta := 2 * math.Pi * float64(k) / float64(n)
		coords[id] = network.Coordinate{
			Lat: radius * math.Sin(theta),
			Lon: radius * math.Cos(theta),
		}
	}
	return coords, nil
}
