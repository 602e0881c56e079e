package network

import "math"

// Coordinate is a bus position as a (lat, lon) pair.
//
// Layout strategies emit (y, x) - the axes are deliberately swapped from the
// layout tool's native orientation. Figure builders consume Lon as the
// horizontal axis and Lat as the vertical one; this convention is load-bearing
// for the downstream figure orientation and must not be "fixed".
type Coordinate struct {
	Lat float64 // Vertical position (layout y)
	Lon float64 // Horizontal position (layout x)
}

// Finite reports whether both components are finite numbers.
func (c Coordinate) Finite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// CoordMap maps external bus identifiers to coordinates.
type CoordMap map[int]Coordinate
