package network

// Solution holds optimal-power-flow results following the MATPOWER naming
// convention, as produced by an external solver. All maps are keyed by
// external bus ID (or branch pair for branch data) and may be sparse; absent
// entries fall back to the case values on the Network itself.
type Solution struct {
	ObjVal float64 // Optimization objective value

	Vm map[int]float64 // Solved voltage magnitude per bus, p.u.
	Va map[int]float64 // Solved voltage angle per bus, degrees
	Pg map[int]float64 // Solved active generation per bus, MW

	// SwitchedOff marks branches turned off by the solution
	// (branch status 0 in the solved case).
	SwitchedOff map[BranchPair]bool
}

// GenAt returns the solved generation at the bus with the given count,
// falling back to the case generation when the solution has no entry.
func (s *Solution) GenAt(n *Network, count int) float64 {
	bus := n.Bus(count)
	if bus == nil {
		return 0
	}
	if s != nil && s.Pg != nil {
		if pg, ok := s.Pg[bus.ID]; ok {
			return pg
		}
	}
	return bus.Pg
}

// BranchOff reports whether the solution switched the branch off. Branches
// already out of service in the case count as switched off too.
func (s *Solution) BranchOff(n *Network, p BranchPair) bool {
	if br := n.Branch(p); br != nil && br.SwitchedOff() {
		return true
	}
	return s != nil && s.SwitchedOff[p]
}

// Violations holds constraint violation magnitudes computed by an external
// checker, keyed like Solution. Zero or absent entries mean no violation.
type Violations struct {
	VmViol    map[int]float64        // Voltage magnitude bound violation per bus
	PViol     map[int]float64        // Active power balance violation per bus
	QViol     map[int]float64        // Reactive power balance violation per bus
	LimitViol map[BranchPair]float64 // Branch limit violation per branch
}

// BusViolation returns the largest violation magnitude recorded for the bus,
// and whether any violation exists.
func (v *Violations) BusViolation(id int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	var magnitude float64
	found := false
	for _, m := range []map[int]float64{v.VmViol, v.PViol, v.QViol} {
		if m == nil {
			continue
		}
		if val, ok := m[id]; ok && val != 0 {
			found = true
			if abs(val) > abs(magnitude) {
				magnitude = val
			}
		}
	}
	return magnitude, found
}

// BranchViolation returns the limit violation for the branch, if any.
func (v *Violations) BranchViolation(p BranchPair) (float64, bool) {
	if v == nil || v.LimitViol == nil {
		return 0, false
	}
	val, ok := v.LimitViol[p]
	return val, ok && val != 0
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
