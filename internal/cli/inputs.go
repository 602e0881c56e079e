package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voltmaps/gridviz/pkg/network"
)

// =============================================================================
// Case Files
// =============================================================================

// caseFile is the on-disk JSON shape of a network case. Buses are assigned
// internal counts by their position in the list (1-based); branch endpoints
// reference external bus IDs.
type caseFile struct {
	Buses []struct {
		ID int     `json:"id"`
		Pd float64 `json:"pd"`
		Pg float64 `json:"pg"`
		Vm float64 `json:"vm"`
		Va float64 `json:"va"`
	} `json:"buses"`
	Branches []struct {
		From   int     `json:"from"`
		To     int     `json:"to"`
		RateA  float64 `json:"rate_a"`
		Status *int    `json:"status"` // nil means in service
	} `json:"branches"`
}

// loadCase reads a case file and converts it to the internal network
// representation.
func loadCase(path string) (*network.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case %s: %w", path, err)
	}
	var cf caseFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse case %s: %w", path, err)
	}

	net := network.New()
	for i, b := range cf.Buses {
		bus := network.Bus{ID: b.ID, Count: i + 1, Pd: b.Pd, Pg: b.Pg, Vm: b.Vm, Va: b.Va}
		if err := net.AddBus(bus); err != nil {
			return nil, err
		}
	}
	for _, br := range cf.Branches {
		countF, ok := net.CountOf(br.From)
		if !ok {
			return nil, fmt.Errorf("case %s: branch references unknown bus %d", path, br.From)
		}
		countT, ok := net.CountOf(br.To)
		if !ok {
			return nil, fmt.Errorf("case %s: branch references unknown bus %d", path, br.To)
		}
		status := 1
		if br.Status != nil {
			status = *br.Status
		}
		branch := network.Branch{CountF: countF, CountT: countT, RateA: br.RateA, Status: status}
		if err := net.AddBranch(branch); err != nil {
			return nil, err
		}
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// =============================================================================
// Coordinate Files
// =============================================================================

// loadCoords reads a YAML coordinate file mapping bus IDs to [lat, lon]
// pairs:
//
//	1: [0.0, 100.0]
//	5: [86.6, -50.0]
func loadCoords(path string) (network.CoordMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read coords %s: %w", path, err)
	}
	var raw map[int][]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse coords %s: %w", path, err)
	}

	coords := make(network.CoordMap, len(raw))
	for id, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("coords %s: bus %d has %d values, want [lat, lon]", path, id, len(pair))
		}
		coords[id] = network.Coordinate{Lat: pair[0], Lon: pair[1]}
	}
	return coords, nil
}

// =============================================================================
// Solution and Violation Files
// =============================================================================

// branchRef identifies a branch by its endpoint bus IDs in input files.
type branchRef struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// pair converts external bus IDs to an internal branch pair.
func (r branchRef) pair(net *network.Network) (network.BranchPair, error) {
	f, ok := net.CountOf(r.From)
	if !ok {
		return network.BranchPair{}, fmt.Errorf("unknown bus %d", r.From)
	}
	t, ok := net.CountOf(r.To)
	if !ok {
		return network.BranchPair{}, fmt.Errorf("unknown bus %d", r.To)
	}
	return network.BranchPair{F: f, T: t}, nil
}

type solutionFile struct {
	ObjVal      float64         `json:"obj_val"`
	Vm          map[int]float64 `json:"vm"`
	Va          map[int]float64 `json:"va"`
	Pg          map[int]float64 `json:"pg"`
	SwitchedOff []branchRef     `json:"switched_off"`
}

// loadSolution reads a solution file following the MATPOWER-style naming.
func loadSolution(path string, net *network.Network) (*network.Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read solution %s: %w", path, err)
	}
	var sf solutionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse solution %s: %w", path, err)
	}

	sol := &network.Solution{
		ObjVal: sf.ObjVal,
		Vm:     sf.Vm,
		Va:     sf.Va,
		Pg:     sf.Pg,
	}
	if len(sf.SwitchedOff) > 0 {
		sol.SwitchedOff = make(map[network.BranchPair]bool, len(sf.SwitchedOff))
		for _, ref := range sf.SwitchedOff {
			p, err := ref.pair(net)
			if err != nil {
				return nil, fmt.Errorf("solution %s: switched_off: %w", path, err)
			}
			sol.SwitchedOff[p] = true
		}
	}
	return sol, nil
}

type violationsFile struct {
	VmViol    map[int]float64 `json:"vm_viol"`
	PViol     map[int]float64 `json:"p_viol"`
	QViol     map[int]float64 `json:"q_viol"`
	LimitViol []struct {
		branchRef
		Value float64 `json:"value"`
	} `json:"limit_viol"`
}

// loadViolations reads a violations file.
func loadViolations(path string, net *network.Network) (*network.Violations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read violations %s: %w", path, err)
	}
	var vf violationsFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse violations %s: %w", path, err)
	}

	viol := &network.Violations{
		VmViol: vf.VmViol,
		PViol:  vf.PViol,
		QViol:  vf.QViol,
	}
	if len(vf.LimitViol) > 0 {
		viol.LimitViol = make(map[network.BranchPair]float64, len(vf.LimitViol))
		for _, lv := range vf.LimitViol {
			p, err := lv.pair(net)
			if err != nil {
				return nil, fmt.Errorf("violations %s: limit_viol: %w", path, err)
			}
			viol.LimitViol[p] = lv.Value
		}
	}
	return viol, nil
}
