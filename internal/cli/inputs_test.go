package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/voltmaps/gridviz/pkg/network"
)

// writeTemp writes content to a file under a fresh temp dir and returns
// its path.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const triangleCase = `{
  "buses": [
    {"id": 1, "pd": 10.0, "pg": 0.0, "vm": 1.0, "va": 0.0},
    {"id": 5, "pd": 60.0, "pg": 0.0, "vm": 1.01, "va": -2.5},
    {"id": 9, "pd": 0.0, "pg": 90.0, "vm": 0.99, "va": 1.2}
  ],
  "branches": [
    {"from": 1, "to": 5, "rate_a": 250.0},
    {"from": 5, "to": 9, "rate_a": 250.0, "status": 0},
    {"from": 1, "to": 9, "rate_a": 100.0, "status": 1}
  ]
}`

func TestLoadCase(t *testing.T) {
	path := writeTemp(t, "case.json", triangleCase)
	net, err := loadCase(path)
	if err != nil {
		t.Fatalf("loadCase() error = %v", err)
	}
	if net.NumBuses() != 3 || net.NumBranches() != 3 {
		t.Fatalf("got %d buses, %d branches, want 3 and 3", net.NumBuses(), net.NumBranches())
	}

	// Counts follow list position.
	if count, _ := net.CountOf(9); count != 3 {
		t.Errorf("CountOf(9) = %d, want 3", count)
	}
	if bus := net.BusByID(5); bus == nil || bus.Pd != 60.0 {
		t.Errorf("BusByID(5) = %+v, want Pd=60", bus)
	}

	// Omitted status means in service; explicit 0 means switched off.
	if br := net.Branch(network.BranchPair{F: 1, T: 2}); br == nil || br.SwitchedOff() {
		t.Errorf("branch 1-5 should be in service, got %+v", br)
	}
	if br := net.Branch(network.BranchPair{F: 2, T: 3}); br == nil || !br.SwitchedOff() {
		t.Errorf("branch 5-9 should be switched off, got %+v", br)
	}
}

func TestLoadCaseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"buses": [`},
		{"unknown branch endpoint", `{"buses": [{"id": 1}], "branches": [{"from": 1, "to": 7}]}`},
		{"duplicate bus id", `{"buses": [{"id": 1}, {"id": 1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "case.json", tt.content)
			if _, err := loadCase(path); err == nil {
				t.Error("loadCase() error = nil, want error")
			}
		})
	}
	if _, err := loadCase(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("loadCase(missing) error = nil, want error")
	}
}

func TestLoadCoords(t *testing.T) {
	path := writeTemp(t, "coords.yaml", "1: [0.0, 100.0]\n5: [86.6, -50.0]\n9: [-86.6, -50.0]\n")
	coords, err := loadCoords(path)
	if err != nil {
		t.Fatalf("loadCoords() error = %v", err)
	}
	if len(coords) != 3 {
		t.Fatalf("got %d coordinates, want 3", len(coords))
	}
	if c := coords[5]; c.Lat != 86.6 || c.Lon != -50.0 {
		t.Errorf("coords[5] = %+v, want {86.6 -50}", c)
	}
}

func TestLoadCoordsWrongArity(t *testing.T) {
	path := writeTemp(t, "coords.yaml", "1: [0.0, 100.0, 3.0]\n")
	if _, err := loadCoords(path); err == nil {
		t.Error("loadCoords() error = nil, want error for 3-element pair")
	}
}

func TestLoadSolution(t *testing.T) {
	casePath := writeTemp(t, "case.json", triangleCase)
	net, err := loadCase(casePath)
	if err != nil {
		t.Fatal(err)
	}

	path := writeTemp(t, "solution.json", `{
	  "obj_val": 5296.69,
	  "pg": {"9": 70.0},
	  "vm": {"1": 1.0},
	  "switched_off": [{"from": 1, "to": 9}]
	}`)
	sol, err := loadSolution(path, net)
	if err != nil {
		t.Fatalf("loadSolution() error = %v", err)
	}
	if sol.ObjVal != 5296.69 {
		t.Errorf("ObjVal = %v, want 5296.69", sol.ObjVal)
	}
	if sol.Pg[9] != 70.0 {
		t.Errorf("Pg[9] = %v, want 70", sol.Pg[9])
	}
	// Branch refs resolve to internal counts (bus 1 is count 1, bus 9 is
	// count 3).
	if !sol.SwitchedOff[network.BranchPair{F: 1, T: 3}] {
		t.Errorf("SwitchedOff = %v, want branch {1 3} off", sol.SwitchedOff)
	}
}

func TestLoadSolutionUnknownBus(t *testing.T) {
	casePath := writeTemp(t, "case.json", triangleCase)
	net, err := loadCase(casePath)
	if err != nil {
		t.Fatal(err)
	}
	path := writeTemp(t, "solution.json", `{"switched_off": [{"from": 1, "to": 77}]}`)
	if _, err := loadSolution(path, net); err == nil {
		t.Error("loadSolution() error = nil, want error for unknown bus")
	}
}

func TestLoadViolations(t *testing.T) {
	casePath := writeTemp(t, "case.json", triangleCase)
	net, err := loadCase(casePath)
	if err != nil {
		t.Fatal(err)
	}

	path := writeTemp(t, "violations.json", `{
	  "vm_viol": {"5": 0.04},
	  "p_viol": {"9": -12.5},
	  "limit_viol": [{"from": 5, "to": 9, "value": 31.2}]
	}`)
	viol, err := loadViolations(path, net)
	if err != nil {
		t.Fatalf("loadViolations() error = %v", err)
	}
	if got, ok := viol.BusViolation(5); !ok || got != 0.04 {
		t.Errorf("BusViolation(5) = %v, %v, want 0.04, true", got, ok)
	}
	if got, ok := viol.BusViolation(9); !ok || got != -12.5 {
		t.Errorf("BusViolation(9) = %v, %v, want -12.5, true", got, ok)
	}
	if got, ok := viol.BranchViolation(network.BranchPair{F: 2, T: 3}); !ok || got != 31.2 {
		t.Errorf("BranchViolation({2 3}) = %v, %v, want 31.2, true", got, ok)
	}
}
