// Package network defines the in-memory model of an electrical network:
// buses (nodes), branches (lines and transformers), and the coordinate,
// solution, and violation data attached to them for plotting.
//
// A Network is built incrementally with AddBus and AddBranch, which validate
// on insert, and finalized with Validate, which checks that bus counts form
// the dense range [1, NumBuses()]. Buses carry two identifiers: the external
// bus ID from the case data, and an internal sequential count used by layout
// tools and figure builders.
//
// The zero value of Network is not usable - use New.
package network

import (
	"slices"

	"github.com/voltmaps/gridviz/pkg/errors"
)

// Bus represents a node in the electrical network (a substation or
// connection point).
type Bus struct {
	ID    int     // External bus identifier from the case data
	Count int     // Internal sequential count in [1, NumBuses]
	Pd    float64 // Active power demand (load), MW
	Pg    float64 // Total active generation at the bus, MW
	Vm    float64 // Voltage magnitude, p.u.
	Va    float64 // Voltage angle, degrees
}

// BranchPair keys a branch by the internal counts of its two endpoints.
type BranchPair struct {
	F int // From-bus count
	T int // To-bus count
}

// Branch represents an edge connecting two buses.
type Branch struct {
	CountF int     // From-bus count
	CountT int     // To-bus count
	RateA  float64 // Long-term MVA rating (0 = unlimited)
	Status int     // 1 = in service, 0 = switched off
}

// Pair returns the branch's key.
func (b *Branch) Pair() BranchPair { return BranchPair{F: b.CountF, T: b.CountT} }

// SwitchedOff reports whether the branch is out of service.
func (b *Branch) SwitchedOff() bool { return b.Status == 0 }

// Network is the internal representation of an electrical network consumed
// by the layout and plotting pipeline.
//
// Network is not safe for concurrent mutation without external
// synchronization; the plotting pipeline only reads it.
type Network struct {
	idToCount map[int]int
	countToID map[int]int
	buses     map[int]*Bus // keyed by count
	branches  map[BranchPair]*Branch
}

// New creates an empty network.
func New() *Network {
	return &Network{
		idToCount: make(map[int]int),
		countToID: make(map[int]int),
		buses:     make(map[int]*Bus),
		branches:  make(map[BranchPair]*Branch),
	}
}

// AddBus inserts a bus. The bus ID and count must both be unused, and the
// count must be positive.
func (n *Network) AddBus(b Bus) error {
	if b.Count < 1 {
		return errors.New(errors.ErrCodeInvalidNetwork, "bus %d: count %d must be positive", b.ID, b.Count)
	}
	if _, ok := n.idToCount[b.ID]; ok {
		return errors.New(errors.ErrCodeInvalidNetwork, "duplicate bus ID %d", b.ID)
	}
	if _, ok := n.countToID[b.Count]; ok {
		return errors.New(errors.ErrCodeInvalidNetwork, "duplicate bus count %d", b.Count)
	}
	bus := b
	n.idToCount[b.ID] = b.Count
	n.countToID[b.Count] = b.ID
	n.buses[b.Count] = &bus
	return nil
}

// AddBranch inserts a branch. Both endpoint counts must reference existing
// buses.
func (n *Network) AddBranch(br Branch) error {
	if _, ok := n.buses[br.CountF]; !ok {
		return errors.New(errors.ErrCodeInvalidNetwork, "branch %d--%d: unknown from-bus count %d", br.CountF, br.CountT, br.CountF)
	}
	if _, ok := n.buses[br.CountT]; !ok {
		return errors.New(errors.ErrCodeInvalidNetwork, "branch %d--%d: unknown to-bus count %d", br.CountF, br.CountT, br.CountT)
	}
	branch := br
	n.branches[branch.Pair()] = &branch
	return nil
}

// Validate checks that the bus counts form the dense range [1, NumBuses].
// AddBus and AddBranch already guarantee uniqueness and valid endpoints.
func (n *Network) Validate() error {
	for c := 1; c <= len(n.buses); c++ {
		if _, ok := n.buses[c]; !ok {
			return errors.New(errors.ErrCodeInvalidNetwork, "bus counts are not dense: missing count %d of %d", c, len(n.buses))
		}
	}
	return nil
}

// NumBuses returns the number of buses.
func (n *Network) NumBuses() int { return len(n.buses) }

// NumBranches returns the number of branches.
func (n *Network) NumBranches() int { return len(n.branches) }

// CountOf returns the internal count for a bus ID.
func (n *Network) CountOf(id int) (int, bool) {
	c, ok := n.idToCount[id]
	return c, ok
}

// IDOf returns the external bus ID for an internal count.
func (n *Network) IDOf(count int) (int, bool) {
	id, ok := n.countToID[count]
	return id, ok
}

// Bus returns the bus with the given count, or nil.
func (n *Network) Bus(count int) *Bus { return n.buses[count] }

// BusByID returns the bus with the given external ID, or nil.
func (n *Network) BusByID(id int) *Bus {
	c, ok := n.idToCount[id]
	if !ok {
		return nil
	}
	return n.buses[c]
}

// BusIDs returns all external bus IDs in ascending order.
func (n *Network) BusIDs() []int {
	ids := make([]int, 0, len(n.idToCount))
	for id := range n.idToCount {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Branches returns all branches in deterministic (key-sorted) order.
func (n *Network) Branches() []*Branch {
	pairs := make([]BranchPair, 0, len(n.branches))
	for p := range n.branches {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b BranchPair) int {
		if a.F != b.F {
			return a.F - b.F
		}
		return a.T - b.T
	})
	out := make([]*Branch, len(pairs))
	for i, p := range pairs {
		out[i] = n.branches[p]
	}
	return out
}

// Branch returns the branch with the given endpoint counts, or nil.
func (n *Network) Branch(p BranchPair) *Branch { return n.branches[p] }
