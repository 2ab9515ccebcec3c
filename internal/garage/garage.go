package garage

import (
	"fmt"
	"sync"
)

// Placement records where a parked machine sits.
type Placement struct {
	Machine Machine
	Level   int
	Slots   []int
}

// LevelAvailability is the free-slot count for a single level.
type LevelAvailability struct {
	Level     int
	FreeSlots int
}

// Garage oversees all levels and is the only entry point for allocation.
// A single mutex serializes every operation end to end (search, commit and
// index update happen under one critical section), so no caller ever
// observes a torn intermediate state.
//
// The placements map is the sole cross-level index: one record per parked
// machine holding both its descriptor and its location, present exactly
// while the machine is parked.
type Garage struct {
	mu         sync.Mutex
	levels     []*Level
	placements map[string]Placement
}

// New constructs a garage with the given number of levels and slots per
// level. Both dimensions must be positive and are fixed for the garage's
// lifetime.
func New(totalLevels, slotsEach int) (*Garage, error) {
	if totalLevels <= 0 || slotsEach <= 0 {
		return nil, fmt.Errorf("garage dimensions must be positive, got %d level(s) x %d slot(s)", totalLevels, slotsEach)
	}
	g := &Garage{
		levels:     make([]*Level, totalLevels),
		placements: make(map[string]Placement),
	}
	for i := range g.levels {
		g.levels[i] = newLevel(i, slotsEach)
	}
	return g, nil
}

// LevelCount returns the number of levels the garage was built with.
func (g *Garage) LevelCount() int {
	return len(g.levels)
}

// Store parks a machine, trying levels in ascending order and taking the
// first one whose assignment commits. On success the returned placement
// lists the occupied slot indices in ascending order.
//
// Fails with ErrAlreadyParked when the machine ID is currently parked and
// with ErrNoSpace when no level can host it; neither leaves any partial
// state behind.
func (g *Garage) Store(m Machine) (Placement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.placements[m.ID]; ok {
		return Placement{}, fmt.Errorf("machine %q: %w", m.ID, ErrAlreadyParked)
	}

	needed := m.Kind.SlotsNeeded()
	for _, lvl := range g.levels {
		indices := lvl.spotsAvailable(needed)
		if indices == nil {
			continue
		}
		if !lvl.assign(m.ID, indices) {
			continue
		}
		p := Placement{Machine: m, Level: lvl.index, Slots: indices}
		g.placements[m.ID] = p
		// Same copy discipline as Locate: the caller's slice must not
		// alias the index.
		p.Slots = append([]int(nil), p.Slots...)
		return p, nil
	}

	return Placement{}, fmt.Errorf("machine %q (%s): %w", m.ID, m.Kind, ErrNoSpace)
}

// Unpark removes a parked machine, freeing every slot it holds, and
// returns the placement it held. Fails with ErrNotFound for unknown IDs.
//
// If the index says the machine is parked but its level holds no slot for
// it, the disagreement is surfaced as ErrInconsistent instead of being
// silently treated as success.
func (g *Garage) Unpark(machineID string) (Placement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.placements[machineID]
	if !ok {
		return Placement{}, fmt.Errorf("machine %q: %w", machineID, ErrNotFound)
	}

	if !g.levels[p.Level].remove(machineID) {
		return Placement{}, fmt.Errorf("machine %q recorded on level %d but holds no slot there: %w", machineID, p.Level, ErrInconsistent)
	}

	delete(g.placements, machineID)
	return p, nil
}

// Availability reports the free-slot count of every level, in level order.
func (g *Garage) Availability() []LevelAvailability {
	g.mu.Lock()
	defer g.mu.Unlock()

	avail := make([]LevelAvailability, len(g.levels))
	for i, lvl := range g.levels {
		avail[i] = LevelAvailability{Level: lvl.index, FreeSlots: lvl.freeCount()}
	}
	return avail
}

// IsFull reports whether every slot on every level is occupied.
func (g *Garage) IsFull() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, lvl := range g.levels {
		if lvl.freeCount() > 0 {
			return false
		}
	}
	return true
}

// Locate returns the placement of a parked machine, including its kind.
// Fails with ErrNotFound for machines that are not parked.
func (g *Garage) Locate(machineID string) (Placement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.placements[machineID]
	if !ok {
		return Placement{}, fmt.Errorf("machine %q: %w", machineID, ErrNotFound)
	}

	// Hand back a copy of the slot list so callers cannot reach into the
	// index.
	p.Slots = append([]int(nil), p.Slots...)
	return p, nil
}
