package garage

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertConsistent verifies the cross-structure invariants: every placement
// points at slots occupied by exactly that machine, placement sizes match
// the machine kind's demand, and no slot is held by an unplaced machine.
func assertConsistent(t *testing.T, g *Garage) {
	t.Helper()

	held := make(map[string]int)
	for _, lvl := range g.levels {
		for i := range lvl.slots {
			s := &lvl.slots[i]
			assert.Equal(t, s.occupied, s.occupantID != "", "slot (%d,%d) occupancy flag and occupant disagree", lvl.index, i)
			if s.occupied {
				held[s.occupantID]++
			}
		}
	}

	for id, p := range g.placements {
		assert.Len(t, p.Slots, p.Machine.Kind.SlotsNeeded(), "machine %s", id)
		assert.Equal(t, len(p.Slots), held[id], "machine %s holds slots outside its placement", id)
		for _, idx := range p.Slots {
			s := g.levels[p.Level].slots[idx]
			assert.True(t, s.occupied)
			assert.Equal(t, id, s.occupantID)
		}
	}

	for id := range held {
		_, ok := g.placements[id]
		assert.True(t, ok, "slot held by machine %s which has no placement", id)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Car ")
	require.NoError(t, err)
	assert.Equal(t, KindCar, k)

	_, err = ParseKind("submarine")
	assert.Error(t, err)

	assert.Equal(t, 1, KindBike.SlotsNeeded())
	assert.Equal(t, 1, KindCar.SlotsNeeded())
	assert.Equal(t, 2, KindTruck.SlotsNeeded())
}

func TestNewRejectsBadDimensions(t *testing.T) {
	_, err := New(0, 4)
	assert.Error(t, err)
	_, err = New(2, -1)
	assert.Error(t, err)

	g, err := New(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, g.LevelCount())
}

// Fills a single level of four slots: bike, truck (which must skip the
// taken slot 0 and land on the 1-2 pair), another single, then overflow.
func TestStoreSingleLevelFirstFit(t *testing.T) {
	g, err := New(1, 4)
	require.NoError(t, err)

	p, err := g.Store(Machine{ID: "A", Kind: KindBike})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Level)
	assert.Equal(t, []int{0}, p.Slots)

	p, err = g.Store(Machine{ID: "T", Kind: KindTruck})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Level)
	assert.Equal(t, []int{1, 2}, p.Slots)

	p, err = g.Store(Machine{ID: "B", Kind: KindCar})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, p.Slots)

	_, err = g.Store(Machine{ID: "C", Kind: KindCar})
	assert.ErrorIs(t, err, ErrNoSpace)
	assertConsistent(t, g)
}

// The lowest level with a valid adjacent pair wins.
func TestStorePrefersLowestLevel(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)

	p, err := g.Store(Machine{ID: "T1", Kind: KindTruck})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Level)
	assert.Equal(t, []int{0, 1}, p.Slots)
}

// A level whose only free slots are non-adjacent cannot host a truck; the
// garage must fall through to the next level instead of failing outright.
func TestStoreTruckSkipsFragmentedLevel(t *testing.T) {
	g, err := New(2, 3)
	require.NoError(t, err)

	// Fragment level 0: occupy the middle slot so 0 and 2 are free but
	// not adjacent.
	require.True(t, g.levels[0].assign("filler", []int{1}))
	g.placements["filler"] = Placement{Machine: Machine{ID: "filler", Kind: KindBike}, Level: 0, Slots: []int{1}}

	p, err := g.Store(Machine{ID: "T", Kind: KindTruck})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, []int{0, 1}, p.Slots)
	assertConsistent(t, g)
}

func TestStoreAlreadyParked(t *testing.T) {
	g, err := New(1, 4)
	require.NoError(t, err)

	_, err = g.Store(Machine{ID: "A", Kind: KindCar})
	require.NoError(t, err)

	_, err = g.Store(Machine{ID: "A", Kind: KindCar})
	assert.ErrorIs(t, err, ErrAlreadyParked)

	avail := g.Availability()
	assert.Equal(t, 3, avail[0].FreeSlots, "failed store must not consume slots")
}

func TestUnparkRoundTripAndIdempotence(t *testing.T) {
	g, err := New(2, 3)
	require.NoError(t, err)

	before := g.Availability()

	_, err = g.Store(Machine{ID: "T", Kind: KindTruck})
	require.NoError(t, err)

	p, err := g.Unpark("T")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Level)
	assert.Equal(t, []int{0, 1}, p.Slots)
	assert.Equal(t, KindTruck, p.Machine.Kind)

	// Free counts are restored on every level.
	assert.Equal(t, before, g.Availability())

	// A second unpark for the same ID fails with NotFound.
	_, err = g.Unpark("T")
	assert.ErrorIs(t, err, ErrNotFound)
	assertConsistent(t, g)
}

func TestUnparkSurfacesInconsistency(t *testing.T) {
	g, err := New(1, 2)
	require.NoError(t, err)

	// A placement with no backing slots: the index and level disagree.
	g.placements["GHOST"] = Placement{Machine: Machine{ID: "GHOST", Kind: KindCar}, Level: 0, Slots: []int{0}}

	_, err = g.Unpark("GHOST")
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestLocate(t *testing.T) {
	g, err := New(2, 4)
	require.NoError(t, err)

	_, err = g.Locate("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := g.Store(Machine{ID: "T", Kind: KindTruck})
	require.NoError(t, err)

	located, err := g.Locate("T")
	require.NoError(t, err)
	assert.Equal(t, stored.Level, located.Level)
	assert.Equal(t, stored.Slots, located.Slots)
	assert.Equal(t, KindTruck, located.Machine.Kind)

	// Mutating the returned slice must not corrupt the index.
	located.Slots[0] = 99
	again, err := g.Locate("T")
	require.NoError(t, err)
	assert.Equal(t, stored.Slots, again.Slots)
}

func TestIsFullMatchesAvailability(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	assert.False(t, g.IsFull())

	for i := 0; ; i++ {
		_, err := g.Store(Machine{ID: fmt.Sprintf("M%d", i), Kind: KindCar})
		if err != nil {
			assert.ErrorIs(t, err, ErrNoSpace)
			break
		}
	}

	assert.True(t, g.IsFull())
	for _, a := range g.Availability() {
		assert.Zero(t, a.FreeSlots)
	}

	_, err = g.Unpark("M0")
	require.NoError(t, err)
	assert.False(t, g.IsFull())
}

// The same operation sequence on a fresh garage must yield identical
// placements and failures: candidate selection has no randomness.
func TestDeterministicPlacement(t *testing.T) {
	run := func() []Placement {
		g, err := New(3, 4)
		require.NoError(t, err)
		machines := []Machine{
			{ID: "a", Kind: KindCar},
			{ID: "t1", Kind: KindTruck},
			{ID: "b", Kind: KindBike},
			{ID: "t2", Kind: KindTruck},
			{ID: "c", Kind: KindCar},
		}
		var placements []Placement
		for _, m := range machines {
			p, err := g.Store(m)
			require.NoError(t, err)
			placements = append(placements, p)
		}
		_, err = g.Unpark("t1")
		require.NoError(t, err)
		p, err := g.Store(Machine{ID: "t3", Kind: KindTruck})
		require.NoError(t, err)
		return append(placements, p)
	}

	assert.Equal(t, run(), run())
}

// Concurrent park/unpark churn must never violate the consistency
// invariants or lose slots.
func TestConcurrentChurn(t *testing.T) {
	g, err := New(3, 8)
	require.NoError(t, err)

	const workers = 12
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			kind := KindCar
			if w%3 == 0 {
				kind = KindTruck
			}
			id := fmt.Sprintf("W%d", w)
			for i := 0; i < 200; i++ {
				_, err := g.Store(Machine{ID: id, Kind: kind})
				if err != nil {
					if !errors.Is(err, ErrNoSpace) {
						t.Errorf("store: %v", err)
					}
					continue
				}
				if _, err := g.Unpark(id); err != nil {
					t.Errorf("unpark: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	assertConsistent(t, g)
	total := 0
	for _, a := range g.Availability() {
		total += a.FreeSlots
	}
	assert.Equal(t, 24, total, "all slots must be free after churn")
}
