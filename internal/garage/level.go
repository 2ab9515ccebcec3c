package garage

// Level is one floor of the garage holding a fixed, ordered row of slots.
// The slot at position i always has slotIndex i.
type Level struct {
	index int
	slots []Slot
}

func newLevel(index, totalSlots int) *Level {
	l := &Level{index: index, slots: make([]Slot, totalSlots)}
	for i := range l.slots {
		l.slots[i] = Slot{levelIndex: index, slotIndex: i}
	}
	return l
}

// spotsAvailable returns the slot indices that would satisfy a request for
// the given number of slots, or nil when this level cannot satisfy it.
//
// A single-slot request gets the lowest-indexed free slot. A two-slot
// request gets the first adjacent free pair; two free slots that are not
// adjacent never satisfy it.
func (l *Level) spotsAvailable(needed int) []int {
	if needed == 1 {
		for i := range l.slots {
			if !l.slots[i].occupied {
				return []int{i}
			}
		}
		return nil
	}
	for i := 0; i+1 < len(l.slots); i++ {
		if !l.slots[i].occupied && !l.slots[i+1].occupied {
			return []int{i, i + 1}
		}
	}
	return nil
}

// assign occupies every listed slot for machineID. It re-verifies that all
// of them are still free first, so a stale candidate can never produce a
// partial commit: either every slot is taken or none is.
func (l *Level) assign(machineID string, indices []int) bool {
	for _, idx := range indices {
		if l.slots[idx].occupied {
			return false
		}
	}
	for _, idx := range indices {
		l.slots[idx].occupy(machineID)
	}
	return true
}

// remove vacates every slot currently held by machineID and reports
// whether any slot was vacated.
func (l *Level) remove(machineID string) bool {
	removed := false
	for i := range l.slots {
		if l.slots[i].occupied && l.slots[i].occupantID == machineID {
			l.slots[i].vacate()
			removed = true
		}
	}
	return removed
}

// freeCount returns how many slots on this level are currently free.
func (l *Level) freeCount() int {
	count := 0
	for i := range l.slots {
		if !l.slots[i].occupied {
			count++
		}
	}
	return count
}
