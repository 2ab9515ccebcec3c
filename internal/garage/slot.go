package garage

// Slot is a single parking spot on a level. Its coordinates are fixed at
// construction; only occupancy changes over its lifetime.
//
// Invariant: occupied == false exactly when occupantID is empty.
type Slot struct {
	levelIndex int
	slotIndex  int
	occupied   bool
	occupantID string
}

// occupy marks the slot as held by machineID. It reports false and leaves
// the slot untouched when the slot is already occupied.
func (s *Slot) occupy(machineID string) bool {
	if s.occupied {
		return false
	}
	s.occupantID = machineID
	s.occupied = true
	return true
}

// vacate frees the slot. It reports false when the slot is already free.
func (s *Slot) vacate() bool {
	if !s.occupied {
		return false
	}
	s.occupantID = ""
	s.occupied = false
	return true
}
