package garage

import (
	"fmt"
	"strings"
)

// MachineKind identifies the kind of machine requesting storage.
type MachineKind string

const (
	KindBike  MachineKind = "bike"
	KindCar   MachineKind = "car"
	KindTruck MachineKind = "truck"
)

// ParseKind converts a caller-supplied string into a MachineKind.
func ParseKind(s string) (MachineKind, error) {
	switch MachineKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBike:
		return KindBike, nil
	case KindCar:
		return KindCar, nil
	case KindTruck:
		return KindTruck, nil
	}
	return "", fmt.Errorf("unknown machine kind %q", s)
}

// SlotsNeeded returns how many slots a machine of this kind occupies.
// Trucks take two adjacent slots, everything else takes one.
func (k MachineKind) SlotsNeeded() int {
	if k == KindTruck {
		return 2
	}
	return 1
}

// Machine represents a vehicle-like entity, identified by a unique ID
// (e.g. a license plate) that stays stable while it is parked.
type Machine struct {
	ID   string
	Kind MachineKind
}
