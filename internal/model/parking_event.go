package model

import "time"

// Actions recorded in the parking journal.
const (
	ActionPark   = "park"
	ActionUnpark = "unpark"
)

// ParkingEvent is one append-only journal row describing a completed park
// or unpark. The journal is history only; it never feeds back into
// allocation decisions and is not replayed on startup.
type ParkingEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	MachineID  string    `gorm:"size:64;not null;index"`
	Kind       string    `gorm:"size:16;not null"`
	Action     string    `gorm:"size:16;not null"`
	LevelIndex int       `gorm:"not null"`
	SlotList   string    `gorm:"size:128;not null"` // ascending slot indices, comma separated
	ObservedAt time.Time `gorm:"not null;index"`
}
