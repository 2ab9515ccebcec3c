package journal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"parking-garage-backend/internal/garage"
	"parking-garage-backend/internal/model"
)

// Store defines the persistence operations for the parking journal.
type Store interface {
	DB() *gorm.DB
	RecordPark(ctx context.Context, p garage.Placement, at time.Time) error
	RecordUnpark(ctx context.Context, p garage.Placement, at time.Time) error
	RecentEvents(ctx context.Context, machineID string, limit int) ([]model.ParkingEvent, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed journal store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that manage
// subscriptions directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// RecordPark appends a journal row for a successful park.
func (s *gormStore) RecordPark(ctx context.Context, p garage.Placement, at time.Time) error {
	return s.record(ctx, model.ActionPark, p, at)
}

// RecordUnpark appends a journal row for a successful unpark. The
// placement is the one the machine held before it was removed.
func (s *gormStore) RecordUnpark(ctx context.Context, p garage.Placement, at time.Time) error {
	return s.record(ctx, model.ActionUnpark, p, at)
}

func (s *gormStore) record(ctx context.Context, action string, p garage.Placement, at time.Time) error {
	ev := model.ParkingEvent{
		MachineID:  p.Machine.ID,
		Kind:       string(p.Machine.Kind),
		Action:     action,
		LevelIndex: p.Level,
		SlotList:   JoinSlots(p.Slots),
		ObservedAt: at,
	}
	if err := s.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return fmt.Errorf("failed to record %s event for machine %s: %w", action, p.Machine.ID, err)
	}
	return nil
}

// RecentEvents returns up to limit journal rows, newest first, optionally
// filtered to a single machine ID.
func (s *gormStore) RecentEvents(ctx context.Context, machineID string, limit int) ([]model.ParkingEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Model(&model.ParkingEvent{}).
		Order("observed_at DESC, id DESC").
		Limit(limit)
	if machineID != "" {
		q = q.Where("machine_id = ?", machineID)
	}

	var events []model.ParkingEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query journal events: %w", err)
	}
	return events, nil
}

// JoinSlots renders slot indices as a comma-separated list for storage.
func JoinSlots(slots []int) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// SplitSlots parses a stored slot list back into indices. Malformed
// entries are skipped.
func SplitSlots(list string) []int {
	if list == "" {
		return nil
	}
	var slots []int
	for _, part := range strings.Split(list, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			slots = append(slots, n)
		}
	}
	return slots
}
