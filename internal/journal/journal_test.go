package journal

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"parking-garage-backend/internal/garage"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

func TestGormStore_RecordPark(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "parking_events"`)).
		WithArgs("TRK42", "truck", "park", 1, "2,3", Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := store.RecordPark(context.Background(), garage.Placement{
		Machine: garage.Machine{ID: "TRK42", Kind: garage.KindTruck},
		Level:   1,
		Slots:   []int{2, 3},
	}, now)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_RecordUnpark(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "parking_events"`)).
		WithArgs("ABC123", "car", "unpark", 0, "1", Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	err := store.RecordUnpark(context.Background(), garage.Placement{
		Machine: garage.Machine{ID: "ABC123", Kind: garage.KindCar},
		Level:   0,
		Slots:   []int{1},
	}, time.Now())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_RecentEvents(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "machine_id", "kind", "action", "level_index", "slot_list", "observed_at"}).
		AddRow(2, "ABC123", "car", "unpark", 0, "1", now).
		AddRow(1, "ABC123", "car", "park", 0, "1", now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT \* FROM "parking_events" WHERE machine_id = \$1 ORDER BY observed_at DESC, id DESC LIMIT \$2`).
		WithArgs("ABC123", 10).
		WillReturnRows(rows)

	events, err := store.RecentEvents(context.Background(), "ABC123", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "unpark", events[0].Action)
	assert.Equal(t, "park", events[1].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_RecentEventsDefaultLimit(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "parking_events" ORDER BY observed_at DESC, id DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.RecentEvents(context.Background(), "", 0)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotListRoundTrip(t *testing.T) {
	assert.Equal(t, "1,2", JoinSlots([]int{1, 2}))
	assert.Equal(t, "", JoinSlots(nil))
	assert.Equal(t, []int{1, 2}, SplitSlots("1,2"))
	assert.Nil(t, SplitSlots(""))
}
