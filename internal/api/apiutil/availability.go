package apiutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
)

// Candidate is a booking about to be written. ID is zero for a new booking.
type Candidate struct {
	ID          int64
	EquipmentID string
	StartDate   string
	EndDate     string
	IsBlocker   bool
}

// CapacityError reports a booking that would overfill its row.
type CapacityError struct {
	EquipmentID string
	Capacity    int64
	Overlapping int
	Unknown     bool
}

func (e CapacityError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown equipment for row %q", e.EquipmentID)
	}
	return fmt.Sprintf("row %q is full: %d overlapping bookings, capacity %d", e.EquipmentID, e.Overlapping, e.Capacity)
}

// EffectiveCapacity is the smallest override max_tests covering any day of
// [start, end], or the equipment's own max_tests when none applies.
func EffectiveCapacity(ctx context.Context, q *dbgen.Queries, equipment dbgen.Equipment, start, end string) (int64, error) {
	overrides, err := q.ListCapacityOverridesInRange(ctx, dbgen.ListCapacityOverridesInRangeParams{
		EquipmentName: equipment.Name,
		EndDate:       end,
		StartDate:     start,
	})
	if err != nil {
		return 0, fmt.Errorf("load capacity overrides: %w", err)
	}
	capacity := equipment.MaxTests
	for i, o := range overrides {
		if i == 0 || o.MaxTests < capacity {
			capacity = o.MaxTests
		}
	}
	return capacity, nil
}

// CheckCapacity returns a CapacityError when the candidate collides.
// Rows of unknown equipment always collide. A blocker never collides; any
// other booking collides when the overlapping bookings on its row already
// reach capacity.
func CheckCapacity(ctx context.Context, q *dbgen.Queries, c Candidate) error {
	key := layout.ParseResourceKey(c.EquipmentID)
	equipment, err := q.GetEquipment(ctx, key.Equipment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CapacityError{EquipmentID: c.EquipmentID, Unknown: true}
		}
		return fmt.Errorf("load equipment: %w", err)
	}
	if c.IsBlocker {
		return nil
	}

	capacity, err := EffectiveCapacity(ctx, q, equipment, c.StartDate, c.EndDate)
	if err != nil {
		return err
	}

	overlapping, err := q.ListOverlappingBookings(ctx, dbgen.ListOverlappingBookingsParams{
		EquipmentID: c.EquipmentID,
		ExcludeID:   c.ID,
		EndDate:     c.EndDate,
		StartDate:   c.StartDate,
	})
	if err != nil {
		return fmt.Errorf("availability check failed: %w", err)
	}
	if int64(len(overlapping)) >= capacity {
		return CapacityError{EquipmentID: c.EquipmentID, Capacity: capacity, Overlapping: len(overlapping)}
	}
	return nil
}
