// Package layout assigns bookings to display lanes within calendar rows.
//
// Bookings on the same row that overlap in time are stacked vertically; each
// one gets the lowest lane whose previous occupant ended before it starts.
// The greedy pass over start-sorted intervals uses the minimum number of lanes.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var ErrDuplicateBooking = errors.New("duplicate booking id")

// Booking is the engine's view of a booking: identity, row and inclusive dates.
type Booking struct {
	ID       int64
	Resource ResourceKey
	Start    string
	End      string
}

// DateError reports a booking whose dates cannot be laid out.
type DateError struct {
	BookingID int64
	Field     string
	Value     string
	Reason    string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("booking %d: %s %q %s", e.BookingID, e.Field, e.Value, e.Reason)
}

// Orphan is a booking whose row is not part of the layout.
type Orphan struct {
	BookingID int64       `json:"booking_id"`
	Resource  ResourceKey `json:"resource"`
}

// Result is the computed layout for one set of bookings and rows.
type Result struct {
	Lanes     map[int64]int
	MaxLanes  map[ResourceKey]int
	Resources []ResourceKey
	Orphans   []Orphan
}

// Lane returns the lane of a booking and whether it was laid out.
func (r Result) Lane(bookingID int64) (int, bool) {
	lane, ok := r.Lanes[bookingID]
	return lane, ok
}

// RowHeight returns max(base, lanes*laneHeight) for the row.
func (r Result) RowHeight(key ResourceKey, base, laneHeight int) int {
	return max(base, r.MaxLanes[key]*laneHeight)
}

type span struct {
	id    int64
	start time.Time
	end   time.Time
}

// Compute lays out bookings across the given rows. It does not modify its
// inputs. Unparsable or inverted dates fail the whole call with a *DateError;
// bookings on rows missing from resources are reported as orphans.
func Compute(bookings []Booking, resources []ResourceKey) (Result, error) {
	result := Result{
		Lanes:     make(map[int64]int, len(bookings)),
		MaxLanes:  make(map[ResourceKey]int, len(resources)),
		Resources: append([]ResourceKey(nil), resources...),
	}

	byResource := make(map[ResourceKey][]span, len(resources))
	for _, key := range resources {
		result.MaxLanes[key] = 0
		if _, ok := byResource[key]; !ok {
			byResource[key] = nil
		}
	}

	seen := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		if _, dup := seen[b.ID]; dup {
			return Result{}, fmt.Errorf("%w: %d", ErrDuplicateBooking, b.ID)
		}
		seen[b.ID] = struct{}{}

		start, err := ParseDay(b.Start)
		if err != nil {
			return Result{}, &DateError{BookingID: b.ID, Field: "start_date", Value: b.Start, Reason: "is not a valid date"}
		}
		end, err := ParseDay(b.End)
		if err != nil {
			return Result{}, &DateError{BookingID: b.ID, Field: "end_date", Value: b.End, Reason: "is not a valid date"}
		}
		if end.Before(start) {
			return Result{}, &DateError{BookingID: b.ID, Field: "end_date", Value: b.End, Reason: "is before start_date"}
		}

		spans, ok := byResource[b.Resource]
		if !ok {
			result.Orphans = append(result.Orphans, Orphan{BookingID: b.ID, Resource: b.Resource})
			continue
		}
		byResource[b.Resource] = append(spans, span{id: b.ID, start: start, end: end})
	}

	for key, spans := range byResource {
		result.MaxLanes[key] = assignLanes(spans, result.Lanes)
	}
	return result, nil
}

// assignLanes writes a lane per span into lanes and returns the lane count.
func assignLanes(spans []span, lanes map[int64]int) int {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].start.Before(spans[j].start)
	})

	var laneEnds []time.Time
	for _, s := range spans {
		assigned := -1
		for i, end := range laneEnds {
			if end.Before(s.start) {
				laneEnds[i] = s.end
				assigned = i
				break
			}
		}
		if assigned == -1 {
			laneEnds = append(laneEnds, s.end)
			assigned = len(laneEnds) - 1
		}
		lanes[s.id] = assigned
	}
	return len(laneEnds)
}

// ParseDay parses a calendar day. Full timestamps are accepted and truncated
// to the date they name; the result is always midnight UTC.
func ParseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{dayLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}
	var lastErr error
	for _, l := range layouts {
		t, err := time.Parse(l, raw)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatDay renders a day the way bookings store it.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}
