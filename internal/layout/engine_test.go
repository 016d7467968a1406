package layout

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

func TestCompute_Scenarios(t *testing.T) {
	r := WholeUnit("R")

	tests := []struct {
		name      string
		bookings  []Booking
		wantLanes map[int64]int
		wantMax   int
	}{
		{
			name: "adjacent bookings share a lane",
			bookings: []Booking{
				{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-03"},
				{ID: 2, Resource: r, Start: "2024-01-04", End: "2024-01-06"},
			},
			wantLanes: map[int64]int{1: 0, 2: 0},
			wantMax:   1,
		},
		{
			name: "nested booking opens a second lane",
			bookings: []Booking{
				{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-05"},
				{ID: 2, Resource: r, Start: "2024-01-03", End: "2024-01-04"},
			},
			wantLanes: map[int64]int{1: 0, 2: 1},
			wantMax:   2,
		},
		{
			name: "identical ranges stack in input order",
			bookings: []Booking{
				{ID: 7, Resource: r, Start: "2024-01-01", End: "2024-01-10"},
				{ID: 3, Resource: r, Start: "2024-01-01", End: "2024-01-10"},
				{ID: 5, Resource: r, Start: "2024-01-01", End: "2024-01-10"},
			},
			wantLanes: map[int64]int{7: 0, 3: 1, 5: 2},
			wantMax:   3,
		},
		{
			name:      "no bookings",
			bookings:  nil,
			wantLanes: map[int64]int{},
			wantMax:   0,
		},
		{
			name: "end equal to next start does not share",
			bookings: []Booking{
				{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-03"},
				{ID: 2, Resource: r, Start: "2024-01-03", End: "2024-01-03"},
			},
			wantLanes: map[int64]int{1: 0, 2: 1},
			wantMax:   2,
		},
		{
			name: "single day bookings on consecutive days",
			bookings: []Booking{
				{ID: 1, Resource: r, Start: "2024-02-01", End: "2024-02-01"},
				{ID: 2, Resource: r, Start: "2024-02-02", End: "2024-02-02"},
			},
			wantLanes: map[int64]int{1: 0, 2: 0},
			wantMax:   1,
		},
		{
			name: "freed lane is reused before opening a new one",
			bookings: []Booking{
				{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-02"},
				{ID: 2, Resource: r, Start: "2024-01-01", End: "2024-01-10"},
				{ID: 3, Resource: r, Start: "2024-01-05", End: "2024-01-06"},
			},
			wantLanes: map[int64]int{1: 0, 2: 1, 3: 0},
			wantMax:   2,
		},
		{
			name: "unsorted input is sorted by start",
			bookings: []Booking{
				{ID: 2, Resource: r, Start: "2024-01-04", End: "2024-01-06"},
				{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-03"},
			},
			wantLanes: map[int64]int{1: 0, 2: 0},
			wantMax:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compute(tt.bookings, []ResourceKey{r})
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if got := result.MaxLanes[r]; got != tt.wantMax {
				t.Fatalf("max lanes: got %d, want %d", got, tt.wantMax)
			}
			if len(result.Lanes) != len(tt.wantLanes) {
				t.Fatalf("lane count: got %d, want %d", len(result.Lanes), len(tt.wantLanes))
			}
			for id, want := range tt.wantLanes {
				got, ok := result.Lane(id)
				if !ok {
					t.Fatalf("booking %d not laid out", id)
				}
				if got != want {
					t.Errorf("booking %d: got lane %d, want %d", id, got, want)
				}
			}
		})
	}
}

func TestCompute_ResourcesAreIndependent(t *testing.T) {
	a := WholeUnit("EKV-2000")
	b := SideOf("VTS-200", SideStrana, 1)

	bookings := []Booking{
		{ID: 1, Resource: a, Start: "2024-03-01", End: "2024-03-10"},
		{ID: 2, Resource: b, Start: "2024-03-01", End: "2024-03-10"},
		{ID: 3, Resource: a, Start: "2024-03-05", End: "2024-03-06"},
		{ID: 4, Resource: b, Start: "2024-03-11", End: "2024-03-12"},
	}

	result, err := Compute(bookings, []ResourceKey{a, b})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.MaxLanes[a] != 2 {
		t.Errorf("resource a max lanes: got %d, want 2", result.MaxLanes[a])
	}
	if result.MaxLanes[b] != 1 {
		t.Errorf("resource b max lanes: got %d, want 1", result.MaxLanes[b])
	}
	if lane, _ := result.Lane(2); lane != 0 {
		t.Errorf("booking 2 lane: got %d, want 0", lane)
	}
	if lane, _ := result.Lane(4); lane != 0 {
		t.Errorf("booking 4 lane: got %d, want 0", lane)
	}

	alone, err := Compute(bookings[1:2], []ResourceKey{b})
	if err != nil {
		t.Fatalf("compute alone: %v", err)
	}
	if lane, _ := alone.Lane(2); lane != 0 || alone.MaxLanes[b] != 1 {
		t.Errorf("resource b changed when computed alone: lane %d max %d", lane, alone.MaxLanes[b])
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	result, err := Compute(nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Lanes == nil || result.MaxLanes == nil {
		t.Fatalf("expected initialised maps")
	}
	if len(result.Lanes) != 0 || len(result.MaxLanes) != 0 || len(result.Orphans) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestCompute_RowHeight(t *testing.T) {
	r := WholeUnit("R")
	empty := WholeUnit("Empty")
	bookings := []Booking{
		{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-05"},
		{ID: 2, Resource: r, Start: "2024-01-02", End: "2024-01-05"},
		{ID: 3, Resource: r, Start: "2024-01-03", End: "2024-01-05"},
	}
	result, err := Compute(bookings, []ResourceKey{r, empty})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got := result.RowHeight(r, 60, 40); got != 120 {
		t.Errorf("row height: got %d, want 120", got)
	}
	if got := result.RowHeight(empty, 60, 40); got != 60 {
		t.Errorf("empty row height: got %d, want 60", got)
	}
}

func TestCompute_Orphans(t *testing.T) {
	known := WholeUnit("EKV-2000")
	unknown := SideOf("EKV-2000", SideStrana, 3)

	result, err := Compute([]Booking{
		{ID: 1, Resource: known, Start: "2024-01-01", End: "2024-01-02"},
		{ID: 2, Resource: unknown, Start: "2024-01-01", End: "2024-01-02"},
	}, []ResourceKey{known})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(result.Orphans) != 1 || result.Orphans[0].BookingID != 2 {
		t.Fatalf("orphans: %+v", result.Orphans)
	}
	if _, ok := result.Lane(2); ok {
		t.Fatalf("orphaned booking must not get a lane")
	}
	if result.MaxLanes[known] != 1 {
		t.Fatalf("max lanes: %d", result.MaxLanes[known])
	}
}

func TestCompute_InvalidDates(t *testing.T) {
	r := WholeUnit("R")

	tests := []struct {
		name      string
		booking   Booking
		wantField string
	}{
		{"garbage start", Booking{ID: 9, Resource: r, Start: "not-a-date", End: "2024-01-01"}, "start_date"},
		{"empty end", Booking{ID: 9, Resource: r, Start: "2024-01-01", End: ""}, "end_date"},
		{"impossible day", Booking{ID: 9, Resource: r, Start: "2024-02-30", End: "2024-03-01"}, "start_date"},
		{"inverted range", Booking{ID: 9, Resource: r, Start: "2024-01-05", End: "2024-01-01"}, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := Booking{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-02"}
			_, err := Compute([]Booking{ok, tt.booking}, []ResourceKey{r})
			var dateErr *DateError
			if !errors.As(err, &dateErr) {
				t.Fatalf("expected DateError, got %v", err)
			}
			if dateErr.BookingID != 9 {
				t.Errorf("booking id: got %d, want 9", dateErr.BookingID)
			}
			if dateErr.Field != tt.wantField {
				t.Errorf("field: got %s, want %s", dateErr.Field, tt.wantField)
			}
		})
	}
}

func TestCompute_DuplicateIDs(t *testing.T) {
	r := WholeUnit("R")
	_, err := Compute([]Booking{
		{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-02"},
		{ID: 1, Resource: r, Start: "2024-01-03", End: "2024-01-04"},
	}, []ResourceKey{r})
	if !errors.Is(err, ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	r := WholeUnit("R")
	bookings := []Booking{
		{ID: 2, Resource: r, Start: "2024-01-04", End: "2024-01-06"},
		{ID: 1, Resource: r, Start: "2024-01-01", End: "2024-01-03"},
	}
	if _, err := Compute(bookings, []ResourceKey{r}); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if bookings[0].ID != 2 || bookings[1].ID != 1 {
		t.Fatalf("input reordered: %+v", bookings)
	}
}

func TestCompute_TimestampsTruncateToDay(t *testing.T) {
	r := WholeUnit("R")
	result, err := Compute([]Booking{
		{ID: 1, Resource: r, Start: "2024-01-01T08:00:00Z", End: "2024-01-03T23:59:00Z"},
		{ID: 2, Resource: r, Start: "2024-01-04T00:30:00Z", End: "2024-01-05"},
	}, []ResourceKey{r})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.MaxLanes[r] != 1 {
		t.Fatalf("max lanes: got %d, want 1", result.MaxLanes[r])
	}
}

func TestCompute_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	keys := []ResourceKey{WholeUnit("A"), SideOf("B", SideStrana, 1), SideOf("B", SideStrana, 2)}

	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		bookings := make([]Booking, 0, n)
		for i := 0; i < n; i++ {
			start := base.AddDate(0, 0, rng.Intn(60))
			end := start.AddDate(0, 0, rng.Intn(10))
			bookings = append(bookings, Booking{
				ID:       int64(i + 1),
				Resource: keys[rng.Intn(len(keys))],
				Start:    FormatDay(start),
				End:      FormatDay(end),
			})
		}

		first, err := Compute(bookings, keys)
		if err != nil {
			t.Fatalf("round %d: compute: %v", round, err)
		}
		second, err := Compute(bookings, keys)
		if err != nil {
			t.Fatalf("round %d: recompute: %v", round, err)
		}

		for _, key := range keys {
			var onKey []Booking
			for _, b := range bookings {
				if b.Resource == key {
					onKey = append(onKey, b)
				}
			}
			assertNoLaneOverlap(t, first, onKey)
			if got, want := first.MaxLanes[key], maxOverlap(t, onKey); got != want {
				t.Fatalf("round %d %s: max lanes %d, optimal %d", round, key, got, want)
			}
			if first.MaxLanes[key] != second.MaxLanes[key] {
				t.Fatalf("round %d %s: max lanes not idempotent", round, key)
			}
		}
		for id, lane := range first.Lanes {
			if second.Lanes[id] != lane {
				t.Fatalf("round %d: booking %d lane changed between runs", round, id)
			}
		}
	}
}

func assertNoLaneOverlap(t *testing.T, result Result, bookings []Booking) {
	t.Helper()
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			if result.Lanes[a.ID] != result.Lanes[b.ID] {
				continue
			}
			if overlaps(t, a, b) {
				t.Fatalf("bookings %d and %d overlap in lane %d", a.ID, b.ID, result.Lanes[a.ID])
			}
		}
	}
}

func overlaps(t *testing.T, a, b Booking) bool {
	t.Helper()
	as, ae := mustDay(t, a.Start), mustDay(t, a.End)
	bs, be := mustDay(t, b.Start), mustDay(t, b.End)
	return !as.After(be) && !bs.After(ae)
}

// maxOverlap returns the largest number of bookings covering a single day.
func maxOverlap(t *testing.T, bookings []Booking) int {
	t.Helper()
	counts := make(map[string]int)
	best := 0
	for _, b := range bookings {
		for d := mustDay(t, b.Start); !d.After(mustDay(t, b.End)); d = d.AddDate(0, 0, 1) {
			day := FormatDay(d)
			counts[day]++
			best = max(best, counts[day])
		}
	}
	return best
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := ParseDay(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return d
}

func ExampleCompute() {
	r := WholeUnit("EKV-2000")
	result, _ := Compute([]Booking{
		{ID: 101, Resource: r, Start: "2024-01-01", End: "2024-01-05"},
		{ID: 102, Resource: r, Start: "2024-01-03", End: "2024-01-04"},
	}, []ResourceKey{r})
	fmt.Println(result.Lanes[101], result.Lanes[102], result.MaxLanes[r])
	// Output: 0 1 2
}
