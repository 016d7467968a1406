// Package ics renders bookings as an iCalendar feed of all-day events.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/codr1/labplanner/internal/layout"
	"github.com/codr1/labplanner/internal/models"
)

const defaultProductID = "-//labplanner//Booking Planner//EN"

type Options struct {
	ProductID    string
	CalendarName string
	// Equipment keeps only bookings on rows of this base equipment when set.
	Equipment string
	// Now stamps DTSTAMP; zero means time.Now.
	Now time.Time
}

// Export builds the calendar. Booking end dates are inclusive, so DTEND is
// the day after end_date. Bookings with unparseable dates are skipped and
// returned by id.
func Export(bookings []models.Booking, opts Options) (string, []int64) {
	productID := opts.ProductID
	if productID == "" {
		productID = defaultProductID
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	filter := strings.TrimSpace(opts.Equipment)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if opts.CalendarName != "" {
		cal.SetXWRCalName(opts.CalendarName)
	}

	var skipped []int64
	for _, b := range bookings {
		key := layout.ParseResourceKey(b.EquipmentID)
		if filter != "" && key.Equipment != filter {
			continue
		}
		start, err := layout.ParseDay(b.StartDate)
		if err != nil {
			skipped = append(skipped, b.ID)
			continue
		}
		end, err := layout.ParseDay(b.EndDate)
		if err != nil || end.Before(start) {
			skipped = append(skipped, b.ID)
			continue
		}

		event := cal.AddEvent(EventUID(b.ID))
		event.SetDtStampTime(now.UTC())
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(end.AddDate(0, 0, 1))
		event.SetSummary(summary(b))
		event.SetLocation(b.EquipmentID)
		if b.Note != nil && *b.Note != "" {
			event.SetDescription(*b.Note)
		}
		var categories []string
		if b.ProjectName != nil && *b.ProjectName != "" {
			categories = append(categories, *b.ProjectName)
		}
		if b.IsBlocker {
			categories = append(categories, "Blocker")
			event.SetProperty(ical.ComponentPropertyTransp, "TRANSPARENT")
		}
		if len(categories) > 0 {
			event.SetProperty(ical.ComponentPropertyCategories, strings.Join(categories, ","))
		}
		if b.ProjectColor != nil && *b.ProjectColor != "" {
			event.SetProperty(ical.ComponentPropertyColor, *b.ProjectColor)
		}
	}

	return cal.Serialize(), skipped
}

// EventUID is stable across exports so calendar clients update events in place.
func EventUID(bookingID int64) string {
	return fmt.Sprintf("booking-%d@labplanner", bookingID)
}

func summary(b models.Booking) string {
	if b.TMANumber != nil && *b.TMANumber != "" {
		return fmt.Sprintf("%s (%s)", b.Description, *b.TMANumber)
	}
	return b.Description
}
