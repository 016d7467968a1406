// internal/models/booking.go
package models

import (
	"database/sql"
	"encoding/json"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
)

// TextStyle is the per-booking label styling stored as JSON in bookings.text_style.
type TextStyle struct {
	Color      string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	FontSize   string `json:"font_size,omitempty"`
	FontWeight string `json:"font_weight,omitempty"`
	FontStyle  string `json:"font_style,omitempty"`
}

// Booking is the API shape of a stored booking.
type Booking struct {
	ID           int64     `json:"id"`
	Description  string    `json:"description"`
	TMANumber    *string   `json:"tma_number"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	EquipmentID  string    `json:"equipment_id"`
	ProjectName  *string   `json:"project_name"`
	ProjectColor *string   `json:"project_color"`
	Note         *string   `json:"note"`
	IsBlocker    bool      `json:"is_blocker"`
	TextStyle    TextStyle `json:"text_style"`
}

// BookingFromDB converts a row. A malformed text_style is logged and dropped.
func BookingFromDB(row dbgen.Booking) Booking {
	var style TextStyle
	if row.TextStyle != "" {
		if err := json.Unmarshal([]byte(row.TextStyle), &style); err != nil {
			log.Warn().Err(err).Int64("booking_id", row.ID).Msg("Invalid JSON in text_style")
			style = TextStyle{}
		}
	}
	return Booking{
		ID:           row.ID,
		Description:  row.Description,
		TMANumber:    nullStringPtr(row.TmaNumber),
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		EquipmentID:  row.EquipmentID,
		ProjectName:  nullStringPtr(row.ProjectName),
		ProjectColor: nullStringPtr(row.ProjectColor),
		Note:         nullStringPtr(row.Note),
		IsBlocker:    row.IsBlocker,
		TextStyle:    style,
	}
}

func BookingsFromDB(rows []dbgen.Booking) []Booking {
	bookings := make([]Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, BookingFromDB(row))
	}
	return bookings
}

// LayoutInput projects stored bookings onto the layout engine's input.
func LayoutInput(rows []dbgen.Booking) []layout.Booking {
	input := make([]layout.Booking, 0, len(rows))
	for _, row := range rows {
		input = append(input, layout.Booking{
			ID:       row.ID,
			Resource: layout.ParseResourceKey(row.EquipmentID),
			Start:    row.StartDate,
			End:      row.EndDate,
		})
	}
	return input
}

// EncodeTextStyle serialises a style for storage; the zero style is "{}".
func EncodeTextStyle(style TextStyle) string {
	data, err := json.Marshal(style)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
