// Package legacy imports the JSON files the planner kept before it moved to
// SQLite, and seeds sample data.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/labplanner/internal/config"
	appdb "github.com/codr1/labplanner/internal/db"
	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
)

type Booking struct {
	ID           int64           `json:"id"`
	Description  string          `json:"description"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	EquipmentID  string          `json:"equipment_id"`
	ProjectName  *string         `json:"project_name"`
	ProjectColor *string         `json:"project_color"`
	Note         *string         `json:"note"`
	IsBlocker    bool            `json:"is_blocker"`
	TextStyle    json.RawMessage `json:"text_style"`
}

type Equipment struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	MaxTests *int64 `json:"max_tests"`
	Sides    *int64 `json:"sides"`
	Status   string `json:"status"`
}

type Project struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
	Active    *bool  `json:"active"`
}

// Report summarises one import.
type Report struct {
	Imported int
	// MissingTMA lists bookings whose description carried no TMA number.
	MissingTMA []int64
}

type Importer struct {
	DB       *appdb.DB
	TMA      *regexp.Regexp
	Defaults config.DefaultsConfig
}

// NewImporter compiles the TMA pattern from cfg.
func NewImporter(database *appdb.DB, cfg *config.Config) (*Importer, error) {
	re, err := regexp.Compile(cfg.Booking.TMAPattern)
	if err != nil {
		return nil, fmt.Errorf("compile tma pattern: %w", err)
	}
	return &Importer{DB: database, TMA: re, Defaults: cfg.Defaults}, nil
}

// SplitTMA pulls the first TMA number out of a description and returns the
// description without it.
func SplitTMA(re *regexp.Regexp, description string) (string, *string) {
	tma := re.FindString(description)
	if tma == "" {
		return description, nil
	}
	stripped := strings.TrimSpace(strings.Replace(description, tma, "", 1))
	return strings.Join(strings.Fields(stripped), " "), &tma
}

// ImportBookings reads {"bookings": [...]} and upserts every booking by id.
func (im *Importer) ImportBookings(ctx context.Context, r io.Reader) (Report, error) {
	var file struct {
		Bookings []Booking `json:"bookings"`
	}
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return Report{}, fmt.Errorf("decode bookings file: %w", err)
	}

	var report Report
	err := im.DB.RunInTx(ctx, func(txdb *appdb.DB) error {
		for _, b := range file.Bookings {
			start, end, err := normalizeRange(b.StartDate, b.EndDate)
			if err != nil {
				return fmt.Errorf("import booking %d: %w", b.ID, err)
			}
			description, tma := SplitTMA(im.TMA, b.Description)
			if tma == nil {
				report.MissingTMA = append(report.MissingTMA, b.ID)
				log.Warn().Int64("booking_id", b.ID).Str("description", description).Msg("TMA number not found in description")
			}
			if err := txdb.Queries.UpsertBooking(ctx, dbgen.UpsertBookingParams{
				ID:           b.ID,
				Description:  description,
				TmaNumber:    nullString(tma),
				StartDate:    start,
				EndDate:      end,
				EquipmentID:  b.EquipmentID,
				ProjectName:  nullString(b.ProjectName),
				ProjectColor: nullString(b.ProjectColor),
				Note:         nullString(b.Note),
				IsBlocker:    b.IsBlocker,
				TextStyle:    compactStyle(b.TextStyle),
			}); err != nil {
				return fmt.Errorf("import booking %d: %w", b.ID, err)
			}
			report.Imported++
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

// ImportEquipment reads a JSON array of equipment and upserts by name.
func (im *Importer) ImportEquipment(ctx context.Context, r io.Reader) (Report, error) {
	var items []Equipment
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return Report{}, fmt.Errorf("decode equipment file: %w", err)
	}

	var report Report
	err := im.DB.RunInTx(ctx, func(txdb *appdb.DB) error {
		for _, e := range items {
			if strings.TrimSpace(e.Name) == "" {
				return fmt.Errorf("equipment entry %d has no name", report.Imported+1)
			}
			sides := int64Or(e.Sides, im.Defaults.Sides)
			if sides < 1 || (im.Defaults.MaxSides > 0 && sides > im.Defaults.MaxSides) {
				return fmt.Errorf("equipment %q: sides %d out of range", e.Name, sides)
			}
			status := e.Status
			if status == "" {
				status = im.Defaults.EquipmentStatus
			}
			if err := txdb.Queries.UpsertEquipment(ctx, dbgen.UpsertEquipmentParams{
				Name:     e.Name,
				Category: e.Category,
				MaxTests: int64Or(e.MaxTests, im.Defaults.MaxTests),
				Sides:    sides,
				Status:   status,
			}); err != nil {
				return fmt.Errorf("import equipment %q: %w", e.Name, err)
			}
			report.Imported++
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

// ImportProjects reads {"projects": [...]} and upserts by name.
func (im *Importer) ImportProjects(ctx context.Context, r io.Reader) (Report, error) {
	var file struct {
		Projects []Project `json:"projects"`
	}
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return Report{}, fmt.Errorf("decode projects file: %w", err)
	}

	var report Report
	err := im.DB.RunInTx(ctx, func(txdb *appdb.DB) error {
		for _, p := range file.Projects {
			textColor := p.TextColor
			if textColor == "" {
				textColor = im.Defaults.TextColor
			}
			if err := txdb.Queries.UpsertProject(ctx, dbgen.UpsertProjectParams{
				Name:      p.Name,
				Color:     p.Color,
				TextColor: textColor,
				Active:    p.Active == nil || *p.Active,
			}); err != nil {
				return fmt.Errorf("import project %q: %w", p.Name, err)
			}
			report.Imported++
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

// normalizeRange rewrites both dates as YYYY-MM-DD so stored ranges compare
// correctly as text, and rejects unparsable or inverted ranges.
func normalizeRange(rawStart, rawEnd string) (string, string, error) {
	start, err := layout.ParseDay(rawStart)
	if err != nil {
		return "", "", fmt.Errorf("start_date %q is not a valid date", rawStart)
	}
	end, err := layout.ParseDay(rawEnd)
	if err != nil {
		return "", "", fmt.Errorf("end_date %q is not a valid date", rawEnd)
	}
	if end.Before(start) {
		return "", "", fmt.Errorf("end_date %s is before start_date %s", layout.FormatDay(end), layout.FormatDay(start))
	}
	return layout.FormatDay(start), layout.FormatDay(end), nil
}

func compactStyle(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "{}"
	}
	return buf.String()
}

func int64Or(value *int64, fallback int64) int64 {
	if value == nil {
		return fallback
	}
	return *value
}
