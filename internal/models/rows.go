// internal/models/rows.go
package models

import (
	"strings"

	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
)

// Row is one line of the calendar sidebar: a whole unit, or one side of a
// multi-sided unit.
type Row struct {
	ID       string             `json:"id"`
	Key      layout.ResourceKey `json:"key"`
	Label    string             `json:"label"`
	BaseName string             `json:"base_name"`
	Category string             `json:"category"`
	Status   string             `json:"status"`
	MaxTests int64              `json:"max_tests"`
}

// ExpandRows turns equipment into calendar rows, preserving equipment order.
// Climatic chambers are split into spaces ("Prostor"), other units into sides
// ("Strana"); a multi-sided TisNg Hybrid has side 1 plus its tyre station.
func ExpandRows(equipment []dbgen.Equipment) []Row {
	rows := make([]Row, 0, len(equipment))
	for _, e := range equipment {
		for _, key := range RowKeys(e) {
			rows = append(rows, Row{
				ID:       key.String(),
				Key:      key,
				Label:    key.String(),
				BaseName: e.Name,
				Category: e.Category,
				Status:   e.Status,
				MaxTests: e.MaxTests,
			})
		}
	}
	return rows
}

// RowKeys returns the layout keys for one piece of equipment.
func RowKeys(e dbgen.Equipment) []layout.ResourceKey {
	if e.Sides <= 1 {
		return []layout.ResourceKey{layout.WholeUnit(e.Name)}
	}
	if strings.Contains(e.Name, "TisNg Hybrid") {
		return []layout.ResourceKey{
			layout.SideOf(e.Name, layout.SideStrana, 1),
			layout.SideOf(e.Name, layout.SidePneumatika, 2),
		}
	}
	kind := layout.SideStrana
	if strings.Contains(strings.ToLower(e.Name), "climatic") {
		kind = layout.SideProstor
	}
	sides := min(e.Sides, layout.MaxSides)
	keys := make([]layout.ResourceKey, 0, sides)
	for i := 1; i <= int(sides); i++ {
		keys = append(keys, layout.SideOf(e.Name, kind, i))
	}
	return keys
}

// RowKeysOf returns the keys of rows in order.
func RowKeysOf(rows []Row) []layout.ResourceKey {
	keys := make([]layout.ResourceKey, len(rows))
	for i, row := range rows {
		keys[i] = row.Key
	}
	return keys
}
