package legacy

import (
	"context"
	"fmt"

	appdb "github.com/codr1/labplanner/internal/db"
	dbgen "github.com/codr1/labplanner/internal/db/generated"
)

var sampleEquipment = []dbgen.UpsertEquipmentParams{
	{Name: "EKV-2000", Category: "Klimatická komora", MaxTests: 2, Sides: 1, Status: "active"},
	{Name: "EKV-3000", Category: "Klimatická komora", MaxTests: 3, Sides: 1, Status: "active"},
	{Name: "VTS-100", Category: "Vibrační stůl", MaxTests: 1, Sides: 1, Status: "active"},
	{Name: "VTS-200", Category: "Vibrační stůl", MaxTests: 2, Sides: 1, Status: "active"},
}

var sampleProjects = []dbgen.UpsertProjectParams{
	{Name: "Project A", Color: "#FF5733", TextColor: "#FFFFFF", Active: true},
	{Name: "Project B", Color: "#33C3FF", TextColor: "#000000", Active: true},
	{Name: "Project C", Color: "#75FF33", TextColor: "#000000", Active: true},
	{Name: "Test XYZ", Color: "#FFD700", TextColor: "#000000", Active: true},
}

// Seed upserts the sample equipment and projects and returns how many of each
// were written.
func Seed(ctx context.Context, database *appdb.DB) (equipment int, projects int, err error) {
	err = database.RunInTx(ctx, func(txdb *appdb.DB) error {
		for _, e := range sampleEquipment {
			if err := txdb.Queries.UpsertEquipment(ctx, e); err != nil {
				return fmt.Errorf("seed equipment %q: %w", e.Name, err)
			}
			equipment++
		}
		for _, p := range sampleProjects {
			if err := txdb.Queries.UpsertProject(ctx, p); err != nil {
				return fmt.Errorf("seed project %q: %w", p.Name, err)
			}
			projects++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return equipment, projects, nil
}
