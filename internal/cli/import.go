package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/codr1/labplanner/internal/db"
	"github.com/codr1/labplanner/internal/legacy"
)

var (
	importBookingsPath  string
	importEquipmentPath string
	importProjectsPath  string
)

var importCmd = &cobra.Command{
	Use:   "import-legacy",
	Short: "Import bookings, equipment and projects from legacy JSON files",
	Long: `Import the JSON files written by older installations.

Equipment is imported first so bookings can reference it. Each file is
imported in its own transaction; existing rows with the same key are replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importBookingsPath == "" && importEquipmentPath == "" && importProjectsPath == "" {
			return fmt.Errorf("at least one of --bookings, --equipment or --projects is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := db.NewFromConfig(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		im, err := legacy.NewImporter(database, cfg)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		out := cmd.OutOrStdout()
		steps := []struct {
			label string
			path  string
			run   func(context.Context, io.Reader) (legacy.Report, error)
		}{
			{"equipment", importEquipmentPath, im.ImportEquipment},
			{"projects", importProjectsPath, im.ImportProjects},
			{"bookings", importBookingsPath, im.ImportBookings},
		}
		for _, step := range steps {
			if step.path == "" {
				continue
			}
			report, err := importFile(ctx, step.path, step.run)
			if err != nil {
				PrintError(cmd.ErrOrStderr(), "Importing %s failed", step.label)
				return err
			}
			PrintSuccess(out, "Imported %d %s from %s", report.Imported, step.label, step.path)
			for _, id := range report.MissingTMA {
				PrintWarning(out, "Booking %d has no TMA number", id)
			}
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importBookingsPath, "bookings", "", "Path to the legacy bookings JSON file")
	importCmd.Flags().StringVar(&importEquipmentPath, "equipment", "", "Path to the legacy equipment JSON file")
	importCmd.Flags().StringVar(&importProjectsPath, "projects", "", "Path to the legacy projects JSON file")
	rootCmd.AddCommand(importCmd)
}

func importFile(ctx context.Context, path string, run func(context.Context, io.Reader) (legacy.Report, error)) (legacy.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return legacy.Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return run(ctx, f)
}
