package cli

import (
	"github.com/spf13/cobra"

	"github.com/codr1/labplanner/internal/db"
	"github.com/codr1/labplanner/internal/legacy"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample equipment and projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := db.NewFromConfig(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		equipment, projects, err := legacy.Seed(ctx, database)
		if err != nil {
			return err
		}
		PrintSuccess(cmd.OutOrStdout(), "Seeded %d equipment and %d projects", equipment, projects)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
