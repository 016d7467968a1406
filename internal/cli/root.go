package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/codr1/labplanner/internal/config"
)

var configPath string

// rootCmd is the root command for labctl.
var rootCmd = &cobra.Command{
	Use:     "labctl",
	Version: "dev",
	Short:   "Maintenance tool for the lab booking planner",
	Long: `labctl manages the booking planner database outside the web server.

It applies schema migrations, seeds sample equipment and projects, and
imports the JSON files kept by older installations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML configuration file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, 5*time.Minute)
}
