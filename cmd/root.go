package cmd

import (
	"os"

	"github.com/encodeous/meshstat/core"
	"github.com/encodeous/meshstat/state"
	"github.com/spf13/cobra"
)

var (
	configPath = state.DefaultConfigPath
	verbose    = false
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshstat",
	Short: "Babel mesh node telemetry",
	Long: `meshstat reports what the babel routing daemon knows about this node:
its mesh address and interfaces, client and traffic statistics, and its neighbours.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func bootstrap() (*core.Env, error) {
	return core.Bootstrap(configPath, verbose)
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "report",
		Title: "Reports",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "daemon",
		Title: "Long running",
	})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "meshstat config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", verbose, "Verbose output")
}
