package cmd

import (
	"os"

	"github.com/encodeous/meshstat/core"
	"github.com/spf13/cobra"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Streams babel neighbours as server-sent events",
	Long: `Writes a CGI event-stream response to stdout: a content type header, then
the babel neighbours as one "data:" event per stream interval. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap()
		if err != nil {
			return err
		}
		ctx, cancel := core.SignalContext(env.Log)
		defer cancel()
		return core.StreamCGI(ctx, env, os.Stdout)
	},
	GroupID: "daemon",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves reports and metrics over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap()
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			env.Cfg.Listen = listen
		}
		ctx, cancel := core.SignalContext(env.Log)
		defer cancel()
		return core.Serve(ctx, env)
	},
	GroupID: "daemon",
}

func init() {
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Listen address, overrides the config")
}
