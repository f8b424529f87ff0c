package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"net"
	"net/netip"
	"os"
	"slices"

	"github.com/encodeous/meshstat/core"
	"github.com/encodeous/meshstat/meshaddr"
	"github.com/encodeous/meshstat/sys"
	"github.com/spf13/cobra"
)

var compact = false

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func reportCmd(name string, provider core.Provider) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Prints the %s section", name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap()
			if err != nil {
				return err
			}
			return printJSON(provider(cmd.Context(), env))
		},
		GroupID: "report",
	}
}

var addrCmd = &cobra.Command{
	Use:   "addr <mac> [prefix]",
	Short: "Prints the mesh address derived from a hardware address",
	Long: `Prints the mesh address of the interface with the given hardware address.
Without a prefix, the node prefix from the config or site file is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mac, err := net.ParseMAC(args[0])
		if err != nil {
			return err
		}
		var prefix netip.Prefix
		if len(args) == 2 {
			prefix, err = netip.ParsePrefix(args[1])
		} else {
			var env *core.Env
			env, err = bootstrap()
			if err != nil {
				return err
			}
			prefix, err = sys.NodePrefix(env.Cfg.Site)
		}
		if err != nil {
			return err
		}
		addr, err := meshaddr.Synthesize(mac, prefix)
		if err != nil {
			return err
		}
		fmt.Println(addr)
		return nil
	},
	GroupID: "report",
}

func init() {
	for _, name := range slices.Sorted(maps.Keys(core.Providers)) {
		c := reportCmd(name, core.Providers[name])
		c.Flags().BoolVar(&compact, "compact", false, "Single line output")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(addrCmd)
}
