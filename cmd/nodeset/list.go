package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whamcloud/nodeset-go"
)

var (
	listSeparator string
	listLimit     uint64
)

var listCmd = &cobra.Command{
	Use:   "list <nodeset>...",
	Short: "Expand a nodeset expression into individual names",
	Long: `list expands one or more nodeset expressions, taken as a union, and
prints each name they denote.

Examples:
  nodeset list "node[1-4]"
  nodeset list --separator " " "rack[1-2]sw[1-2]"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := parseArgs(args)
		if err != nil {
			return err
		}
		names, err := ns.Expand(listLimit)
		if err != nil {
			if _, ok := err.(*nodeset.CapacityExceededError); ok {
				slog.Warn("list: capacity limit exceeded", "limit", listLimit, "error", err)
			}
			return err
		}
		if len(names) == 0 {
			return nil
		}
		fmt.Println(strings.Join(names, listSeparator))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSeparator, "separator", "s", " ", "separator printed between names")
	listCmd.Flags().Uint64VarP(&listLimit, "limit", "l", 0, "maximum names to expand (0 = unbounded)")
	rootCmd.AddCommand(listCmd)
}

// parseArgs parses and unions every positional nodeset expression.
func parseArgs(args []string) (nodeset.NodeSet, error) {
	result := nodeset.Empty
	for _, arg := range args {
		ns, err := nodeset.Parse(arg, groupSources)
		if err != nil {
			return nodeset.NodeSet{}, fmt.Errorf("parsing %q: %w", arg, err)
		}
		result = result.Union(ns)
	}
	return result, nil
}
