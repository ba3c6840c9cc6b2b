package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whamcloud/nodeset-go"
)

var foldCmd = &cobra.Command{
	Use:   "fold <nodeset>...",
	Short: "Fold nodeset expressions into their most compact form",
	Long: `fold parses one or more nodeset expressions, unions them, and prints the
most compact equivalent expression, inferring strides and grouping by
literal skeleton.

Examples:
  nodeset fold "node1,node2,node3"
  nodeset fold "node2,node4,node6,node8"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := parseArgs(args)
		if err != nil {
			return err
		}
		fmt.Println(nodeset.Fold(ns))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(foldCmd)
}
