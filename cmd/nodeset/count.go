package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count <nodeset>...",
	Short: "Print the number of names a nodeset expression denotes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := parseArgs(args)
		if err != nil {
			return err
		}
		fmt.Println(ns.Cardinality())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
