package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whamcloud/nodeset-go"
)

var sourcesCmd = &cobra.Command{
	Use:     "groupsources",
	Aliases: []string{"sources"},
	Short:   "List configured group sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, src := range groupSources.Sources() {
			lister, ok := src.(nodeset.SourceLister)
			if !ok {
				continue
			}
			for _, scope := range lister.ListSources() {
				marker := ""
				if i == groupSources.DefaultIndex() {
					marker = " (default)"
				}
				fmt.Printf("%s%s\n", scope, marker)
			}
		}
		return nil
	},
}

var (
	groupsAllSources bool
	groupsSource     string
	groupsMembers    bool
)

var groupsCmd = &cobra.Command{
	Use:   "groups [pattern]",
	Short: "List group names, optionally keeping only groups that intersect a nodeset",
	Long: `groups lists the group names available from the configured sources. With
--members, each group name is followed by the nodeset it resolves to.

Examples:
  nodeset groups
  nodeset groups --source slurm
  nodeset groups --members gpu`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter nodeset.NodeSet
		hasFilter := len(args) == 1
		if hasFilter {
			ns, err := nodeset.Parse(args[0], groupSources)
			if err != nil {
				return fmt.Errorf("parsing filter %q: %w", args[0], err)
			}
			filter = ns
		}

		scopes := []string{groupsSource}
		if groupsAllSources {
			scopes = nil
			for _, src := range groupSources.Sources() {
				if lister, ok := src.(nodeset.SourceLister); ok {
					scopes = append(scopes, lister.ListSources()...)
				}
			}
		}

		for _, scope := range scopes {
			names, err := groupSources.ListGroups(scope)
			if err != nil {
				return err
			}
			for _, name := range names {
				ns, err := groupSources.ResolveGroup(scope, name)
				if err != nil {
					return err
				}
				if hasFilter && filter.Intersect(ns).IsEmpty() {
					continue
				}
				if !groupsMembers {
					fmt.Println(name)
					continue
				}
				fmt.Printf("%s: %s\n", name, nodeset.Fold(ns))
			}
		}
		return nil
	},
}

func init() {
	groupsCmd.Flags().BoolVarP(&groupsAllSources, "all-sources", "a", false, "list groups from every configured source")
	groupsCmd.Flags().StringVarP(&groupsSource, "source", "s", "", "restrict listing to this group source")
	groupsCmd.Flags().BoolVarP(&groupsMembers, "members", "m", false, "also print each group's resolved nodeset")
	groupsCmd.MarkFlagsMutuallyExclusive("all-sources", "source")
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(groupsCmd)
}
