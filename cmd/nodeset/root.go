// Command nodeset manipulates compact cluster nodeset expressions from the
// shell: listing, folding, counting, and inspecting group sources.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whamcloud/nodeset-go"
	"github.com/whamcloud/nodeset-go/groups"
)

var (
	cfgFile      string
	groupsDir    string
	logLevel     string
	viperInst    = viper.New()
	groupSources *groups.MultiSource
)

var rootCmd = &cobra.Command{
	Use:   "nodeset",
	Short: "Manipulate cluster node set expressions",
	Long: `nodeset expands, folds, and counts the compact range expressions used to
name large groups of cluster nodes, e.g. "node[1-4]" or "rack[1-2]sw[1-2]".

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (NODESET_*)
3. Config file (~/.config/nodeset/config.yaml)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viperInst.SetConfigFile(cfgFile)
			if err := viperInst.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config %s: %w", cfgFile, err)
			}
		}
		initLogging(viperInst.GetString("log-level"))
		return setupGroupSources()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&groupsDir, "groupsdir", "", "path to a directory of per-scope YAML group definition files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	setupViper()
}

// setupViper wires flags, NODESET_* environment variables, and the YAML
// config file into a single Viper instance, flags taking precedence.
func setupViper() {
	if cfgFile != "" {
		viperInst.SetConfigFile(cfgFile)
	} else {
		viperInst.SetConfigName("config")
		viperInst.SetConfigType("yaml")
		viperInst.AddConfigPath("$HOME/.config/nodeset")
		viperInst.AddConfigPath(".")
	}
	viperInst.SetEnvPrefix("NODESET")
	viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viperInst.AutomaticEnv()
	_ = viperInst.ReadInConfig()
	_ = viperInst.BindPFlag("groupsdir", rootCmd.PersistentFlags().Lookup("groupsdir"))
	_ = viperInst.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// setupGroupSources builds the MultiSource used to resolve @group
// references, from groupsdir if one was configured. It is safe to call
// with no group source configured: commands that don't reference groups
// simply never use it.
func setupGroupSources() error {
	dir := viperInst.GetString("groupsdir")
	mem := groups.NewMemorySource("builtin")
	if dir == "" {
		groupSources = groups.NewMultiSource(mem)
		return nil
	}
	file, err := groups.NewFileSourceFromDir(dir)
	if err != nil {
		return fmt.Errorf("loading group sources: %w", err)
	}
	groupSources = groups.NewMultiSource(file, mem)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var pe *nodeset.ParseError
		var ge *nodeset.GroupResolutionError
		var ce *nodeset.CapacityExceededError
		if errors.As(err, &pe) || errors.As(err, &ge) || errors.As(err, &ce) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
