package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cellgrid/internal/config"
	"github.com/oakwood-commons/cellgrid/pkg/settings"
)

// cliVersionString builds the version line for `cellgrid version` and --version.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cellgrid version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return err
	},
}

var showDefaults bool

// configCmd prints the merged configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged cellgrid configuration",
	Long: `Print the embedded defaults merged with the config file.

The file is --config-file, else $XDG_CONFIG_HOME/cellgrid/config.yaml, else
~/.config/cellgrid/config.yaml. --theme and --keymap are applied on top.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if showDefaults {
			_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
			return err
		}
		var (
			out []byte
			err error
		)
		switch strings.ToLower(configOutput) {
		case "", "yaml", "yml":
			out, err = appConfig.ToYAML()
		case "json":
			out, err = appConfig.ToJSON()
			out = append(out, '\n')
		default:
			return usageErrorf("invalid config output %q (expected yaml or json)", configOutput)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range appConfig.ThemeNames() {
			marker := "  "
			if name == appConfig.Theme {
				marker = "* "
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), marker+name); err != nil {
				return err
			}
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ResolvePath(configFile)
		if path == "" {
			path = "(defaults)"
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}
