// Package app provides the command tree of the filippoints client.
package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/filippoints/filippoints-cli/internal/config"
	"github.com/filippoints/filippoints-cli/internal/logger"
	"github.com/filippoints/filippoints-cli/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "filippoints",
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	Short:             "FilipPoints client",
	Long: `filippoints shows the people who hold FilipPoints, keeps a local copy of the
list for offline use and lets an admin pick the person to receive points.`,
	PersistentPreRunE: setupLogging,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorw("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().Bool("offline", false, "Treat the network as unreachable")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Keep the people list in memory only")

	for _, name := range []string{"config", "log-level", "log-file", "offline", "no-cache"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			logger.Fatalf("Failed to bind %s flag: %v", name, err)
		}
	}

	versionCmd.Flags().String("format", "", "Output format (json)")

	rootCmd.AddCommand(peopleCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(clearCacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the file named by --config, if any, with FILIPPOINTS_* overrides.
func loadConfig() (*config.Config, error) {
	var opts []config.Option
	if path := viper.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logLevel resolves the level from --log-level, then FILIPPOINTS_LOG_LEVEL,
// then LOG_LEVEL for backward compatibility.
func logLevel() string {
	if level := viper.GetString("log-level"); level != "" {
		return level
	}
	if level := config.NewEnv().GetString("log.level"); level != "" {
		return level
	}
	return os.Getenv("LOG_LEVEL")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	path := viper.GetString("log-file")
	if path == "" {
		path = config.NewEnv().GetString("log.file")
	}
	// the interactive screen owns the terminal
	if path == "" && cmd == peopleCmd {
		path = defaultScreenLogPath()
	}
	return logger.Initialize(logLevel(), path)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("error retrieving format flag: %w", err)
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("error formatting version info as JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "filippoints %s (commit %s, built %s, %s, %s)\n",
			info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		return nil
	},
}
