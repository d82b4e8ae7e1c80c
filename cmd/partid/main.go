package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sigreer/partid/internal/config"
	"github.com/sigreer/partid/internal/partid"
	"github.com/sigreer/partid/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	rootDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "partid",
	Short: "Resolve block devices to their persistent identifiers and back",
	Long: `partid finds the ID, LABEL, PARTLABEL, PARTUUID, PATH and UUID of a
block device by following the /dev/disk/by-* symlinks maintained by udev,
and resolves identifiers such as UUID=1234-5678 back to a device path.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/partid/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "directory holding the by-* symlink directories (default /dev/disk)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fromPathCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(byUUIDCmd)
	rootCmd.AddCommand(byPartUUIDCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup loads the config, applies global flags and installs the logger.
// It exits on error like the rest of the commands.
func setup() (*config.Config, *partid.Resolver) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, cfg.Resolver(logger)
}

// outputFormat returns the --output flag, or the configured default when unset.
func outputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("output") {
		out, _ := cmd.Flags().GetString("output")
		return out
	}
	return cfg.Output
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
