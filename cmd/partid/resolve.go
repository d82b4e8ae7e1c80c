package main

import (
	"fmt"
	"os"

	"github.com/sigreer/partid/internal/config"
	"github.com/sigreer/partid/internal/identify"
	"github.com/sigreer/partid/internal/partid"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <identity>...",
	Short: "Resolve identifiers to device paths",
	Long: `Resolve each identity to the device it currently names.

Identities are written as in fstab: UUID=..., PARTUUID=..., LABEL=...,
PARTLABEL=..., ID=..., or an absolute path. With --by-path they are read
as /dev/disk/by-<kind>/<value> paths instead.

Exits 1 if any identity could not be resolved.

Examples:
  partid resolve UUID=1234-5678
  partid resolve --by-path /dev/disk/by-partlabel/EFI`,
	Args: cobra.MinimumNArgs(1),
	Run:  runResolve,
}

var byUUIDCmd = &cobra.Command{
	Use:   "by-uuid <uuid>...",
	Short: "Resolve filesystem UUIDs to device paths",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResolveSource(cmd, partid.SourceUUID, args)
	},
}

var byPartUUIDCmd = &cobra.Command{
	Use:   "by-partuuid <partuuid>...",
	Short: "Resolve partition UUIDs to device paths",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResolveSource(cmd, partid.SourcePartUUID, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, byUUIDCmd, byPartUUIDCmd} {
		c.Flags().StringP("output", "o", "table", "Output format: json, table")
		c.Flags().BoolP("quiet", "q", false, "Only output device paths")
	}
	resolveCmd.Flags().Bool("by-path", false, "Read identities as /dev/disk/by-<kind>/<value> paths")
}

func runResolve(cmd *cobra.Command, args []string) {
	cfg, r := setup()
	byPath, _ := cmd.Flags().GetBool("by-path")

	parse := partid.Parse
	if byPath {
		parse = partid.ParseByPath
	}

	results := make([]*identify.ResolveResult, 0, len(args))
	for _, arg := range args {
		id, err := parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		results = append(results, identify.Resolve(r, arg, id))
	}
	printResolved(cmd, cfg, results)
}

func runResolveSource(cmd *cobra.Command, source partid.Source, args []string) {
	cfg, r := setup()

	results := make([]*identify.ResolveResult, 0, len(args))
	for _, arg := range args {
		results = append(results, identify.Resolve(r, arg, partid.New(source, arg)))
	}
	printResolved(cmd, cfg, results)
}

func printResolved(cmd *cobra.Command, cfg *config.Config, results []*identify.ResolveResult) {
	quiet, _ := cmd.Flags().GetBool("quiet")

	switch {
	case quiet:
		identify.PrintResolvedQuiet(os.Stdout, results)
	case outputFormat(cmd, cfg) == "json":
		if err := identify.PrintJSON(os.Stdout, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
	default:
		identify.PrintResolved(os.Stdout, results)
	}

	for _, result := range results {
		if !result.Found {
			os.Exit(1)
		}
	}
}
