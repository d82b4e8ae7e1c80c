package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sigreer/partid/internal/blockdev"
	"github.com/sigreer/partid/internal/config"
	"github.com/sigreer/partid/internal/db"
	"github.com/sigreer/partid/internal/identify"
	"github.com/sigreer/partid/internal/partid"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record <device>...",
	Short: "Record the current identifiers of devices",
	Long: `Discover the identifiers of each device and store them in the history
database, so that 'partid history' can later show which device carried a
label or UUID. Resolution never reads this database.`,
	Run: runRecord,
}

var historyCmd = &cobra.Command{
	Use:   "history <device|identity>",
	Short: "Show recorded identifiers of a device, or devices that carried an identifier",
	Long: `Show snapshots recorded with 'partid record', newest first.

Examples:
  partid history /dev/sda1
  partid history LABEL=backup`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	for _, c := range []*cobra.Command{recordCmd, historyCmd} {
		c.Flags().String("db", "", "history database (default from config)")
	}
	recordCmd.Flags().Bool("all", false, "Record every block device under /sys/class/block")
	historyCmd.Flags().StringP("output", "o", "table", "Output format: json, table")
	historyCmd.Flags().Int("limit", 20, "Maximum number of snapshots to show")
}

func openDB(cmd *cobra.Command, cfg *config.Config) *db.DB {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.Database
	}
	database, err := db.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return database
}

func runRecord(cmd *cobra.Command, args []string) {
	cfg, r := setup()
	all, _ := cmd.Flags().GetBool("all")

	devices, err := blockdev.Expand(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if all {
		listed, err := blockdev.List("", "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		devices = append(devices, listed...)
	}
	if len(devices) == 0 {
		fmt.Fprintln(os.Stderr, "must give at least one device, or --all")
		os.Exit(1)
	}

	database := openDB(cmd, cfg)
	defer database.Close()

	for _, dev := range devices {
		result := identify.Device(r, dev)
		snap, err := database.RecordSnapshot(dev, result.DevicePath, result.Identifiers)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", dev, err)
			os.Exit(1)
		}
		fmt.Printf("%s  %s (%d identifiers)\n", snap.ID, dev, len(snap.Identifiers.Identities()))
	}
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, r := setup()
	limit, _ := cmd.Flags().GetInt("limit")

	database := openDB(cmd, cfg)
	defer database.Close()

	var (
		snaps []*db.Snapshot
		err   error
	)
	if id, ok := historyIdentity(args[0]); ok {
		snaps, err = database.HistoryByIdentity(id, limit)
	} else {
		snaps, err = database.History(r.Canonicalize(args[0]), limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying history: %v\n", err)
		os.Exit(1)
	}

	if outputFormat(cmd, cfg) == "json" {
		if err := identify.PrintJSON(os.Stdout, snaps); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if len(snaps) == 0 {
		fmt.Printf("No history for %s. Run 'partid record' to populate.\n", args[0])
		return
	}
	identify.PrintHistory(os.Stdout, snaps)
}

// historyIdentity reports whether arg names a recorded identifier rather
// than a device. Absolute paths and unparseable arguments are devices.
func historyIdentity(arg string) (partid.Identity, bool) {
	id, err := partid.Parse(arg)
	if err != nil {
		return partid.Identity{}, false
	}
	if id.Source == partid.SourcePath && strings.HasPrefix(id.Value, "/") {
		return partid.Identity{}, false
	}
	return id, true
}
