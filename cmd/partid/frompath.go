package main

import (
	"fmt"
	"os"

	"github.com/sigreer/partid/internal/blockdev"
	"github.com/sigreer/partid/internal/identify"
	"github.com/spf13/cobra"
)

var fromPathCmd = &cobra.Command{
	Use:   "from-path <device>...",
	Short: "Show every identifier of a device",
	Long: `Discover the ID, LABEL, PARTLABEL, PARTUUID, PATH and UUID of each device.

Devices may be given as glob patterns; --all lists every block device the
kernel knows about.

Examples:
  partid from-path /dev/sda1
  partid from-path '/dev/nvme0n1p*'
  partid from-path --all -o json`,
	Run: runFromPath,
}

func init() {
	fromPathCmd.Flags().StringP("output", "o", "table", "Output format: json, table")
	fromPathCmd.Flags().BoolP("quiet", "q", false, "Only output KEY=value lines")
	fromPathCmd.Flags().Bool("all", false, "Inspect every block device under /sys/class/block")
}

func runFromPath(cmd *cobra.Command, args []string) {
	cfg, r := setup()
	quiet, _ := cmd.Flags().GetBool("quiet")
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

	results := make([]*identify.DeviceResult, 0, len(devices))
	for _, dev := range devices {
		results = append(results, identify.Device(r, dev))
	}

	if quiet {
		identify.PrintDevicesQuiet(os.Stdout, results)
		return
	}

	switch outputFormat(cmd, cfg) {
	case "json":
		if err := identify.PrintJSON(os.Stdout, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
	default:
		identify.PrintDevices(os.Stdout, results)
	}
}
