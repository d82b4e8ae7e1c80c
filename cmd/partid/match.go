package main

import (
	"fmt"
	"os"

	"github.com/sigreer/partid/internal/partid"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <device> <identity>",
	Short: "Check whether a device carries an identifier",
	Long: `Exit 0 if the device currently has the given identifier, 1 otherwise.

Examples:
  partid match /dev/sda1 UUID=1234-5678
  partid match /dev/nvme0n1p1 PARTLABEL=EFI && echo "EFI partition"`,
	Args: cobra.ExactArgs(2),
	Run:  runMatch,
}

func init() {
	matchCmd.Flags().BoolP("quiet", "q", false, "Only set the exit status")
}

func runMatch(cmd *cobra.Command, args []string) {
	_, r := setup()
	quiet, _ := cmd.Flags().GetBool("quiet")

	id, err := partid.Parse(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// A path identity names the device itself
	var matched bool
	if id.Source == partid.SourcePath {
		if path, ok := r.DevicePath(id); ok {
			matched = r.Canonicalize(path) == r.Canonicalize(args[0])
		}
	} else {
		matched = r.Discover(args[0]).Matches(id)
	}

	if !quiet {
		if matched {
			fmt.Printf("%s matches %s\n", args[0], id)
		} else {
			fmt.Printf("%s does not match %s\n", args[0], id)
		}
	}
	if !matched {
		os.Exit(1)
	}
}
