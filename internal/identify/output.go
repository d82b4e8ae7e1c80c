package identify

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sigreer/partid/internal/db"
	"github.com/sigreer/partid/internal/partid"
)

// PrintJSON outputs any result as indented JSON
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintDevices outputs discovered identifiers as one table per device
func PrintDevices(w io.Writer, results []*DeviceResult) {
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", result.Query)
		printField(w, "Device", result.DevicePath)
		printField(w, "MAJ:MIN", result.MajMin)
		fmt.Fprintln(w)

		fmt.Fprintf(w, "%-20s %s\n", "IDENTIFIER", "VALUE")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		printIdentifiers(w, result.Identifiers)
	}
}

// PrintDevicesQuiet outputs one KEY=value line per identifier
func PrintDevicesQuiet(w io.Writer, results []*DeviceResult) {
	for _, result := range results {
		for _, id := range result.Identifiers.Identities() {
			if id.Source == partid.SourcePath {
				// raw by-path names would read as relative paths
				fmt.Fprintf(w, "%s\t%s=%s\n", result.Query, id.Source.Key(), id.Value)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", result.Query, id)
		}
	}
}

// PrintResolved outputs identity -> device path lines
func PrintResolved(w io.Writer, results []*ResolveResult) {
	for _, result := range results {
		path := "(not found)"
		if result.Found {
			path = result.DevicePath
		}
		fmt.Fprintf(w, "%-40s %s\n", result.Query, path)
	}
}

// PrintResolvedQuiet outputs only the device paths that were found
func PrintResolvedQuiet(w io.Writer, results []*ResolveResult) {
	for _, result := range results {
		if result.Found {
			fmt.Fprintln(w, result.DevicePath)
		}
	}
}

// PrintHistory outputs recorded snapshots, newest first
func PrintHistory(w io.Writer, snaps []*db.Snapshot) {
	for i, s := range snaps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s (%s)\n", s.RecordedAt.Format("2006-01-02 15:04:05"), s.DevicePath, humanize.Time(s.RecordedAt))
		if s.CanonicalPath != s.DevicePath {
			printField(w, "Device", s.CanonicalPath)
		}
		printIdentifiers(w, s.Identifiers)
	}
}

func printIdentifiers(w io.Writer, set *partid.IdentitySet) {
	if set == nil || set.IsEmpty() {
		fmt.Fprintf(w, "%-20s %s\n", "(none)", "")
		return
	}
	for _, id := range set.Identities() {
		printField(w, id.Source.Key(), id.Value)
	}
}

// printField prints a field if value is non-empty
func printField(w io.Writer, label, value string) {
	if value != "" {
		fmt.Fprintf(w, "%-20s %s\n", label, value)
	}
}
