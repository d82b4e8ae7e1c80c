// Package blockdev enumerates the host's block devices for the CLI.
package blockdev

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sys/unix"
)

// SysClassBlock lists every block device and partition known to the kernel.
const SysClassBlock = "/sys/class/block"

// List returns /dev/<name> for every entry of sysDir, sorted.
// An empty sysDir means SysClassBlock.
func List(sysDir, devDir string) ([]string, error) {
	if sysDir == "" {
		sysDir = SysClassBlock
	}
	if devDir == "" {
		devDir = "/dev"
	}

	entries, err := os.ReadDir(sysDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list block devices: %w", err)
	}

	devices := make([]string, 0, len(entries))
	for _, entry := range entries {
		devices = append(devices, filepath.Join(devDir, entry.Name()))
	}
	sort.Strings(devices)
	return devices, nil
}

// Expand replaces glob patterns such as /dev/sd?[0-9] with their matches.
// Arguments without glob metacharacters, or patterns that match nothing,
// are passed through unchanged so the caller reports them as unresolved.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !hasMeta(arg) {
			out = append(out, arg)
			continue
		}
		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			out = append(out, arg)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func hasMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// DeviceNumber returns the MAJ:MIN of a device node, or "" for anything
// that is not a block or character device.
func DeviceNumber(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFBLK, unix.S_IFCHR:
	default:
		return "", nil
	}
	dev := uint64(st.Rdev)
	return fmt.Sprintf("%d:%d", unix.Major(dev), unix.Minor(dev)), nil
}
