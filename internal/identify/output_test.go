package identify

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sigreer/partid/internal/db"
	"github.com/sigreer/partid/internal/partid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRoot builds <base>/dev/sda1 with a by-uuid and a by-label link to it.
func fakeRoot(t *testing.T) (*partid.Resolver, string) {
	t.Helper()
	base := t.TempDir()
	dev := filepath.Join(base, "dev", "sda1")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "dev", "disk"), 0o755))
	require.NoError(t, os.WriteFile(dev, nil, 0o644))

	for _, l := range []struct{ dir, name string }{{"by-uuid", "1111-2222"}, {"by-label", "root"}} {
		dir := filepath.Join(base, "dev", "disk", l.dir)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.Symlink("../../sda1", filepath.Join(dir, l.name)))
	}

	r := partid.NewResolver(filepath.Join(base, "dev", "disk"), nil)
	r.Attempts = 2
	r.Delay = 0
	return r, dev
}

func TestDevice(t *testing.T) {
	r, dev := fakeRoot(t)

	result := Device(r, dev)
	assert.Equal(t, dev, result.Query)
	assert.Equal(t, r.Canonicalize(dev), result.DevicePath)
	assert.Empty(t, result.MajMin, "regular file stands in for the device")
	assert.Equal(t, []partid.Identity{partid.NewLabel("root"), partid.NewUUID("1111-2222")}, result.Identifiers.Identities())
}

func TestResolve(t *testing.T) {
	r, dev := fakeRoot(t)

	result := Resolve(r, "UUID=1111-2222", partid.NewUUID("1111-2222"))
	assert.True(t, result.Found)
	assert.Equal(t, r.Canonicalize(dev), result.DevicePath)

	result = Resolve(r, "UUID=none", partid.NewUUID("none"))
	assert.False(t, result.Found)
	assert.Empty(t, result.DevicePath)
}

func TestPrintDevices(t *testing.T) {
	results := []*DeviceResult{{
		Query:       "/dev/sda1",
		DevicePath:  "/dev/sda1",
		MajMin:      "8:1",
		Identifiers: partid.NewIdentitySet(partid.NewUUID("1111"), partid.NewPath("pci-0000:00:1f.2-ata-1")),
	}, {
		Query:       "/dev/sdb",
		Identifiers: partid.NewIdentitySet(),
	}}

	var buf bytes.Buffer
	PrintDevices(&buf, results)
	out := buf.String()
	assert.Contains(t, out, "/dev/sda1:\n")
	assert.Contains(t, out, "MAJ:MIN              8:1\n")
	assert.Contains(t, out, "UUID                 1111\n")
	assert.Contains(t, out, "PATH                 pci-0000:00:1f.2-ata-1\n")
	assert.Contains(t, out, "/dev/sdb:\n")
	assert.Contains(t, out, "(none)")

	buf.Reset()
	PrintDevicesQuiet(&buf, results)
	assert.Equal(t, "/dev/sda1\tPATH=pci-0000:00:1f.2-ata-1\n/dev/sda1\tUUID=1111\n", buf.String())
}

func TestPrintResolved(t *testing.T) {
	results := []*ResolveResult{
		{Query: "UUID=1111", Identity: partid.NewUUID("1111"), DevicePath: "/dev/sda1", Found: true},
		{Query: "LABEL=gone", Identity: partid.NewLabel("gone")},
	}

	var buf bytes.Buffer
	PrintResolved(&buf, results)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "/dev/sda1"))
	assert.True(t, strings.HasSuffix(lines[1], "(not found)"))

	buf.Reset()
	PrintResolvedQuiet(&buf, results)
	assert.Equal(t, "/dev/sda1\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintJSON(&buf, results[0]))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "UUID=1111", decoded["identity"])
	assert.Equal(t, true, decoded["found"])
}

func TestPrintHistory(t *testing.T) {
	snaps := []*db.Snapshot{{
		ID:            "a",
		DevicePath:    "/dev/disk/by-label/root",
		CanonicalPath: "/dev/sda1",
		RecordedAt:    time.Now().Add(-3 * time.Minute),
		Identifiers:   partid.NewIdentitySet(partid.NewLabel("root")),
	}}

	var buf bytes.Buffer
	PrintHistory(&buf, snaps)
	out := buf.String()
	assert.Contains(t, out, "/dev/disk/by-label/root (3 minutes ago)")
	assert.Contains(t, out, "Device               /dev/sda1\n")
	assert.Contains(t, out, "LABEL                root\n")
}
