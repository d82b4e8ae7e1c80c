package partid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDisk lays out a host-like tree:
//
//	<base>/dev/<name>                     regular files standing in for device nodes
//	<base>/dev/disk/by-<fragment>/<value> relative symlinks to ../../<name>
type fakeDisk struct {
	t    *testing.T
	base string
}

func newFakeDisk(t *testing.T, devices ...string) *fakeDisk {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "dev", "disk"), 0o755))
	for _, name := range devices {
		require.NoError(t, os.WriteFile(filepath.Join(base, "dev", name), nil, 0o644))
	}
	return &fakeDisk{t: t, base: base}
}

func (f *fakeDisk) root() string {
	return filepath.Join(f.base, "dev", "disk")
}

func (f *fakeDisk) dev(name string) string {
	return filepath.Join(f.base, "dev", name)
}

func (f *fakeDisk) link(source Source, value, device string) {
	f.t.Helper()
	dir := filepath.Join(f.root(), "by-"+source.Fragment())
	require.NoError(f.t, os.MkdirAll(dir, 0o755))
	require.NoError(f.t, os.Symlink(filepath.Join("..", "..", device), filepath.Join(dir, value)))
}

// resolver returns a resolver over the fake tree with a short retry budget.
func (f *fakeDisk) resolver() *Resolver {
	r := NewResolver(f.root(), nil)
	r.Attempts = 3
	r.Delay = 0
	return r
}

// canonical resolves symlinks in the temp dir itself, which may live under a linked /tmp.
func canonical(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return p
}
