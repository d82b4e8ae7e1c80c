package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sigreer/partid/internal/partid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolution struct {
	path string
	ok   bool
}

func TestWatchIdentity(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "dev", "disk")
	byUUID := filepath.Join(root, "by-uuid")
	require.NoError(t, os.MkdirAll(byUUID, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "dev", "sdd1"), nil, 0o644))

	r := partid.NewResolver(root, nil)
	r.Attempts = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan resolution, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchIdentity(ctx, r, partid.NewUUID("7777"), func(path string, ok bool) {
			reports <- resolution{path, ok}
		})
	}()

	next := func() resolution {
		t.Helper()
		select {
		case got := <-reports:
			return got
		case <-time.After(5 * time.Second):
			t.Fatal("no report")
			return resolution{}
		}
	}

	assert.Equal(t, resolution{"", false}, next())

	link := filepath.Join(byUUID, "7777")
	require.NoError(t, os.Symlink("../../sdd1", link))
	got := next()
	assert.True(t, got.ok)
	assert.Equal(t, r.Canonicalize(filepath.Join(base, "dev", "sdd1")), got.path)

	require.NoError(t, os.Remove(link))
	assert.Equal(t, resolution{"", false}, next())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchIdentityRawPath(t *testing.T) {
	r := partid.NewResolver(t.TempDir(), nil)

	var reports []resolution
	err := watchIdentity(context.Background(), r, partid.NewPath("/dev/sda1"), func(path string, ok bool) {
		reports = append(reports, resolution{path, ok})
	})
	require.NoError(t, err)
	assert.Equal(t, []resolution{{"/dev/sda1", true}}, reports)
}
