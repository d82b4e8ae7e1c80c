package partid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	disk := newFakeDisk(t, "sda", "sda1")
	disk.link(SourceID, "ata-ST8000NM0055_ZA1-part1", "sda1")
	disk.link(SourceID, "ata-ST8000NM0055_ZA1", "sda")
	disk.link(SourceLabel, "root", "sda1")
	disk.link(SourcePartLabel, "primary", "sda1")
	disk.link(SourcePartUUID, "abcd-01", "sda1")
	disk.link(SourcePath, "pci-0000:00:1f.2-ata-1-part1", "sda1")
	disk.link(SourceUUID, "1111-2222", "sda1")
	r := disk.resolver()

	set := r.Discover(disk.dev("sda1"))
	require.NotNil(t, set)
	assert.Equal(t, []Identity{
		NewID("ata-ST8000NM0055_ZA1-part1"),
		NewLabel("root"),
		NewPartLabel("primary"),
		NewPartUUID("abcd-01"),
		NewPath("pci-0000:00:1f.2-ata-1-part1"),
		NewUUID("1111-2222"),
	}, set.Identities())
	assert.False(t, set.IsEmpty())

	whole := r.Discover(disk.dev("sda"))
	assert.Equal(t, []Identity{NewID("ata-ST8000NM0055_ZA1")}, whole.Identities())
}

func TestDiscoverPartial(t *testing.T) {
	disk := newFakeDisk(t, "sdb1", "sdc1")
	disk.link(SourceUUID, "9999", "sdb1")
	r := disk.resolver()

	set := r.Discover(disk.dev("sdb1"))
	uuid, ok := set.Get(SourceUUID)
	assert.True(t, ok)
	assert.Equal(t, "9999", uuid)
	_, ok = set.Get(SourceLabel)
	assert.False(t, ok)
	assert.Nil(t, set.Label)

	empty := r.Discover(disk.dev("sdc1"))
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.Identities())
}

func TestMatches(t *testing.T) {
	disk := newFakeDisk(t, "sda1")
	disk.link(SourceUUID, "1111-2222", "sda1")
	disk.link(SourceLabel, "root", "sda1")
	set := disk.resolver().Discover(disk.dev("sda1"))

	for _, id := range set.Identities() {
		assert.True(t, set.Matches(id), "%s", id)
		assert.False(t, set.Matches(New(id.Source, id.Value+"-other")), "%s", id)
	}
	assert.False(t, set.Matches(NewPartUUID("1111-2222")), "unpopulated slot")
	assert.False(t, set.Matches(New(Source(99), "root")), "unknown source")
}

func TestIdentitySetJSON(t *testing.T) {
	set := &IdentitySet{UUID: ptr("1111"), PartLabel: ptr("EFI")}
	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{"part_label":"EFI","uuid":"1111"}`, string(data))
}

func TestNewIdentitySet(t *testing.T) {
	set := NewIdentitySet(NewUUID("old"), NewLabel("root"), NewUUID("1111"), New(Source(12), "x"))
	assert.Equal(t, []Identity{NewLabel("root"), NewUUID("1111")}, set.Identities())
	assert.True(t, NewIdentitySet().IsEmpty())
}
