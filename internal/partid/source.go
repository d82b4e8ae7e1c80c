// Package partid finds the identifiers of a block device by its path, or a
// device path by one of its identifiers, using the /dev/disk/by-* symlinks
// maintained by the host.
package partid

import (
	"fmt"
	"path/filepath"
)

// DefaultRoot is the directory under which the host publishes its
// by-* symlink directories.
const DefaultRoot = "/dev/disk"

// ByPathPrefix is the textual prefix of the by-path convention form,
// e.g. /dev/disk/by-uuid/1234.
const ByPathPrefix = DefaultRoot + "/by-"

// Source describes the kind of a partition identity.
type Source int

const (
	SourceID Source = iota
	SourceLabel
	SourcePartLabel
	SourcePartUUID
	SourcePath
	SourceUUID
)

// sourceNames maps each Source to its KEY= form and its by-* directory fragment.
var sourceNames = [...]struct {
	key      string
	fragment string
}{
	SourceID:        {"ID", "id"},
	SourceLabel:     {"LABEL", "label"},
	SourcePartLabel: {"PARTLABEL", "partlabel"},
	SourcePartUUID:  {"PARTUUID", "partuuid"},
	SourcePath:      {"PATH", "path"},
	SourceUUID:      {"UUID", "uuid"},
}

// Sources returns every source kind in canonical order.
func Sources() []Source {
	return []Source{SourceID, SourceLabel, SourcePartLabel, SourcePartUUID, SourcePath, SourceUUID}
}

// Valid reports whether s is one of the known source kinds.
func (s Source) Valid() bool {
	return s >= 0 && int(s) < len(sourceNames)
}

// Key returns the uppercase key used in KEY=value syntax.
func (s Source) Key() string {
	if !s.Valid() {
		return ""
	}
	return sourceNames[s].key
}

// Fragment returns the lowercase fragment of the by-* directory name.
func (s Source) Fragment() string {
	if !s.Valid() {
		return ""
	}
	return sourceNames[s].fragment
}

// String returns the canonical key, or a placeholder for unknown values.
func (s Source) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return s.Key()
}

// SymlinkDir returns the host's symlink directory for this kind,
// e.g. /dev/disk/by-uuid.
func (s Source) SymlinkDir() string {
	return s.dirUnder(DefaultRoot)
}

func (s Source) dirUnder(root string) string {
	return filepath.Join(root, "by-"+s.Fragment())
}

// ParseSource returns the Source whose key is exactly key.
func ParseSource(key string) (Source, error) {
	for _, s := range Sources() {
		if s.Key() == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
}
