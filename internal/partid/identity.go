package partid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey is returned when an identity string has no recognized KEY= prefix.
	ErrInvalidKey = errors.New("the partition ID key was invalid")
	// ErrInvalidPath is returned when a by-path form does not start with /dev/disk/by-.
	ErrInvalidPath = errors.New("the provided path was not valid in this context")
	// ErrUnknownByPath is returned when the by-* directory named in a by-path form is not supported.
	ErrUnknownByPath = errors.New("the provided /dev/disk/by- path was not supported")
)

// Identity describes one identifier of a partition.
//
// A device path may be recovered from it with DevicePath.
type Identity struct {
	Source Source
	Value  string
}

// New constructs an Identity of the given source.
func New(source Source, value string) Identity {
	return Identity{Source: source, Value: value}
}

// NewID, NewLabel, NewPartLabel, NewPartUUID, NewPath and NewUUID construct
// an Identity of that source.
func NewID(value string) Identity        { return New(SourceID, value) }
func NewLabel(value string) Identity     { return New(SourceLabel, value) }
func NewPartLabel(value string) Identity { return New(SourcePartLabel, value) }
func NewPartUUID(value string) Identity  { return New(SourcePartUUID, value) }
func NewPath(value string) Identity      { return New(SourcePath, value) }
func NewUUID(value string) Identity      { return New(SourceUUID, value) }

// String renders the identity as KEY=value, or as the raw value for
// path identities.
func (id Identity) String() string {
	if id.Source == SourcePath {
		return id.Value
	}
	return id.Source.Key() + "=" + id.Value
}

// ByPath renders the identity in /dev/disk/by-<fragment>/<value> form.
func (id Identity) ByPath() string {
	return ByPathPrefix + id.Source.Fragment() + "/" + id.Value
}

// DevicePath finds the device path of this identity using the default resolver.
func (id Identity) DevicePath() (string, bool) {
	return Default().DevicePath(id)
}

// MarshalText implements encoding.TextMarshaler. Unlike String, a relative
// path identity keeps its PATH= key so that Parse can read it back.
func (id Identity) MarshalText() ([]byte, error) {
	if !id.Source.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, id.Source)
	}
	if id.Source == SourcePath && !strings.HasPrefix(id.Value, "/") {
		return []byte(id.Source.Key() + "=" + id.Value), nil
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Parse reads an identity in KEY=value form. Input starting with a
// slash is taken verbatim as a path identity.
func Parse(input string) (Identity, error) {
	if strings.HasPrefix(input, "/") {
		return NewPath(input), nil
	}
	for _, s := range Sources() {
		if value, ok := strings.CutPrefix(input, s.Key()+"="); ok {
			return New(s, value), nil
		}
	}
	return Identity{}, fmt.Errorf("%w: %q", ErrInvalidKey, input)
}

// ParseByPath reads an identity from its /dev/disk/by-<fragment>/<value> form.
func ParseByPath(input string) (Identity, error) {
	rest, ok := strings.CutPrefix(input, ByPathPrefix)
	if !ok {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidPath, input)
	}
	for _, s := range Sources() {
		if value, ok := strings.CutPrefix(rest, s.Fragment()+"/"); ok {
			return New(s, value), nil
		}
	}
	return Identity{}, fmt.Errorf("%w: %q", ErrUnknownByPath, input)
}
