package identify

import (
	"github.com/sigreer/partid/internal/blockdev"
	"github.com/sigreer/partid/internal/partid"
)

// DeviceResult holds every identifier discovered for one device
type DeviceResult struct {
	Query       string              `json:"query"`
	DevicePath  string              `json:"device_path,omitempty"`
	MajMin      string              `json:"maj_min,omitempty"`
	Identifiers *partid.IdentitySet `json:"identifiers"`
}

// ResolveResult holds the device path an identity resolved to
type ResolveResult struct {
	Query      string          `json:"query"`
	Identity   partid.Identity `json:"identity"`
	DevicePath string          `json:"device_path,omitempty"`
	Found      bool            `json:"found"`
}

// Device discovers the identifiers of the device at path
func Device(r *partid.Resolver, path string) *DeviceResult {
	result := &DeviceResult{
		Query:       path,
		DevicePath:  r.Canonicalize(path),
		Identifiers: r.Discover(path),
	}
	// Best effort; not every path is a device node
	if num, err := blockdev.DeviceNumber(result.DevicePath); err == nil {
		result.MajMin = num
	}
	return result
}

// Resolve finds the device path of id
func Resolve(r *partid.Resolver, query string, id partid.Identity) *ResolveResult {
	path, ok := r.DevicePath(id)
	return &ResolveResult{
		Query:      query,
		Identity:   id,
		DevicePath: path,
		Found:      ok,
	}
}
