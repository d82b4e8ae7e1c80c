package partid

// IdentitySet is a snapshot of every identifier discoverable for one device.
type IdentitySet struct {
	ID        *string `json:"id,omitempty"`
	Label     *string `json:"label,omitempty"`
	PartLabel *string `json:"part_label,omitempty"`
	PartUUID  *string `json:"part_uuid,omitempty"`
	Path      *string `json:"path,omitempty"`
	UUID      *string `json:"uuid,omitempty"`
}

// NewIdentitySet builds a set from ids. Identities of unknown sources are
// ignored; a later identity of the same source replaces an earlier one.
func NewIdentitySet(ids ...Identity) *IdentitySet {
	set := &IdentitySet{}
	for _, id := range ids {
		if slot := set.slot(id.Source); slot != nil {
			*slot = ptr(id.Value)
		}
	}
	return set
}

// Discover fetches all identifiers of the device at path.
func (r *Resolver) Discover(path string) *IdentitySet {
	var found []Identity
	for _, s := range Sources() {
		if id, ok := r.Find(s, path); ok {
			found = append(found, id)
		}
	}
	return NewIdentitySet(found...)
}

// Discover fetches all identifiers of the device at path using the default resolver.
func Discover(path string) *IdentitySet {
	return Default().Discover(path)
}

// Get returns the value discovered for source.
func (set *IdentitySet) Get(source Source) (string, bool) {
	slot := set.slot(source)
	if slot == nil || *slot == nil {
		return "", false
	}
	return **slot, true
}

// Matches checks if id equals the identifier discovered for its source.
func (set *IdentitySet) Matches(id Identity) bool {
	value, ok := set.Get(id.Source)
	return ok && value == id.Value
}

// Identities returns the populated identifiers in canonical source order.
func (set *IdentitySet) Identities() []Identity {
	var ids []Identity
	for _, s := range Sources() {
		if value, ok := set.Get(s); ok {
			ids = append(ids, New(s, value))
		}
	}
	return ids
}

// IsEmpty reports whether no identifier was discovered.
func (set *IdentitySet) IsEmpty() bool {
	return len(set.Identities()) == 0
}

func (set *IdentitySet) slot(source Source) **string {
	switch source {
	case SourceID:
		return &set.ID
	case SourceLabel:
		return &set.Label
	case SourcePartLabel:
		return &set.PartLabel
	case SourcePartUUID:
		return &set.PartUUID
	case SourcePath:
		return &set.Path
	case SourceUUID:
		return &set.UUID
	default:
		return nil
	}
}

func ptr(s string) *string {
	return &s
}
