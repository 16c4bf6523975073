package domain

// MutationKind names a primitive host-tree change.
type MutationKind string

const (
	MutationInsert          MutationKind = "insert"
	MutationRemove          MutationKind = "remove"
	MutationSetAttribute    MutationKind = "set_attribute"
	MutationRemoveAttribute MutationKind = "remove_attribute"
	MutationAddListener     MutationKind = "add_listener"
	MutationRemoveListener  MutationKind = "remove_listener"
)

// Mutation describes one change applied to the host tree during commit.
// Tag is the type tag of the node being changed (the child, for insert/remove).
type Mutation struct {
	Kind  MutationKind `json:"kind"`
	Tag   string       `json:"tag"`
	Name  string       `json:"name,omitempty"`
	Value string       `json:"value,omitempty"`
}

// IsStructural reports whether the mutation changes the shape of the host tree.
func (m Mutation) IsStructural() bool {
	return m.Kind == MutationInsert || m.Kind == MutationRemove
}
