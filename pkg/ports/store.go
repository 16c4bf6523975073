package ports

import (
	"context"

	"github.com/aretw0/reactless/pkg/domain"
)

// SnapshotStore defines the interface for persisting committed host trees.
// It lets render sessions outlive the process that rendered them.
type SnapshotStore interface {
	// Save persists the snapshot under id, replacing any previous one.
	Save(ctx context.Context, id string, snap *domain.Snapshot) error

	// Load retrieves the snapshot stored under id.
	// Returns domain.ErrSnapshotNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Delete removes the snapshot stored under id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored snapshots.
	List(ctx context.Context) ([]string, error)
}
