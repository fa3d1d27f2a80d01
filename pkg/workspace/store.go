package workspace

import "context"

// Store persists workspace documents.
type Store interface {
	// Get returns the workspace with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Workspace, error)

	// ListByUser returns workspaces where the user is a collaborator.
	ListByUser(ctx context.Context, userID string) ([]Workspace, error)

	// CountByOwner returns how many workspaces the user owns.
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	// Save upserts the workspace by ID.
	Save(ctx context.Context, ws *Workspace) error

	// Delete removes the workspace. Deleting a missing workspace returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error
}
