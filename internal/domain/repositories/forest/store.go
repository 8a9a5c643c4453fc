package forest

import (
	"context"

	models "arbor/internal/domain/models/forest"
)

// TreeStore defines the persistence operations for root trees.
// Each call is a single round trip; implementations never retry.
type TreeStore interface {
	// List returns every root tree, children included
	List(ctx context.Context) (models.Forest, error)

	// Create persists a new root tree and returns it with its assigned id
	Create(ctx context.Context, tree *models.NewTree) (*models.TreeNode, error)

	// Replace overwrites the full subtree of the root with tree.ID
	Replace(ctx context.Context, tree *models.TreeNode) error

	// Delete removes the root tree with the given id
	Delete(ctx context.Context, id string) error
}
