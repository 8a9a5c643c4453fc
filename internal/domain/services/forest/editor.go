package forest

import (
	"context"

	models "arbor/internal/domain/models/forest"
)

// Editor owns the in-memory forest of one editing session and applies user intents to it.
// Local edits never touch the store; CreateTree, root deletes and Export do.
type Editor interface {
	// Load adopts the store's forest as the starting state
	Load(ctx context.Context) error

	// Forest returns the current forest value
	Forest() models.Forest

	// CreateTree creates a new root through the store and appends it on success
	CreateTree(ctx context.Context) (*models.TreeNode, error)

	AddChild(ctx context.Context, req *AddChildRequest) error
	UpdateField(ctx context.Context, req *UpdateFieldRequest) error

	// DeleteNode removes a node locally; deleting a root also deletes it from the store
	DeleteNode(ctx context.Context, req *DeleteNodeRequest) error

	// Export serializes a root, remembers the text, and replaces the stored copy
	Export(ctx context.Context, rootID string) (string, error)

	// ExportText returns the last export of a root, or "" if it was never exported
	ExportText(rootID string) string
}

// AddChildRequest appends a generated child to ParentID inside the root TopParentID
type AddChildRequest struct {
	ParentID    string `json:"parent_id"`
	TopParentID string `json:"top_parent_id"`
}

// UpdateFieldRequest sets one field of a node to Value verbatim
type UpdateFieldRequest struct {
	NodeID      string       `json:"node_id"`
	Field       models.Field `json:"field"`
	Value       string       `json:"value"`
	TopParentID string       `json:"top_parent_id"`
}

// DeleteNodeRequest removes NodeID; NodeParentID is required unless NodeID is the root
type DeleteNodeRequest struct {
	NodeID       string `json:"node_id"`
	TopParentID  string `json:"top_parent_id"`
	NodeParentID string `json:"node_parent_id,omitempty"`
}
