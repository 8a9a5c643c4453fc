package forest

import (
	"fmt"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"
)

// DeleteEffect describes the persistence side effect a delete requires
type DeleteEffect struct {
	RemoteDeleteID string // Root id to delete from the store, empty for local-only deletes
}

// RequiresRemoteDelete reports whether the store copy must be deleted
func (e DeleteEffect) RequiresRemoteDelete() bool {
	return e.RemoteDeleteID != ""
}

// Locate returns the first node in depth-first pre-order whose id equals id
func Locate(root *models.TreeNode, id string) (*models.TreeNode, bool) {
	if root == nil {
		return nil, false
	}
	if root.ID == id {
		return root, true
	}
	for _, child := range root.Children {
		if node, ok := Locate(child, id); ok {
			return node, true
		}
	}
	return nil, false
}

// LocateRoot returns the position and value of the root tree with the given id
func LocateRoot(f models.Forest, id string) (int, *models.TreeNode, bool) {
	for i, root := range f {
		if root.ID == id {
			return i, root, true
		}
	}
	return -1, nil, false
}

// AddChild appends a generated child to parentID inside the root topParentID.
// The parent's data is cleared since it becomes a branch.
func AddChild(f models.Forest, parentID, topParentID string) (models.Forest, error) {
	idx, root, ok := LocateRoot(f, topParentID)
	if !ok {
		return f, fmt.Errorf("top parent %s: %w", topParentID, domain.ErrNotFound)
	}

	updated, ok := rewrite(root, parentID, func(n *models.TreeNode) {
		ordinal := len(n.Children) + 1
		label := fmt.Sprintf("%s-child-%d", n.Name, ordinal)
		child := &models.TreeNode{
			ID:       fmt.Sprintf("%s.%d", n.ID, ordinal),
			Name:     label,
			Data:     label,
			Children: []*models.TreeNode{},
		}

		children := make([]*models.TreeNode, len(n.Children), len(n.Children)+1)
		copy(children, n.Children)
		n.Children = append(children, child)
		n.Data = ""
	})
	if !ok {
		return f, fmt.Errorf("node %s in tree %s: %w", parentID, topParentID, domain.ErrNotFound)
	}

	return replaceRoot(f, idx, updated), nil
}

// UpdateField sets field on nodeID to value verbatim; any string is accepted
func UpdateField(f models.Forest, nodeID string, field models.Field, value, topParentID string) (models.Forest, error) {
	var set func(n *models.TreeNode)
	switch field {
	case models.FieldName:
		set = func(n *models.TreeNode) { n.Name = value }
	case models.FieldData:
		set = func(n *models.TreeNode) { n.Data = value }
	default:
		return f, fmt.Errorf("%w: unknown field %q", domain.ErrValidation, field)
	}

	idx, root, ok := LocateRoot(f, topParentID)
	if !ok {
		return f, fmt.Errorf("top parent %s: %w", topParentID, domain.ErrNotFound)
	}

	updated, ok := rewrite(root, nodeID, set)
	if !ok {
		return f, fmt.Errorf("node %s in tree %s: %w", nodeID, topParentID, domain.ErrNotFound)
	}

	return replaceRoot(f, idx, updated), nil
}

// DeleteNode removes nodeID from the forest.
// Deleting a root removes the whole tree and reports a remote delete in the effect.
// Any other node needs nodeParentID and is removed from that parent's children only.
func DeleteNode(f models.Forest, nodeID, topParentID, nodeParentID string) (models.Forest, DeleteEffect, error) {
	idx, root, ok := LocateRoot(f, topParentID)
	if !ok {
		return f, DeleteEffect{}, fmt.Errorf("top parent %s: %w", topParentID, domain.ErrNotFound)
	}

	if nodeID == topParentID {
		remaining := make(models.Forest, 0, len(f)-1)
		remaining = append(remaining, f[:idx]...)
		remaining = append(remaining, f[idx+1:]...)
		return remaining, DeleteEffect{RemoteDeleteID: nodeID}, nil
	}

	if nodeParentID == "" {
		return f, DeleteEffect{}, fmt.Errorf("%w: parent id is required to delete non-root node %s", domain.ErrValidation, nodeID)
	}

	removed := false
	updated, ok := rewrite(root, nodeParentID, func(n *models.TreeNode) {
		kept := make([]*models.TreeNode, 0, len(n.Children))
		for _, child := range n.Children {
			if !removed && child.ID == nodeID {
				removed = true
				continue
			}
			kept = append(kept, child)
		}
		n.Children = kept
	})
	if !ok {
		return f, DeleteEffect{}, fmt.Errorf("parent %s in tree %s: %w", nodeParentID, topParentID, domain.ErrNotFound)
	}
	if !removed {
		return f, DeleteEffect{}, fmt.Errorf("node %s under parent %s: %w", nodeID, nodeParentID, domain.ErrNotFound)
	}

	return replaceRoot(f, idx, updated), DeleteEffect{}, nil
}

// AssignChildIDs returns a copy of root whose descendants are renumbered as <parentID>.<ordinal>
func AssignChildIDs(root *models.TreeNode) *models.TreeNode {
	cp := *root
	cp.Children = make([]*models.TreeNode, len(root.Children))
	for i, child := range root.Children {
		renamed := *child
		renamed.ID = fmt.Sprintf("%s.%d", root.ID, i+1)
		cp.Children[i] = AssignChildIDs(&renamed)
	}
	return &cp
}

// rewrite copies every node on the path from node to the first match of id (pre-order)
// and applies fn to the copy of the match. Nodes off the path are shared.
// fn must not modify the slice it finds in n.Children.
func rewrite(node *models.TreeNode, id string, fn func(n *models.TreeNode)) (*models.TreeNode, bool) {
	if node.ID == id {
		cp := *node
		fn(&cp)
		return &cp, true
	}

	for i, child := range node.Children {
		updated, ok := rewrite(child, id, fn)
		if !ok {
			continue
		}
		cp := *node
		cp.Children = make([]*models.TreeNode, len(node.Children))
		copy(cp.Children, node.Children)
		cp.Children[i] = updated
		return &cp, true
	}

	return node, false
}

// replaceRoot returns a new forest with the root at idx swapped for root
func replaceRoot(f models.Forest, idx int, root *models.TreeNode) models.Forest {
	out := make(models.Forest, len(f))
	copy(out, f)
	out[idx] = root
	return out
}
