package forest

import (
	"fmt"

	models "arbor/internal/domain/models/forest"

	"github.com/goccy/go-json"
)

// Export serializes a root's subtree as two-space indented JSON.
// Leaves always carry "children": [] and values are written unescaped so the text
// mirrors the in-memory node.
func Export(root *models.TreeNode) (string, error) {
	if root == nil {
		return "", fmt.Errorf("export: nil tree")
	}

	payload, err := json.MarshalIndentWithOption(withEmptyChildren(root), "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return "", fmt.Errorf("export tree %s: %w", root.ID, err)
	}
	return string(payload), nil
}

func withEmptyChildren(n *models.TreeNode) *models.TreeNode {
	cp := *n
	cp.Children = make([]*models.TreeNode, len(n.Children))
	for i, child := range n.Children {
		cp.Children[i] = withEmptyChildren(child)
	}
	return &cp
}
