package remote

import (
	"bytes"
	"fmt"
	"strconv"

	models "arbor/internal/domain/models/forest"

	"github.com/goccy/go-json"
)

// flexibleID accepts a JSON string or number; stores may assign numeric ids.
type flexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*id = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}

	if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
		return fmt.Errorf("id must be a string or number: %s", trimmed)
	}
	*id = flexibleID(trimmed)
	return nil
}

// wireNode is a TreeNode as the store sends it
type wireNode struct {
	ID       flexibleID  `json:"id"`
	Name     string      `json:"name"`
	Data     string      `json:"data"`
	Children []*wireNode `json:"children"`
}

func (w *wireNode) toModel() *models.TreeNode {
	node := &models.TreeNode{
		ID:       string(w.ID),
		Name:     w.Name,
		Data:     w.Data,
		Children: make([]*models.TreeNode, 0, len(w.Children)),
	}
	for _, child := range w.Children {
		if child == nil {
			continue
		}
		node.Children = append(node.Children, child.toModel())
	}
	return node
}

// outboundNode is a TreeNode as the store expects it: children never null.
type outboundNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Data     string          `json:"data"`
	Children []*outboundNode `json:"children"`
}

func toOutbound(n *models.TreeNode) *outboundNode {
	out := &outboundNode{
		ID:       n.ID,
		Name:     n.Name,
		Data:     n.Data,
		Children: make([]*outboundNode, len(n.Children)),
	}
	for i, child := range n.Children {
		out.Children[i] = toOutbound(child)
	}
	return out
}

type outboundNewTree struct {
	Name     string          `json:"name"`
	Data     string          `json:"data"`
	Children []*outboundNode `json:"children"`
}

func toOutboundNewTree(t *models.NewTree) *outboundNewTree {
	out := &outboundNewTree{
		Name:     t.Name,
		Data:     t.Data,
		Children: make([]*outboundNode, len(t.Children)),
	}
	for i, child := range t.Children {
		out.Children[i] = toOutbound(child)
	}
	return out
}
