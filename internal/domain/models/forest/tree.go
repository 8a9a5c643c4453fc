package forest

// TreeNode is a named node with a payload and ordered children.
// Data is only meaningful on leaves; a node gaining its first child has Data cleared.
type TreeNode struct {
	ID       string      `json:"id" yaml:"id,omitempty"`
	Name     string      `json:"name" yaml:"name"`
	Data     string      `json:"data" yaml:"data"`
	Children []*TreeNode `json:"children" yaml:"children"` // Pointers so unchanged subtrees can be shared
}

// IsLeaf reports whether the node has no children
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Forest is the ordered sequence of independently persisted root trees
type Forest []*TreeNode

// NewTree is the payload for creating a root tree; the store assigns the id.
type NewTree struct {
	Name     string      `json:"name"`
	Data     string      `json:"data"`
	Children []*TreeNode `json:"children"`
}

// Field names a mutable TreeNode field
type Field string

const (
	FieldName Field = "name"
	FieldData Field = "data"
)
