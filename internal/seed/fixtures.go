package seed

import (
	_ "embed"
	"fmt"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/forest.yaml
var defaultFixture []byte

// fixtureFile is the YAML layout of a seed forest
type fixtureFile struct {
	Trees []*models.TreeNode `yaml:"trees"`
}

// DefaultFixture returns the embedded seed forest
func DefaultFixture() (models.Forest, error) {
	return ParseFixture(defaultFixture)
}

// ParseFixture decodes a YAML forest. Ids in the fixture are ignored by Seed;
// every node needs a name.
func ParseFixture(data []byte) (models.Forest, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	f := make(models.Forest, 0, len(file.Trees))
	for i, root := range file.Trees {
		if root == nil {
			continue
		}
		if err := validateNode(root); err != nil {
			return nil, fmt.Errorf("fixture tree %d: %w: %v", i+1, domain.ErrValidation, err)
		}
		f = append(f, normalize(root))
	}
	return f, nil
}

func validateNode(n *models.TreeNode) error {
	if err := validation.ValidateStruct(n,
		validation.Field(&n.Name, validation.Required),
	); err != nil {
		return err
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if err := validateNode(child); err != nil {
			return fmt.Errorf("child of %q: %w", n.Name, err)
		}
	}
	return nil
}

// normalize drops null entries and gives every node a non-nil Children slice
func normalize(n *models.TreeNode) *models.TreeNode {
	cp := *n
	cp.Children = make([]*models.TreeNode, 0, len(n.Children))
	for _, child := range n.Children {
		if child != nil {
			cp.Children = append(cp.Children, normalize(child))
		}
	}
	return &cp
}
