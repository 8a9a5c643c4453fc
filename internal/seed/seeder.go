package seed

import (
	"context"
	"fmt"
	"log/slog"

	models "arbor/internal/domain/models/forest"
	forestRepo "arbor/internal/domain/repositories/forest"
	forestService "arbor/internal/service/forest"
)

// Seeder writes fixture trees into a TreeStore
type Seeder struct {
	store  forestRepo.TreeStore
	logger *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(store forestRepo.TreeStore, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
	}
}

// Seed creates each root, then replaces it with its children renumbered under the
// store-assigned id. Returns the trees as stored. Stops at the first failure.
func (s *Seeder) Seed(ctx context.Context, f models.Forest) ([]*models.TreeNode, error) {
	seeded := make([]*models.TreeNode, 0, len(f))

	for _, root := range f {
		saved, err := s.store.Create(ctx, &models.NewTree{
			Name:     root.Name,
			Data:     root.Data,
			Children: []*models.TreeNode{},
		})
		if err != nil {
			return seeded, fmt.Errorf("create %q: %w", root.Name, err)
		}

		withID := *root
		withID.ID = saved.ID
		tree := forestService.AssignChildIDs(&withID)

		if len(tree.Children) > 0 {
			if err := s.store.Replace(ctx, tree); err != nil {
				return seeded, fmt.Errorf("replace %q (id %s): %w", root.Name, saved.ID, err)
			}
		}

		s.logger.Info("tree seeded", "id", tree.ID, "name", tree.Name, "child_count", len(tree.Children))
		seeded = append(seeded, tree)
	}

	return seeded, nil
}
