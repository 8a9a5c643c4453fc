package forest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"
	forestRepo "arbor/internal/domain/repositories/forest"
	forestSvc "arbor/internal/domain/services/forest"
)

// editorService implements the Editor interface.
// The forest is replaced wholesale on every edit; the mutex only protects the swap.
// Remote calls run outside the lock and are not sequenced against each other.
type editorService struct {
	store  forestRepo.TreeStore
	logger *slog.Logger

	mu      sync.Mutex
	forest  models.Forest
	exports map[string]string
}

// NewEditorService creates an editor with an empty forest
func NewEditorService(store forestRepo.TreeStore, logger *slog.Logger) forestSvc.Editor {
	return &editorService{
		store:   store,
		logger:  logger,
		forest:  models.Forest{},
		exports: make(map[string]string),
	}
}

// Load fetches the full forest once and adopts it
func (s *editorService) Load(ctx context.Context) error {
	trees, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load forest: %w", err)
	}
	if trees == nil {
		trees = models.Forest{}
	}

	s.mu.Lock()
	s.forest = trees
	s.mu.Unlock()

	s.logger.Info("forest loaded", "tree_count", len(trees))
	return nil
}

// Forest returns the current forest. Callers must not modify it.
func (s *editorService) Forest() models.Forest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest
}

// CreateTree persists a new root named Root-<n+1> and appends it
func (s *editorService) CreateTree(ctx context.Context) (*models.TreeNode, error) {
	label := fmt.Sprintf("Root-%d", len(s.Forest())+1)
	req := &models.NewTree{
		Name:     label,
		Data:     label,
		Children: []*models.TreeNode{},
	}

	saved, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create tree: %w", err)
	}

	tree := &models.TreeNode{
		ID:       saved.ID,
		Name:     req.Name,
		Data:     req.Data,
		Children: []*models.TreeNode{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, exists := LocateRoot(s.forest, tree.ID); exists {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("store returned id %s which is already in the forest", tree.ID),
			ResourceType: "tree",
			ResourceID:   tree.ID,
		}
	}

	next := make(models.Forest, len(s.forest), len(s.forest)+1)
	copy(next, s.forest)
	s.forest = append(next, tree)

	s.logger.Info("tree created", "id", tree.ID, "name", tree.Name)
	return tree, nil
}

// AddChild appends a generated child to the requested parent
func (s *editorService) AddChild(ctx context.Context, req *forestSvc.AddChildRequest) error {
	if err := validateAddChildRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := AddChild(s.forest, req.ParentID, req.TopParentID)
	if err != nil {
		return fmt.Errorf("add child: %w", err)
	}
	s.forest = next

	s.logger.Debug("child added", "parent_id", req.ParentID, "top_parent_id", req.TopParentID)
	return nil
}

// UpdateField sets a node's name or data
func (s *editorService) UpdateField(ctx context.Context, req *forestSvc.UpdateFieldRequest) error {
	if err := validateUpdateFieldRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := UpdateField(s.forest, req.NodeID, req.Field, req.Value, req.TopParentID)
	if err != nil {
		return fmt.Errorf("update %s: %w", req.Field, err)
	}
	s.forest = next

	s.logger.Debug("node updated", "node_id", req.NodeID, "field", req.Field)
	return nil
}

// DeleteNode removes a node locally. A root is then deleted from the store;
// if that call fails the local removal stands and the error is returned.
func (s *editorService) DeleteNode(ctx context.Context, req *forestSvc.DeleteNodeRequest) error {
	if err := validateDeleteNodeRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	s.mu.Lock()
	next, effect, err := DeleteNode(s.forest, req.NodeID, req.TopParentID, req.NodeParentID)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete node: %w", err)
	}
	s.forest = next
	if effect.RequiresRemoteDelete() {
		delete(s.exports, effect.RemoteDeleteID)
	}
	s.mu.Unlock()

	if !effect.RequiresRemoteDelete() {
		s.logger.Debug("node deleted locally", "node_id", req.NodeID, "parent_id", req.NodeParentID)
		return nil
	}

	if err := s.store.Delete(ctx, effect.RemoteDeleteID); err != nil {
		return fmt.Errorf("delete tree %s from store: %w", effect.RemoteDeleteID, err)
	}

	s.logger.Info("tree deleted", "id", effect.RemoteDeleteID)
	return nil
}

// Export serializes the root, keeps the text for display, then replaces the stored copy.
// The text is kept even when the store call fails.
func (s *editorService) Export(ctx context.Context, rootID string) (string, error) {
	s.mu.Lock()
	_, root, ok := LocateRoot(s.forest, rootID)
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("export tree %s: %w", rootID, domain.ErrNotFound)
	}

	text, err := Export(root)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.exports[rootID] = text
	s.mu.Unlock()

	if err := s.store.Replace(ctx, root); err != nil {
		return text, fmt.Errorf("replace tree %s in store: %w", rootID, err)
	}

	s.logger.Info("tree exported", "id", rootID, "bytes", len(text))
	return text, nil
}

// ExportText returns the last export of a root
func (s *editorService) ExportText(rootID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports[rootID]
}
