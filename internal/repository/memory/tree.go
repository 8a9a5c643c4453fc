package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"
	forestRepo "arbor/internal/domain/repositories/forest"
)

// TreeStore keeps root trees in process memory, in creation order.
// Stored trees are deep-copied on the way in and out.
type TreeStore struct {
	mu     sync.RWMutex
	nextID int64
	order  []string
	trees  map[string]*models.TreeNode
}

// NewTreeStore creates an empty in-memory store
func NewTreeStore() *TreeStore {
	return &TreeStore{
		nextID: 1,
		trees:  make(map[string]*models.TreeNode),
	}
}

var _ forestRepo.TreeStore = (*TreeStore)(nil)

// List returns every root in creation order
func (s *TreeStore) List(ctx context.Context) (models.Forest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := make(models.Forest, 0, len(s.order))
	for _, id := range s.order {
		f = append(f, deepCopy(s.trees[id]))
	}
	return f, nil
}

// Create assigns the next sequential id
func (s *TreeStore) Create(ctx context.Context, tree *models.NewTree) (*models.TreeNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++

	stored := deepCopy(&models.TreeNode{ID: id, Name: tree.Name, Data: tree.Data, Children: tree.Children})
	s.trees[id] = stored
	s.order = append(s.order, id)

	return deepCopy(stored), nil
}

// Replace overwrites an existing root
func (s *TreeStore) Replace(ctx context.Context, tree *models.TreeNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trees[tree.ID]; !ok {
		return fmt.Errorf("tree %s: %w", tree.ID, domain.ErrNotFound)
	}
	s.trees[tree.ID] = deepCopy(tree)
	return nil
}

// Delete removes a root
func (s *TreeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trees[id]; !ok {
		return fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	delete(s.trees, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func deepCopy(n *models.TreeNode) *models.TreeNode {
	cp := *n
	cp.Children = make([]*models.TreeNode, len(n.Children))
	for i, child := range n.Children {
		cp.Children[i] = deepCopy(child)
	}
	return &cp
}
