package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"
	forestRepo "arbor/internal/domain/repositories/forest"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTreeStore implements TreeStore with one row per root tree.
// Descendants live in a JSONB column and are always written whole.
type PostgresTreeStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTreeStore creates a new postgres tree store
func NewTreeStore(config *RepositoryConfig) forestRepo.TreeStore {
	return &PostgresTreeStore{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// List retrieves all roots in creation order
func (r *PostgresTreeStore) List(ctx context.Context) (models.Forest, error) {
	query := fmt.Sprintf(`
		SELECT id, name, data, children
		FROM %s
		ORDER BY id
	`, r.tables.Trees)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rows.Close()

	f := models.Forest{}
	for rows.Next() {
		var (
			id       int64
			tree     models.TreeNode
			children []byte
		)
		if err := rows.Scan(&id, &tree.Name, &tree.Data, &children); err != nil {
			return nil, fmt.Errorf("scan tree: %w", err)
		}
		tree.ID = formatID(id)
		if tree.Children, err = decodeChildren(children); err != nil {
			return nil, fmt.Errorf("decode children of tree %s: %w", tree.ID, err)
		}
		f = append(f, &tree)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trees: %w", err)
	}

	return f, nil
}

// Create inserts a new root and returns it with the generated id
func (r *PostgresTreeStore) Create(ctx context.Context, tree *models.NewTree) (*models.TreeNode, error) {
	children, err := encodeChildren(tree.Children)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, data, children)
		VALUES ($1, $2, $3)
		RETURNING id
	`, r.tables.Trees)

	var id int64
	if err := r.pool.QueryRow(ctx, query, tree.Name, tree.Data, children).Scan(&id); err != nil {
		return nil, fmt.Errorf("create tree: %w", err)
	}

	created := &models.TreeNode{
		ID:       formatID(id),
		Name:     tree.Name,
		Data:     tree.Data,
		Children: tree.Children,
	}
	if created.Children == nil {
		created.Children = []*models.TreeNode{}
	}
	return created, nil
}

// Replace overwrites name, data and every descendant of an existing root
func (r *PostgresTreeStore) Replace(ctx context.Context, tree *models.TreeNode) error {
	id, err := parseID(tree.ID)
	if err != nil {
		return err
	}
	children, err := encodeChildren(tree.Children)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, data = $2, children = $3, updated_at = now()
		WHERE id = $4
	`, r.tables.Trees)

	result, err := r.pool.Exec(ctx, query, tree.Name, tree.Data, children, id)
	if err != nil {
		return fmt.Errorf("replace tree: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tree %s: %w", tree.ID, domain.ErrNotFound)
	}

	r.logger.Debug("tree row replaced", "id", tree.ID, "children_bytes", len(children))
	return nil
}

// Delete removes a root row
func (r *PostgresTreeStore) Delete(ctx context.Context, treeID string) error {
	id, err := parseID(treeID)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Trees)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tree %s: %w", treeID, domain.ErrNotFound)
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseID maps ids that cannot be row keys to not-found
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

func encodeChildren(children []*models.TreeNode) ([]byte, error) {
	if children == nil {
		children = []*models.TreeNode{}
	}
	payload, err := json.Marshal(children)
	if err != nil {
		return nil, fmt.Errorf("encode children: %w", err)
	}
	return payload, nil
}

func decodeChildren(raw []byte) ([]*models.TreeNode, error) {
	children := []*models.TreeNode{}
	if len(raw) == 0 {
		return children, nil
	}
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, err
	}
	if children == nil {
		children = []*models.TreeNode{}
	}
	return children, nil
}
