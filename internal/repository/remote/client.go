package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"
	forestRepo "arbor/internal/domain/repositories/forest"

	"github.com/goccy/go-json"
)

// Store service routes, relative to the base URL
const (
	listPath    = "/tree/"
	createPath  = "/tree/save-new-tree"
	replacePath = "/tree/update-tree"
	deletePath  = "/tree/delete-tree/"
)

// RemoteError is a non-2xx response from the store service
type RemoteError struct {
	Op         string // list, create, replace, delete
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("store %s failed (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// Is allows errors.Is() to match against domain.ErrRemote
func (e *RemoteError) Is(target error) bool {
	return target == domain.ErrRemote
}

// Client implements TreeStore against the tree persistence service.
// One request per call: no retries, caching or batching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a store client. The http.Client carries no timeout;
// cancellation comes from the caller's context only.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{}, logger)
}

// NewClientWithHTTP creates a store client with a custom http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

var _ forestRepo.TreeStore = (*Client)(nil)

// List fetches the whole forest
func (c *Client) List(ctx context.Context) (models.Forest, error) {
	var nodes []*wireNode
	if err := c.do(ctx, "list", http.MethodGet, listPath, nil, &nodes); err != nil {
		return nil, err
	}

	f := make(models.Forest, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		f = append(f, n.toModel())
	}
	return f, nil
}

// Create saves a new root and returns it with the store-assigned id
func (c *Client) Create(ctx context.Context, tree *models.NewTree) (*models.TreeNode, error) {
	var saved wireNode
	if err := c.do(ctx, "create", http.MethodPost, createPath, toOutboundNewTree(tree), &saved); err != nil {
		return nil, err
	}
	if saved.ID == "" {
		return nil, fmt.Errorf("store create: response has no id: %w", domain.ErrRemote)
	}
	return saved.toModel(), nil
}

// Replace overwrites the stored root with the full subtree of tree
func (c *Client) Replace(ctx context.Context, tree *models.TreeNode) error {
	return c.do(ctx, "replace", http.MethodPut, replacePath, toOutbound(tree), nil)
}

// Delete removes the stored root with the given id
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, deletePath+url.PathEscape(id), nil, nil)
}

// do performs one JSON round trip. out may be nil when the body is only an acknowledgement.
func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("store %s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("store %s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store %s: request failed: %v: %w", op, err, domain.ErrRemote)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("store %s: failed to read response: %v: %w", op, err, domain.ErrRemote)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	c.logger.Debug("store call", "op", op, "method", method, "path", path, "status", resp.StatusCode)

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("store %s: failed to parse response: %v: %w", op, err, domain.ErrRemote)
	}
	return nil
}
