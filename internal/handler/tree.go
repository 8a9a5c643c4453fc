package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"
	forestRepo "arbor/internal/domain/repositories/forest"
	"arbor/internal/httputil"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TreeHandler serves the tree persistence API over a TreeStore
type TreeHandler struct {
	store  forestRepo.TreeStore
	logger *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(store forestRepo.TreeStore, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		store:  store,
		logger: logger,
	}
}

// ackResponse acknowledges a replace or delete
type ackResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RegisterRoutes mounts the four persistence endpoints
func (h *TreeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /tree/{$}", h.ListTrees)
	mux.HandleFunc("POST /tree/save-new-tree", h.CreateTree)
	mux.HandleFunc("PUT /tree/update-tree", h.ReplaceTree)
	mux.HandleFunc("DELETE /tree/delete-tree/{id}", h.DeleteTree)
}

// ListTrees returns every root tree
// GET /tree/
func (h *TreeHandler) ListTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("list trees failed", "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, trees)
}

// CreateTree saves a new root and returns it with its id
// POST /tree/save-new-tree
func (h *TreeHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	var req models.NewTree
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Children == nil {
		req.Children = []*models.TreeNode{}
	}

	tree, err := h.store.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("create tree failed", "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, err)
		return
	}

	h.logger.Info("tree stored", "id", tree.ID, "name", tree.Name)
	httputil.RespondJSON(w, http.StatusCreated, tree)
}

// ReplaceTree overwrites a stored root with the request body
// PUT /tree/update-tree
func (h *TreeHandler) ReplaceTree(w http.ResponseWriter, r *http.Request) {
	var tree models.TreeNode
	if err := httputil.ParseJSON(w, r, &tree); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateStruct(&tree,
		validation.Field(&tree.ID, validation.Required),
	); err != nil {
		handleError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	if err := h.store.Replace(r.Context(), &tree); err != nil {
		h.logger.Warn("replace tree failed", "id", tree.ID, "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, err)
		return
	}

	h.logger.Info("tree replaced", "id", tree.ID, "child_count", len(tree.Children))
	httputil.RespondJSON(w, http.StatusOK, ackResponse{ID: tree.ID, Status: "updated"})
}

// DeleteTree removes a stored root
// DELETE /tree/delete-tree/{id}
func (h *TreeHandler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Tree ID is required")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete tree failed", "id", id, "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, err)
		return
	}

	h.logger.Info("tree removed", "id", id)
	httputil.RespondJSON(w, http.StatusOK, ackResponse{ID: id, Status: "deleted"})
}
