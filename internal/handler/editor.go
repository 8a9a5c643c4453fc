package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	models "arbor/internal/domain/models/forest"
	forestSvc "arbor/internal/domain/services/forest"
	"arbor/internal/httputil"
)

//go:embed templates/*.html
var templateFS embed.FS

// EditorHandler renders the forest and turns form posts into editor intents.
// Failures are logged and the page is shown again without the change.
type EditorHandler struct {
	editor forestSvc.Editor
	page   *template.Template
	logger *slog.Logger
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(editor forestSvc.Editor, logger *slog.Logger) (*EditorHandler, error) {
	page, err := template.ParseFS(templateFS, "templates/editor.html")
	if err != nil {
		return nil, fmt.Errorf("parse editor template: %w", err)
	}

	return &EditorHandler{
		editor: editor,
		page:   page,
		logger: logger,
	}, nil
}

// RegisterRoutes mounts the editor pages and form actions
func (h *EditorHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /trees", h.CreateTree)
	mux.HandleFunc("POST /trees/{id}/export", h.ExportTree)
	mux.HandleFunc("POST /nodes/add", h.AddChild)
	mux.HandleFunc("POST /nodes/update", h.UpdateField)
	mux.HandleFunc("POST /nodes/delete", h.DeleteNode)
	mux.HandleFunc("GET /api/forest", h.GetForest)
	mux.HandleFunc("GET /health", h.HealthCheck)
}

// pageView is the data for templates/editor.html
type pageView struct {
	Trees []treeView
}

type treeView struct {
	Root   nodeView
	Export string
}

type nodeView struct {
	ID          string
	Name        string
	Data        string
	TopParentID string
	ParentID    string // Empty for roots
	Depth       int
	IsRoot      bool
	IsLeaf      bool
	Children    []nodeView
}

func buildNodeView(n *models.TreeNode, topParentID, parentID string, depth int) nodeView {
	view := nodeView{
		ID:          n.ID,
		Name:        n.Name,
		Data:        n.Data,
		TopParentID: topParentID,
		ParentID:    parentID,
		Depth:       depth,
		IsRoot:      depth == 0,
		IsLeaf:      n.IsLeaf(),
		Children:    make([]nodeView, 0, len(n.Children)),
	}
	for _, child := range n.Children {
		view.Children = append(view.Children, buildNodeView(child, topParentID, n.ID, depth+1))
	}
	return view
}

// Index renders the whole forest
// GET /
func (h *EditorHandler) Index(w http.ResponseWriter, r *http.Request) {
	forest := h.editor.Forest()
	view := pageView{Trees: make([]treeView, 0, len(forest))}
	for _, root := range forest {
		view.Trees = append(view.Trees, treeView{
			Root:   buildNodeView(root, root.ID, "", 0),
			Export: h.editor.ExportText(root.ID),
		})
	}

	// Render to a buffer so a template error never sends a partial page
	var buf bytes.Buffer
	if err := h.page.ExecuteTemplate(&buf, "page", view); err != nil {
		h.logger.Error("render editor page failed", "error", err, "request_id", httputil.GetRequestID(r))
		httputil.RespondError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// CreateTree creates a new root through the store
// POST /trees
func (h *EditorHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.editor.CreateTree(r.Context())
	if err != nil {
		h.logFailure(r, "create tree", err)
		h.backToPage(w, r, "")
		return
	}
	h.backToPage(w, r, nodeAnchor(tree.ID))
}

// AddChild appends a generated child
// POST /nodes/add
func (h *EditorHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	req := &forestSvc.AddChildRequest{
		ParentID:    r.PostFormValue("parent_id"),
		TopParentID: r.PostFormValue("top_parent_id"),
	}
	if err := h.editor.AddChild(r.Context(), req); err != nil {
		h.logFailure(r, "add child", err)
	}
	h.backToPage(w, r, nodeAnchor(req.ParentID))
}

// UpdateField sets a node's name or data
// POST /nodes/update
func (h *EditorHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	req := &forestSvc.UpdateFieldRequest{
		NodeID:      r.PostFormValue("node_id"),
		Field:       models.Field(r.PostFormValue("field")),
		Value:       r.PostFormValue("value"),
		TopParentID: r.PostFormValue("top_parent_id"),
	}
	if err := h.editor.UpdateField(r.Context(), req); err != nil {
		h.logFailure(r, "update node", err)
	}
	h.backToPage(w, r, nodeAnchor(req.NodeID))
}

// DeleteNode removes a node, or a whole tree when the node is a root
// POST /nodes/delete
func (h *EditorHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	req := &forestSvc.DeleteNodeRequest{
		NodeID:       r.PostFormValue("node_id"),
		TopParentID:  r.PostFormValue("top_parent_id"),
		NodeParentID: r.PostFormValue("node_parent_id"),
	}
	if err := h.editor.DeleteNode(r.Context(), req); err != nil {
		h.logFailure(r, "delete node", err)
	}
	h.backToPage(w, r, nodeAnchor(req.NodeParentID))
}

// ExportTree serializes a root for display and replaces the stored copy
// POST /trees/{id}/export
func (h *EditorHandler) ExportTree(w http.ResponseWriter, r *http.Request) {
	rootID := r.PathValue("id")
	if _, err := h.editor.Export(r.Context(), rootID); err != nil {
		h.logFailure(r, "export tree", err)
	}
	h.backToPage(w, r, "export-"+rootID)
}

// GetForest returns the current forest as JSON
// GET /api/forest
func (h *EditorHandler) GetForest(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.editor.Forest())
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *EditorHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

func (h *EditorHandler) logFailure(r *http.Request, action string, err error) {
	h.logger.Warn(action+" failed",
		"kind", errorKind(err),
		"error", err,
		"request_id", httputil.GetRequestID(r),
	)
}

// backToPage redirects to the editor, scrolled to anchor when given
func (h *EditorHandler) backToPage(w http.ResponseWriter, r *http.Request, anchor string) {
	target := "/"
	if anchor != "" {
		target += "#" + anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func nodeAnchor(id string) string {
	if id == "" {
		return ""
	}
	return "node-" + id
}
