package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordedRequest captures what the fake store received
type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.requests...)
}

func newTestServer(t *testing.T, status int, response string) (*Client, *requestLog) {
	t.Helper()
	log := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		log.mu.Lock()
		log.requests = append(log.requests, recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Body: string(body)})
		log.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", testLogger()), log
}

func TestClient_List(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `[
		{"id": 1, "name": "Root-1", "data": "", "children": [
			{"id": "1.1", "name": "Root-1-child-1", "data": "v", "children": []}
		]},
		{"id": "2", "name": "Root-2", "data": "Root-2", "children": null}
	]`)

	got, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	want := models.Forest{
		{ID: "1", Name: "Root-1", Data: "", Children: []*models.TreeNode{
			{ID: "1.1", Name: "Root-1-child-1", Data: "v", Children: []*models.TreeNode{}},
		}},
		{ID: "2", Name: "Root-2", Data: "Root-2", Children: []*models.TreeNode{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if r := requests.all()[0]; r.Method != http.MethodGet || r.Path != "/tree/" {
		t.Errorf("request = %s %s, want GET /tree/", r.Method, r.Path)
	}
}

func TestClient_Create(t *testing.T) {
	client, requests := newTestServer(t, http.StatusCreated, `{"id": 42, "name": "Root-1", "data": "Root-1", "children": []}`)

	got, err := client.Create(context.Background(), &models.NewTree{Name: "Root-1", Data: "Root-1"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if got.ID != "42" {
		t.Errorf("Create() id = %q, want %q", got.ID, "42")
	}

	r := requests.all()[0]
	if r.Method != http.MethodPost || r.Path != "/tree/save-new-tree" {
		t.Errorf("request = %s %s, want POST /tree/save-new-tree", r.Method, r.Path)
	}
	var sent map[string]interface{}
	if err := json.Unmarshal([]byte(r.Body), &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if _, hasID := sent["id"]; hasID {
		t.Error("create body must not carry an id")
	}
	if children, ok := sent["children"].([]interface{}); !ok || len(children) != 0 {
		t.Errorf("children = %v, want []", sent["children"])
	}
}

func TestClient_CreateWithoutID(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{"name": "Root-1"}`)

	if _, err := client.Create(context.Background(), &models.NewTree{Name: "Root-1"}); !errors.Is(err, domain.ErrRemote) {
		t.Errorf("Create() error = %v, want ErrRemote", err)
	}
}

func TestClient_Replace(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"ok": true}`)

	tree := &models.TreeNode{ID: "1", Name: "Root-1", Children: []*models.TreeNode{{ID: "1.1", Name: "c", Data: "d"}}}
	if err := client.Replace(context.Background(), tree); err != nil {
		t.Fatalf("Replace() unexpected error: %v", err)
	}

	r := requests.all()[0]
	if r.Method != http.MethodPut || r.Path != "/tree/update-tree" {
		t.Errorf("request = %s %s, want PUT /tree/update-tree", r.Method, r.Path)
	}
	want := `{"id":"1","name":"Root-1","data":"","children":[{"id":"1.1","name":"c","data":"d","children":[]}]}`
	if r.Body != want {
		t.Errorf("body = %s\nwant %s", r.Body, want)
	}
}

func TestClient_Delete(t *testing.T) {
	client, requests := newTestServer(t, http.StatusNoContent, "")

	if err := client.Delete(context.Background(), "a/b"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	r := requests.all()[0]
	if r.Method != http.MethodDelete || r.Path != "/tree/delete-tree/a%2Fb" {
		t.Errorf("request = %s %s, want DELETE /tree/delete-tree/a%%2Fb", r.Method, r.Path)
	}
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		call     func(*Client) error
		wantCode int
	}{
		{
			name:     "list server error",
			status:   http.StatusInternalServerError,
			response: `{"detail":"boom"}`,
			call:     func(c *Client) error { _, err := c.List(context.Background()); return err },
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "delete not found",
			status:   http.StatusNotFound,
			call:     func(c *Client) error { return c.Delete(context.Background(), "9") },
			wantCode: http.StatusNotFound,
		},
		{
			name:     "list malformed body",
			status:   http.StatusOK,
			response: `{not json`,
			call:     func(c *Client) error { _, err := c.List(context.Background()); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, requests := newTestServer(t, tt.status, tt.response)

			err := tt.call(client)
			if !errors.Is(err, domain.ErrRemote) {
				t.Fatalf("expected ErrRemote, got %v", err)
			}
			if len(requests.all()) != 1 {
				t.Errorf("server saw %d requests, want exactly 1 (no retries)", len(requests.all()))
			}

			var remoteErr *RemoteError
			if tt.wantCode != 0 {
				if !errors.As(err, &remoteErr) || remoteErr.StatusCode != tt.wantCode {
					t.Errorf("RemoteError status = %v, want %d", remoteErr, tt.wantCode)
				}
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, testLogger())
	if _, err := client.List(context.Background()); !errors.Is(err, domain.ErrRemote) {
		t.Errorf("List() error = %v, want ErrRemote", err)
	}
}

func TestFlexibleID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    flexibleID
		wantErr bool
	}{
		{name: "string", input: `"abc"`, want: "abc"},
		{name: "integer", input: `17`, want: "17"},
		{name: "null", input: `null`, want: ""},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got flexibleID
			err := got.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("UnmarshalJSON() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalJSON() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("UnmarshalJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
