package forest

import (
	"errors"
	"testing"

	"arbor/internal/domain"
	models "arbor/internal/domain/models/forest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func leaf(id, name, data string) *models.TreeNode {
	return &models.TreeNode{ID: id, Name: name, Data: data, Children: []*models.TreeNode{}}
}

func singleRoot() models.Forest {
	return models.Forest{leaf("1", "Root-1", "Root-1")}
}

func TestAddChild_RootScenario(t *testing.T) {
	before := singleRoot()

	got, err := AddChild(before, "1", "1")
	if err != nil {
		t.Fatalf("AddChild() unexpected error: %v", err)
	}

	want := models.Forest{{
		ID:   "1",
		Name: "Root-1",
		Data: "",
		Children: []*models.TreeNode{
			leaf("1.1", "Root-1-child-1", "Root-1-child-1"),
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AddChild() mismatch (-want +got):\n%s", diff)
	}

	// input untouched
	if before[0].Data != "Root-1" || len(before[0].Children) != 0 {
		t.Errorf("AddChild() modified its input: %+v", before[0])
	}
}

func TestAddChild_NumbersFromChildCount(t *testing.T) {
	f := singleRoot()
	var err error
	for i := 0; i < 3; i++ {
		if f, err = AddChild(f, "1", "1"); err != nil {
			t.Fatalf("AddChild() unexpected error: %v", err)
		}
	}
	if f, err = AddChild(f, "1.2", "1"); err != nil {
		t.Fatalf("AddChild() unexpected error: %v", err)
	}

	root := f[0]
	gotIDs := []string{}
	for _, c := range root.Children {
		gotIDs = append(gotIDs, c.ID)
	}
	if diff := cmp.Diff([]string{"1.1", "1.2", "1.3"}, gotIDs); diff != "" {
		t.Errorf("child ids mismatch (-want +got):\n%s", diff)
	}

	grandchild := root.Children[1].Children[0]
	if grandchild.ID != "1.2.1" {
		t.Errorf("grandchild id = %q, want %q", grandchild.ID, "1.2.1")
	}
	if grandchild.Name != "Root-1-child-2-child-1" {
		t.Errorf("grandchild name = %q, want %q", grandchild.Name, "Root-1-child-2-child-1")
	}
	if root.Children[1].Data != "" {
		t.Errorf("new branch data = %q, want empty", root.Children[1].Data)
	}
}

func TestAddChild_SharesUntouchedStructure(t *testing.T) {
	f := singleRoot()
	f, _ = AddChild(f, "1", "1")
	f, _ = AddChild(f, "1", "1")
	f = append(f, leaf("2", "Root-2", "Root-2"))

	got, err := AddChild(f, "1.2", "1")
	if err != nil {
		t.Fatalf("AddChild() unexpected error: %v", err)
	}

	if got[0] == f[0] {
		t.Error("root on the path was not copied")
	}
	if got[0].Children[1] == f[0].Children[1] {
		t.Error("parent on the path was not copied")
	}
	if got[0].Children[0] != f[0].Children[0] {
		t.Error("sibling off the path was not shared")
	}
	if got[1] != f[1] {
		t.Error("other root was not shared")
	}
}

func TestMutations_NotFound(t *testing.T) {
	base, _ := AddChild(singleRoot(), "1", "1")

	tests := []struct {
		name string
		run  func(models.Forest) (models.Forest, error)
	}{
		{
			name: "add child unknown top parent",
			run:  func(f models.Forest) (models.Forest, error) { return AddChild(f, "1", "9") },
		},
		{
			name: "add child unknown parent",
			run:  func(f models.Forest) (models.Forest, error) { return AddChild(f, "1.7", "1") },
		},
		{
			name: "update unknown top parent",
			run: func(f models.Forest) (models.Forest, error) {
				return UpdateField(f, "1.1", models.FieldName, "x", "9")
			},
		},
		{
			name: "update unknown node",
			run: func(f models.Forest) (models.Forest, error) {
				return UpdateField(f, "1.9", models.FieldName, "x", "1")
			},
		},
		{
			name: "delete unknown root",
			run: func(f models.Forest) (models.Forest, error) {
				out, _, err := DeleteNode(f, "9", "9", "")
				return out, err
			},
		},
		{
			name: "delete unknown parent",
			run: func(f models.Forest) (models.Forest, error) {
				out, _, err := DeleteNode(f, "1.1", "1", "1.5")
				return out, err
			},
		},
		{
			name: "delete node not under parent",
			run: func(f models.Forest) (models.Forest, error) {
				out, _, err := DeleteNode(f, "1.4", "1", "1")
				return out, err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run(base)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if diff := cmp.Diff(base, got); diff != "" {
				t.Errorf("forest changed on error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateField(t *testing.T) {
	base, _ := AddChild(singleRoot(), "1", "1")

	tests := []struct {
		name      string
		nodeID    string
		field     models.Field
		value     string
		wantName  string
		wantData  string
		wantErrIs error
	}{
		{
			name:     "data on leaf",
			nodeID:   "1.1",
			field:    models.FieldData,
			value:    "hello",
			wantName: "Root-1-child-1",
			wantData: "hello",
		},
		{
			name:     "name kept verbatim",
			nodeID:   "1.1",
			field:    models.FieldName,
			value:    "  spaced  ",
			wantName: "  spaced  ",
			wantData: "Root-1-child-1",
		},
		{
			name:     "empty value accepted",
			nodeID:   "1.1",
			field:    models.FieldName,
			value:    "",
			wantName: "",
			wantData: "Root-1-child-1",
		},
		{
			name:      "unknown field",
			nodeID:    "1.1",
			field:     models.Field("children"),
			value:     "x",
			wantErrIs: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpdateField(base, tt.nodeID, tt.field, tt.value, "1")

			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("UpdateField() error = %v, want %v", err, tt.wantErrIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateField() unexpected error: %v", err)
			}

			node, ok := Locate(got[0], tt.nodeID)
			if !ok {
				t.Fatalf("node %s missing after update", tt.nodeID)
			}
			if node.Name != tt.wantName {
				t.Errorf("name = %q, want %q", node.Name, tt.wantName)
			}
			if node.Data != tt.wantData {
				t.Errorf("data = %q, want %q", node.Data, tt.wantData)
			}
			if got[0].Name != "Root-1" || got[0].Data != "" {
				t.Errorf("root changed: %+v", got[0])
			}
		})
	}
}

func TestDeleteNode_ChildKeepsParentDataCleared(t *testing.T) {
	f, _ := AddChild(singleRoot(), "1", "1")
	f, _ = UpdateField(f, "1.1", models.FieldData, "hello", "1")

	got, effect, err := DeleteNode(f, "1.1", "1", "1")
	if err != nil {
		t.Fatalf("DeleteNode() unexpected error: %v", err)
	}
	if effect.RequiresRemoteDelete() {
		t.Errorf("non-root delete requested remote delete of %q", effect.RemoteDeleteID)
	}

	want := models.Forest{leaf("1", "Root-1", "")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DeleteNode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteNode_MissingParentID(t *testing.T) {
	f, _ := AddChild(singleRoot(), "1", "1")

	got, _, err := DeleteNode(f, "1.1", "1", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("DeleteNode() error = %v, want ErrValidation", err)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("forest changed on error (-want +got):\n%s", diff)
	}
}

func TestDeleteNode_Root(t *testing.T) {
	f := models.Forest{
		leaf("1", "Root-1", "Root-1"),
		leaf("2", "Root-2", "Root-2"),
		leaf("3", "Root-3", "Root-3"),
	}

	got, effect, err := DeleteNode(f, "2", "2", "")
	if err != nil {
		t.Fatalf("DeleteNode() unexpected error: %v", err)
	}
	if effect.RemoteDeleteID != "2" {
		t.Errorf("RemoteDeleteID = %q, want %q", effect.RemoteDeleteID, "2")
	}
	if len(got) != 2 || got[0] != f[0] || got[1] != f[2] {
		t.Errorf("remaining roots = %v, want [1 3] in order", got)
	}
	if len(f) != 3 {
		t.Errorf("input forest modified, len = %d", len(f))
	}
}

func TestDeleteNode_PreservesSiblingOrder(t *testing.T) {
	f := singleRoot()
	for i := 0; i < 4; i++ {
		f, _ = AddChild(f, "1", "1")
	}

	got, _, err := DeleteNode(f, "1.2", "1", "1")
	if err != nil {
		t.Fatalf("DeleteNode() unexpected error: %v", err)
	}

	var ids []string
	for _, c := range got[0].Children {
		ids = append(ids, c.ID)
	}
	if diff := cmp.Diff([]string{"1.1", "1.3", "1.4"}, ids); diff != "" {
		t.Errorf("sibling order mismatch (-want +got):\n%s", diff)
	}
	if got[0].Children[0] != f[0].Children[0] {
		t.Error("remaining sibling was not shared")
	}
}

func TestLocate_FirstPreOrderMatch(t *testing.T) {
	dup := leaf("x", "second", "")
	root := &models.TreeNode{
		ID: "r",
		Children: []*models.TreeNode{
			{ID: "a", Children: []*models.TreeNode{leaf("x", "first", "")}},
			dup,
		},
	}

	got, ok := Locate(root, "x")
	if !ok {
		t.Fatal("Locate() found nothing")
	}
	if got.Name != "first" {
		t.Errorf("Locate() returned %q, want the pre-order first match", got.Name)
	}
	if _, ok := Locate(root, "missing"); ok {
		t.Error("Locate() found a missing id")
	}
	if _, ok := Locate(nil, "r"); ok {
		t.Error("Locate(nil) reported a match")
	}
}

func TestAssignChildIDs(t *testing.T) {
	root := &models.TreeNode{
		ID:   "42",
		Name: "fixture",
		Children: []*models.TreeNode{
			{Name: "a", Children: []*models.TreeNode{{Name: "a1"}}},
			{Name: "b"},
		},
	}

	got := AssignChildIDs(root)

	want := &models.TreeNode{
		ID:   "42",
		Name: "fixture",
		Children: []*models.TreeNode{
			{ID: "42.1", Name: "a", Children: []*models.TreeNode{{ID: "42.1.1", Name: "a1"}}},
			{ID: "42.2", Name: "b"},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("AssignChildIDs() mismatch (-want +got):\n%s", diff)
	}
	if root.Children[0].ID != "" {
		t.Error("AssignChildIDs() modified its input")
	}
}
