package forest

import (
	"testing"

	models "arbor/internal/domain/models/forest"
)

func TestExport(t *testing.T) {
	tests := []struct {
		name string
		tree *models.TreeNode
		want string
	}{
		{
			name: "leaf root",
			tree: leaf("1", "Root-1", "Root-1"),
			want: `{
  "id": "1",
  "name": "Root-1",
  "data": "Root-1",
  "children": []
}`,
		},
		{
			name: "nil children serialize as empty array",
			tree: &models.TreeNode{
				ID:       "7",
				Name:     "r",
				Children: []*models.TreeNode{{ID: "7.1", Name: "c", Data: "v"}},
			},
			want: `{
  "id": "7",
  "name": "r",
  "data": "",
  "children": [
    {
      "id": "7.1",
      "name": "c",
      "data": "v",
      "children": []
    }
  ]
}`,
		},
		{
			name: "markup characters kept verbatim",
			tree: leaf("1", "a<b>&c", `<i>"x"</i>`),
			want: `{
  "id": "1",
  "name": "a<b>&c",
  "data": "<i>\"x\"</i>",
  "children": []
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Export(tt.tree)
			if err != nil {
				t.Fatalf("Export() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Export() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestExport_NilTree(t *testing.T) {
	if _, err := Export(nil); err == nil {
		t.Error("Export(nil) expected error, got nil")
	}
}
