package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func sampleRows() []FolderRow {
	return []FolderRow{
		{ID: 1, Name: "My Documents", IsRoot: true, Children: []DocumentChild{}},
		{ID: 2, Name: "Recipes", ParentID: ptr(1), Children: []DocumentChild{
			{ID: 10, Name: "Groceries", Type: "Document", Content: "<p>milk</p>", Owner: "user-1", Readonly: true},
		}},
		{ID: 3, Name: "Work", ParentID: ptr(1), Children: []DocumentChild{}},
	}
}

func TestBuildReconstructsTree(t *testing.T) {
	tr, err := Build(sampleRows())
	require.NoError(t, err)

	root := tr.Root()
	assert.Equal(t, int64(1), root.ID)
	assert.Equal(t, "My Documents", root.Name)
	require.Len(t, root.Children, 2)

	recipes, ok := tr.Folder(2)
	require.True(t, ok)
	require.Len(t, recipes.Children, 1)

	doc := recipes.Children[0]
	assert.Equal(t, KindDocument, doc.Kind)
	assert.Equal(t, "Groceries", doc.Name)
	assert.Equal(t, "document", doc.Type, "type is normalized to lowercase")
	assert.True(t, doc.Readonly)

	// The document appears only under its own folder, not the root.
	for _, child := range root.Children {
		assert.Equal(t, KindFolder, child.Kind)
	}
}

func TestBuildEmptyUsesSyntheticRoot(t *testing.T) {
	tr, err := Build(nil)
	require.NoError(t, err)

	root := tr.Root()
	assert.Equal(t, RootID, root.ID)
	assert.Equal(t, RootName, root.Name)
	assert.Empty(t, root.Children)
}

func TestBuildRejectsBrokenInput(t *testing.T) {
	_, err := Build([]FolderRow{{ID: 1, ParentID: ptr(99)}})
	assert.Error(t, err, "missing parent")

	_, err = Build([]FolderRow{{ID: 1, IsRoot: true}, {ID: 2, IsRoot: true}})
	assert.Error(t, err, "two roots")

	_, err = Build([]FolderRow{{ID: 1, IsRoot: true}, {ID: 1, ParentID: ptr(1)}})
	assert.Error(t, err, "duplicate folder id")
}

func TestMoveFolder(t *testing.T) {
	tr, err := Build(sampleRows())
	require.NoError(t, err)

	require.NoError(t, tr.MoveFolder(3, 2))

	recipes, _ := tr.Folder(2)
	work, _ := tr.Folder(3)
	assert.Contains(t, recipes.Children, work)

	root := tr.Root()
	assert.NotContains(t, root.Children, work)
}

func TestMoveFolderRefusesCycles(t *testing.T) {
	tr, err := Build(sampleRows())
	require.NoError(t, err)

	require.NoError(t, tr.MoveFolder(3, 2))

	// 2 -> 3 would put Recipes inside its own subtree.
	assert.Error(t, tr.MoveFolder(2, 3))
	assert.Error(t, tr.MoveFolder(2, 2))
	assert.Error(t, tr.MoveFolder(1, 2), "root cannot move")
}

func TestMoveDocument(t *testing.T) {
	tr, err := Build(sampleRows())
	require.NoError(t, err)

	require.NoError(t, tr.MoveDocument(10, 3))

	recipes, _ := tr.Folder(2)
	work, _ := tr.Folder(3)
	assert.Empty(t, recipes.Children)
	require.Len(t, work.Children, 1)
	assert.Equal(t, int64(10), work.Children[0].ID)
}

func TestRename(t *testing.T) {
	tr, err := Build(sampleRows())
	require.NoError(t, err)

	require.NoError(t, tr.Rename(2, "Cooking"))
	require.NoError(t, tr.Rename(10, "Shopping"))

	folder, _ := tr.Folder(2)
	doc, _ := tr.Document(10)
	assert.Equal(t, "Cooking", folder.Name)
	assert.Equal(t, "Shopping", doc.Name)

	assert.Error(t, tr.Rename(999, "x"))
}

func TestAddAndRemove(t *testing.T) {
	tr, err := Build(sampleRows())
	require.NoError(t, err)

	require.NoError(t, tr.AddFolder(1, 4, "Archive"))
	require.NoError(t, tr.AddDocument(4, &Node{ID: 11, Name: "Old notes", Type: "LIST"}))

	doc, ok := tr.Document(11)
	require.True(t, ok)
	assert.Equal(t, "list", doc.Type)

	assert.Error(t, tr.RemoveFolder(4), "folder still has children")
	require.NoError(t, tr.RemoveDocument(11))
	require.NoError(t, tr.RemoveFolder(4))

	_, ok = tr.Folder(4)
	assert.False(t, ok)
	assert.Error(t, tr.RemoveFolder(1), "root cannot be removed")
}

func TestReadonlyFlagDecoding(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`0`, false}, {`1`, true},
		{`"0"`, false}, {`"1"`, true},
		{`false`, false}, {`true`, true},
	}
	for _, tc := range cases {
		var f ReadonlyFlag
		require.NoError(t, json.Unmarshal([]byte(tc.in), &f), "input %s", tc.in)
		assert.Equal(t, tc.want, bool(f), "input %s", tc.in)
	}

	var f ReadonlyFlag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))
}

func TestNodeJSONShapes(t *testing.T) {
	tr, err := Build(sampleRows())
	require.NoError(t, err)

	payload, err := json.Marshal(tr.Root())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "folder", decoded["type"])
	assert.NotContains(t, decoded, "content")

	doc, _ := tr.Document(10)
	payload, err = json.Marshal(doc)
	require.NoError(t, err)

	decoded = map[string]any{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "document", decoded["type"])
	assert.Equal(t, "<p>milk</p>", decoded["content"])
	assert.Equal(t, true, decoded["readonly"])
	assert.NotContains(t, decoded, "children")
}
