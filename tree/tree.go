// Package tree reconstructs a folder/document tree from the flat row list
// the hierarchy endpoint returns. Nodes live in an arena indexed by id, so
// moves and renames are index updates bounded by tree depth rather than
// whole-tree copies.
package tree

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RootID is the id of the synthetic root used when the caller has no
// folders yet.
const RootID int64 = 0

// RootName matches the name the backend gives a caller's root folder.
const RootName = "My Documents"

// ReadonlyFlag decodes the readonly column, which historically arrives as
// 0/1, "0"/"1" or a real boolean depending on the storage backend.
type ReadonlyFlag bool

func (f *ReadonlyFlag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "0", "false", "":
		*f = false
	case "1", "true":
		*f = true
	default:
		return fmt.Errorf("invalid readonly value %s", data)
	}
	return nil
}

func (f ReadonlyFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// DocumentChild is a document as it appears inside a folder row's children
// array.
type DocumentChild struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Content  string       `json:"content"`
	Owner    string       `json:"owner"`
	Readonly ReadonlyFlag `json:"readonly"`
}

// FolderRow is one flat row of the hierarchy response: a folder plus the
// documents placed directly in it.
type FolderRow struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID *int64          `json:"parent_id"`
	Owner    string          `json:"owner"`
	IsRoot   bool            `json:"is_root"`
	Children []DocumentChild `json:"children"`
}

// Kind discriminates folder nodes from document leaves.
type Kind int

const (
	KindFolder Kind = iota
	KindDocument
)

// Node is one entry in the tree. Folders carry children; documents carry
// content and sharing state.
type Node struct {
	Kind     Kind
	ID       int64
	Name     string
	Type     string
	Content  string
	Owner    string
	Readonly bool
	Children []*Node
}

// MarshalJSON emits the view-layer shape: folders as {id,name,type,children},
// documents as {id,name,type,content,owner,readonly}.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Kind == KindFolder {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		return json.Marshal(struct {
			ID       int64   `json:"id"`
			Name     string  `json:"name"`
			Type     string  `json:"type"`
			Children []*Node `json:"children"`
		}{n.ID, n.Name, "folder", children})
	}
	return json.Marshal(struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		Content  string `json:"content"`
		Owner    string `json:"owner"`
		Readonly bool   `json:"readonly"`
	}{n.ID, n.Name, strings.ToLower(n.Type), n.Content, n.Owner, n.Readonly})
}

// Tree is the arena: every folder and document indexed by id, with parent
// links kept alongside so structural edits never walk the whole tree.
type Tree struct {
	root      *Node
	folders   map[int64]*Node
	parents   map[int64]int64 // folder id -> parent folder id
	documents map[int64]*Node
	docFolder map[int64]int64 // document id -> containing folder id
}

// Build reconstructs the tree from the flat hierarchy rows. The row flagged
// is_root (the folder with no parent) becomes the tree root; with no rows at
// all the caller gets a synthetic empty root so the view always has
// something to render.
func Build(rows []FolderRow) (*Tree, error) {
	t := &Tree{
		folders:   make(map[int64]*Node, len(rows)),
		parents:   make(map[int64]int64, len(rows)),
		documents: make(map[int64]*Node),
		docFolder: make(map[int64]int64),
	}

	if len(rows) == 0 {
		t.root = &Node{Kind: KindFolder, ID: RootID, Name: RootName, Type: "folder", Children: []*Node{}}
		t.folders[RootID] = t.root
		return t, nil
	}

	// First pass: materialize folder nodes and their document children.
	for _, row := range rows {
		if _, ok := t.folders[row.ID]; ok {
			return nil, fmt.Errorf("duplicate folder row %d", row.ID)
		}
		folder := &Node{
			Kind:     KindFolder,
			ID:       row.ID,
			Name:     row.Name,
			Type:     "folder",
			Owner:    row.Owner,
			Children: []*Node{},
		}
		t.folders[row.ID] = folder

		for _, child := range row.Children {
			doc := &Node{
				Kind:     KindDocument,
				ID:       child.ID,
				Name:     child.Name,
				Type:     strings.ToLower(child.Type),
				Content:  child.Content,
				Owner:    child.Owner,
				Readonly: bool(child.Readonly),
			}
			t.documents[child.ID] = doc
			t.docFolder[child.ID] = row.ID
			folder.Children = append(folder.Children, doc)
		}
	}

	// Second pass: wire parent edges and find the root.
	for _, row := range rows {
		if row.IsRoot || row.ParentID == nil {
			if t.root != nil {
				return nil, fmt.Errorf("multiple root folders (%d and %d)", t.root.ID, row.ID)
			}
			t.root = t.folders[row.ID]
			continue
		}
		parent, ok := t.folders[*row.ParentID]
		if !ok {
			return nil, fmt.Errorf("folder %d references missing parent %d", row.ID, *row.ParentID)
		}
		parent.Children = append(parent.Children, t.folders[row.ID])
		t.parents[row.ID] = *row.ParentID
	}

	if t.root == nil {
		return nil, fmt.Errorf("no root folder in %d rows", len(rows))
	}

	return t, nil
}

// Root returns the tree root.
func (t *Tree) Root() *Node { return t.root }

// Folder looks a folder node up by id.
func (t *Tree) Folder(id int64) (*Node, bool) {
	n, ok := t.folders[id]
	return n, ok
}

// Document looks a document node up by id.
func (t *Tree) Document(id int64) (*Node, bool) {
	n, ok := t.documents[id]
	return n, ok
}

// AddFolder inserts a new folder under the given parent.
func (t *Tree) AddFolder(parentID, id int64, name string) error {
	parent, ok := t.folders[parentID]
	if !ok {
		return fmt.Errorf("unknown parent folder %d", parentID)
	}
	if _, exists := t.folders[id]; exists {
		return fmt.Errorf("folder %d already exists", id)
	}
	folder := &Node{Kind: KindFolder, ID: id, Name: name, Type: "folder", Children: []*Node{}}
	t.folders[id] = folder
	t.parents[id] = parentID
	parent.Children = append(parent.Children, folder)
	return nil
}

// AddDocument inserts a document node into the given folder.
func (t *Tree) AddDocument(folderID int64, doc *Node) error {
	folder, ok := t.folders[folderID]
	if !ok {
		return fmt.Errorf("unknown folder %d", folderID)
	}
	if _, exists := t.documents[doc.ID]; exists {
		return fmt.Errorf("document %d already exists", doc.ID)
	}
	doc.Kind = KindDocument
	doc.Type = strings.ToLower(doc.Type)
	t.documents[doc.ID] = doc
	t.docFolder[doc.ID] = folderID
	folder.Children = append(folder.Children, doc)
	return nil
}

// MoveFolder reparents a folder. Moving the root, or moving a folder under
// itself or one of its descendants, is refused.
func (t *Tree) MoveFolder(id, newParentID int64) error {
	folder, ok := t.folders[id]
	if !ok {
		return fmt.Errorf("unknown folder %d", id)
	}
	if folder == t.root {
		return fmt.Errorf("cannot move the root folder")
	}
	newParent, ok := t.folders[newParentID]
	if !ok {
		return fmt.Errorf("unknown parent folder %d", newParentID)
	}

	// Walk up from the destination; hitting the moved folder means the
	// destination is inside it.
	for cur := newParentID; ; {
		if cur == id {
			return fmt.Errorf("cannot move folder %d into its own subtree", id)
		}
		parent, ok := t.parents[cur]
		if !ok {
			break
		}
		cur = parent
	}

	oldParent := t.folders[t.parents[id]]
	removeChild(oldParent, folder)
	newParent.Children = append(newParent.Children, folder)
	t.parents[id] = newParentID
	return nil
}

// MoveDocument relocates a document into another folder.
func (t *Tree) MoveDocument(id, newFolderID int64) error {
	doc, ok := t.documents[id]
	if !ok {
		return fmt.Errorf("unknown document %d", id)
	}
	newFolder, ok := t.folders[newFolderID]
	if !ok {
		return fmt.Errorf("unknown folder %d", newFolderID)
	}

	oldFolder := t.folders[t.docFolder[id]]
	removeChild(oldFolder, doc)
	newFolder.Children = append(newFolder.Children, doc)
	t.docFolder[id] = newFolderID
	return nil
}

// Rename changes a node's display name, folder or document.
func (t *Tree) Rename(id int64, name string) error {
	if n, ok := t.folders[id]; ok {
		n.Name = name
		return nil
	}
	if n, ok := t.documents[id]; ok {
		n.Name = name
		return nil
	}
	return fmt.Errorf("unknown node %d", id)
}

// RemoveDocument drops a document node from the tree.
func (t *Tree) RemoveDocument(id int64) error {
	doc, ok := t.documents[id]
	if !ok {
		return fmt.Errorf("unknown document %d", id)
	}
	removeChild(t.folders[t.docFolder[id]], doc)
	delete(t.documents, id)
	delete(t.docFolder, id)
	return nil
}

// RemoveFolder drops an empty folder. Folders with children must be emptied
// first so the caller decides what happens to the contents.
func (t *Tree) RemoveFolder(id int64) error {
	folder, ok := t.folders[id]
	if !ok {
		return fmt.Errorf("unknown folder %d", id)
	}
	if folder == t.root {
		return fmt.Errorf("cannot remove the root folder")
	}
	if len(folder.Children) > 0 {
		return fmt.Errorf("folder %d is not empty", id)
	}
	removeChild(t.folders[t.parents[id]], folder)
	delete(t.folders, id)
	delete(t.parents, id)
	return nil
}

func removeChild(parent, child *Node) {
	if parent == nil {
		return
	}
	for i, c := range parent.Children {
		if c == child {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}
