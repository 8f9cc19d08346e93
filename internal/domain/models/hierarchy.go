package models

import "time"

// HierarchyDocument is a document as it appears in a folder's children
// array in the hierarchy response.
type HierarchyDocument struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Owner    string `json:"owner"`
	Readonly bool   `json:"readonly"`
}

// HierarchyFolder is one flat row of the hierarchy read: a folder with the
// documents placed directly in it. Sub-folder nesting is reconstructed by
// the consumer from parent_id; is_root marks the single folder per owner
// with no parent.
type HierarchyFolder struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Type      string              `json:"type"`
	ParentID  *int64              `json:"parent_id"`
	Owner     string              `json:"owner"`
	IsRoot    bool                `json:"is_root"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Children  []HierarchyDocument `json:"children"`
}
