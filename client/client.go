// Package client is the Go API client for the document backend: typed
// wrappers over the generic resource dispatcher, the invite actions and the
// hierarchy read, plus a debounced autosaver for editor integrations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notielf/tree"
)

const (
	defaultTimeout = 30 * time.Second
	tenantHeader   = "App_id"
)

// APIError is a structured error response from the backend.
type APIError struct {
	Status  int    `json:"-"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Kind, e.Message)
}

// Document is a document row as the API returns it.
type Document struct {
	ID       int64             `json:"id"`
	Title    string            `json:"title"`
	OwnerID  string            `json:"owner_id"`
	Type     string            `json:"type"`
	Content  string            `json:"content"`
	Readonly tree.ReadonlyFlag `json:"readonly"`
}

// Folder is a folder row as the API returns it.
type Folder struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	OwnerID  string `json:"owner_id"`
	ParentID *int64 `json:"parent_id"`
}

// Invite is an invite row as the API returns it.
type Invite struct {
	ID            int64  `json:"id"`
	ToEmail       string `json:"to_email"`
	FromName      string `json:"from_name"`
	FromEmail     string `json:"from_email"`
	DocumentID    int64  `json:"document_id"`
	FolderID      *int64 `json:"folder_id"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	DocumentTitle string `json:"document_title"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client talks to the backend with a fixed bearer token and tenant.
type Client struct {
	baseURL string
	token   string
	tenant  string
	http    *http.Client
}

// New creates a client for the given backend base URL (no trailing slash).
func New(baseURL, token, tenant string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		tenant:  tenant,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set(tenantHeader, c.tenant)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Kind: "unknown", Message: resp.Status}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// FetchTree loads the caller's full folder hierarchy and reconstructs it as
// a navigable tree.
func (c *Client) FetchTree(ctx context.Context) (*tree.Tree, error) {
	var rows []tree.FolderRow
	if err := c.do(ctx, http.MethodGet, "/api/hierarchy", nil, &rows); err != nil {
		var apiErr *APIError
		// A brand-new user has no folders yet; an empty tree still renders.
		if asAPIError(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return tree.Build(nil)
		}
		return nil, err
	}
	return tree.Build(rows)
}

func asAPIError(err error, target **APIError) bool {
	e, ok := err.(*APIError)
	if ok {
		*target = e
	}
	return ok
}

// CreateDocumentRequest is the payload for CreateDocument. FolderID, when
// set, places the new document in that folder in the same transaction.
type CreateDocumentRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Readonly bool   `json:"readonly"`
	FolderID *int64 `json:"folder_id,omitempty"`
}

// CreateDocument creates a document, optionally placed in a folder.
func (c *Client) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	var created []Document
	if err := c.do(ctx, http.MethodPost, "/api/documents", req, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create returned no document")
	}
	return &created[0], nil
}

// GetDocument fetches one owned document.
func (c *Client) GetDocument(ctx context.Context, id int64) (*Document, error) {
	var docs []Document
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/documents/%d", id), nil, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &APIError{Status: http.StatusNotFound, Kind: "not_found", Message: "document not found"}
	}
	return &docs[0], nil
}

// SaveContent persists a document's content.
func (c *Client) SaveContent(ctx context.Context, id int64, content string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/documents/%d", id), map[string]any{"content": content}, nil)
}

// RenameDocument changes a document's title.
func (c *Client) RenameDocument(ctx context.Context, id int64, title string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/documents/%d", id), map[string]any{"title": title}, nil)
}

// DeleteDocument removes an owned document.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/documents/%d", id), nil, nil)
}

// CreateFolder creates a folder under the given parent.
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *int64) (*Folder, error) {
	var created []Folder
	body := map[string]any{"name": name, "parent_id": parentID}
	if err := c.do(ctx, http.MethodPost, "/api/folders", body, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create returned no folder")
	}
	return &created[0], nil
}

// MoveFolder reparents a folder.
func (c *Client) MoveFolder(ctx context.Context, id, newParentID int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/folders/%d", id), map[string]any{"parent_id": newParentID}, nil)
}

// RenameFolder changes a folder's name.
func (c *Client) RenameFolder(ctx context.Context, id int64, name string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/folders/%d", id), map[string]any{"name": name}, nil)
}

// DeleteFolder removes a folder.
func (c *Client) DeleteFolder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/folders/%d", id), nil, nil)
}

// ShareRequest is the payload for Share: offer a document to an email.
type ShareRequest struct {
	ToEmail    string `json:"to_email"`
	FromName   string `json:"from_name,omitempty"`
	DocumentID int64  `json:"document_id"`
	FolderID   *int64 `json:"folder_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Share sends a document invite.
func (c *Client) Share(ctx context.Context, req ShareRequest) (*Invite, error) {
	var created []Invite
	if err := c.do(ctx, http.MethodPost, "/api/invite", req, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("share returned no invite")
	}
	return &created[0], nil
}

// PendingInvites lists sent invites addressed to the caller.
func (c *Client) PendingInvites(ctx context.Context) ([]Invite, error) {
	var invites []Invite
	if err := c.do(ctx, http.MethodPost, "/api/getinvites", map[string]any{}, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// AcceptInvite consumes an invite and grants the shared document.
func (c *Client) AcceptInvite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/acceptinvite", map[string]any{"id": id}, nil)
}

// DeclineInvite consumes an invite without granting anything.
func (c *Client) DeclineInvite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/declineinvite", map[string]any{"id": id}, nil)
}
