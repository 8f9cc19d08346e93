package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, New(server.URL, "test-token", "app-1")
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotTenant string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("App_id")
		w.Write([]byte(`[]`))
	})

	_, err := c.PendingInvites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "app-1", gotTenant)
}

func TestFetchTree(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hierarchy", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "My Documents", "is_root": true, "children": []any{}},
			{"id": 2, "name": "Recipes", "parent_id": 1, "children": []map[string]any{
				{"id": 10, "name": "Groceries", "type": "document", "content": "<p>milk</p>", "owner": "user-1", "readonly": 1},
			}},
		})
	})

	tr, err := c.FetchTree(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), tr.Root().ID)
	doc, ok := tr.Document(10)
	require.True(t, ok)
	assert.True(t, doc.Readonly)
}

func TestFetchTreeFallsBackOnNotFound(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": true, "kind": "not_found", "message": "no documents found"})
	})

	tr, err := c.FetchTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), tr.Root().ID)
	assert.Equal(t, "My Documents", tr.Root().Name)
}

func TestCreateDocument(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/documents", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Groceries", body["title"])
		assert.Equal(t, float64(7), body["folder_id"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 10, "title": "Groceries", "owner_id": "user-1", "type": "document", "readonly": false},
		})
	})

	folderID := int64(7)
	doc, err := c.CreateDocument(context.Background(), CreateDocumentRequest{
		Title:    "Groceries",
		Type:     "document",
		FolderID: &folderID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), doc.ID)
	assert.Equal(t, "user-1", doc.OwnerID)
}

func TestErrorEnvelopeDecoding(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"error": true, "kind": "forbidden", "message": "Forbidden"})
	})

	err := c.AcceptInvite(context.Background(), 5)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "forbidden", apiErr.Kind)
	assert.Equal(t, "Forbidden", apiErr.Message)
}

func TestGetDocumentEmptyResultIsNotFound(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := c.GetDocument(context.Background(), 99)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestSaveContent(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"id": 10, "content": "<p>milk</p>"})
	})

	require.NoError(t, c.SaveContent(context.Background(), 10, "<p>milk</p>"))
	assert.Equal(t, "/api/documents/10", gotPath)
	assert.Equal(t, map[string]any{"content": "<p>milk</p>"}, gotBody)
}
