package resource

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notielf/internal/domain"
)

func testResource() *Resource {
	return &Resource{
		Key:    "id",
		Select: SelectSpec{Fields: []string{"id", "title", "owner_id"}},
		Delete: true,
		name:   "documents",
		table:  "documents",
		selectable: map[string]bool{
			"id": true, "title": true, "owner_id": true,
		},
	}
}

func TestBuildSelectList(t *testing.T) {
	res := testResource()
	q := NewQuery()
	q.Where["owner_id"] = "user-1"
	q.Limit = 20
	q.Offset = 0

	sql, args, err := BuildSelect(res, q, 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, title, owner_id FROM documents WHERE 1=1 AND owner_id = $1 LIMIT 20 OFFSET 0", sql)
	assert.Equal(t, []any{"user-1"}, args)
}

func TestBuildSelectByID(t *testing.T) {
	res := testResource()
	q := NewQuery()
	q.Where["owner_id"] = "user-1"

	sql, args, err := BuildSelect(res, q, 42)
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, title, owner_id FROM documents WHERE 1=1 AND owner_id = $1 AND id = $2", sql)
	assert.Equal(t, []any{"user-1", int64(42)}, args)
}

func TestBuildSelectDeterministicWhereOrder(t *testing.T) {
	res := testResource()
	q := NewQuery()
	q.Where["owner_id"] = "user-1"
	q.Where["folder_id"] = int64(3)

	sql, args, err := BuildSelect(res, q, 0)
	require.NoError(t, err)

	// Keys are sorted, so folder_id binds before owner_id every time.
	assert.Equal(t, "SELECT id, title, owner_id FROM documents WHERE 1=1 AND folder_id = $1 AND owner_id = $2", sql)
	assert.Equal(t, []any{int64(3), "user-1"}, args)
}

func TestBuildSelectOrdering(t *testing.T) {
	res := testResource()
	q := NewQuery()
	q.OrderBy = "title"
	q.Desc = true

	sql, _, err := BuildSelect(res, q, 0)
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY title DESC")
}

func TestBuildSelectNoReadSurface(t *testing.T) {
	res := testResource()
	res.Select = SelectSpec{}

	_, _, err := BuildSelect(res, NewQuery(), 0)
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestApplyListOptionsDefaults(t *testing.T) {
	res := testResource()
	q := NewQuery()

	require.NoError(t, q.ApplyListOptions(res, url.Values{}))
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Empty(t, q.OrderBy)
}

func TestApplyListOptionsPagination(t *testing.T) {
	res := testResource()
	q := NewQuery()

	values := url.Values{"page": {"3"}, "pageSize": {"10"}}
	require.NoError(t, q.ApplyListOptions(res, values))
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)
}

func TestApplyListOptionsDirection(t *testing.T) {
	res := testResource()

	cases := []struct {
		direction string
		desc      bool
	}{
		{"DESC", true},
		{"desc", true},
		{"ASC", false},
		{"sideways", false},
		{"", false},
	}
	for _, tc := range cases {
		q := NewQuery()
		values := url.Values{"order": {"title"}, "orderDirection": {tc.direction}}
		require.NoError(t, q.ApplyListOptions(res, values))
		assert.Equal(t, tc.desc, q.Desc, "direction %q", tc.direction)
	}
}

func TestApplyListOptionsRejectsUnknownOrderColumn(t *testing.T) {
	res := testResource()
	q := NewQuery()

	values := url.Values{"order": {"secret_column; DROP TABLE documents"}}
	err := q.ApplyListOptions(res, values)
	require.Error(t, err)

	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestApplyListOptionsBadNumbersFallBack(t *testing.T) {
	res := testResource()
	q := NewQuery()

	values := url.Values{"page": {"banana"}, "pageSize": {"-5"}}
	require.NoError(t, q.ApplyListOptions(res, values))
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestBuildInsert(t *testing.T) {
	res := testResource()
	payload := map[string]any{"title": "Groceries", "owner_id": "user-1"}

	sql, args, err := BuildInsert(res, payload)
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO documents (owner_id, title) VALUES ($1, $2) RETURNING id, title, owner_id", sql)
	assert.Equal(t, []any{"user-1", "Groceries"}, args)
}

func TestBuildInsertEmptyPayload(t *testing.T) {
	_, _, err := BuildInsert(testResource(), map[string]any{})
	require.Error(t, err)

	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestBuildUpdate(t *testing.T) {
	res := testResource()
	q := NewQuery()
	q.Where["owner_id"] = "user-1"
	payload := map[string]any{"title": "Renamed"}

	sql, args, err := BuildUpdate(res, payload, q, 7)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE documents SET title = $1 WHERE id = $2 AND owner_id = $3 RETURNING id, title, owner_id", sql)
	assert.Equal(t, []any{"Renamed", int64(7), "user-1"}, args)
}

func TestBuildDelete(t *testing.T) {
	res := testResource()
	q := NewQuery()
	q.Where["owner_id"] = "user-1"

	sql, args, err := BuildDelete(res, q, 7)
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM documents WHERE id = $1 AND owner_id = $2", sql)
	assert.Equal(t, []any{int64(7), "user-1"}, args)
}

func TestBuildDeleteDisallowed(t *testing.T) {
	res := testResource()
	res.Delete = false

	_, _, err := BuildDelete(res, NewQuery(), 7)
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
