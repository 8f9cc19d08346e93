package security

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/repository/postgres"
	"notielf/internal/resource"
)

func testHooks() *Hooks {
	return NewHooks(nil, postgres.NewTableNames(""), slog.Default())
}

func ident() *models.Identity {
	return &models.Identity{UserID: "user-1", Email: "u1@example.com", Tenant: "app-1"}
}

func TestScopeHooks(t *testing.T) {
	h := testHooks()

	cases := []struct {
		hook   resource.SelectHook
		column string
	}{
		{h.ScopeOwner, "owner_id"},
		{h.ScopeUser, "user_id"},
		{h.ScopeInviteSender, "from_id"},
	}
	for _, tc := range cases {
		q := resource.NewQuery()
		require.NoError(t, tc.hook(ident(), q, 0))
		assert.Equal(t, "user-1", q.Where[tc.column])
	}
}

func TestStampOwnerOverridesClientValue(t *testing.T) {
	h := testHooks()
	payload := map[string]any{"title": "x", "owner_id": "somebody-else"}

	require.NoError(t, h.StampOwner(ident(), payload))
	assert.Equal(t, "user-1", payload["owner_id"])
}

func TestStampUser(t *testing.T) {
	h := testHooks()
	payload := map[string]any{}

	require.NoError(t, h.StampUser(ident(), payload))
	assert.Equal(t, "user-1", payload["user_id"])
}

func TestStampInviteSender(t *testing.T) {
	h := testHooks()
	payload := map[string]any{
		"to_email":    "friend@example.com",
		"document_id": int64(5),
		"status":      "accepted", // client tries to skip the lifecycle
		"from_id":     "forged",
	}

	require.NoError(t, h.StampInviteSender(ident(), payload))
	assert.Equal(t, "user-1", payload["from_id"])
	assert.Equal(t, "u1@example.com", payload["from_email"])
	assert.Equal(t, "sent", payload["status"])
}

func TestStampInviteSenderValidation(t *testing.T) {
	h := testHooks()

	cases := []map[string]any{
		{"document_id": int64(5)},                                // missing email
		{"to_email": "not-an-email", "document_id": int64(5)},    // bad email
		{"to_email": "friend@example.com"},                       // missing document
		{"to_email": "friend@example.com", "document_id": "abc"}, // wrong type
	}
	for i, payload := range cases {
		err := h.StampInviteSender(ident(), payload)
		require.Error(t, err, "case %d", i)

		var valErr *domain.ValidationError
		assert.ErrorAs(t, err, &valErr, "case %d", i)
	}
}
