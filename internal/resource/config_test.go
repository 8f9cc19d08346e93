package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notielf/internal/domain/models"
)

// fullRegistry registers a stand-in for every name the embedded config uses.
func fullRegistry() *Registry {
	reg := NewRegistry()
	noopSelect := func(*models.Identity, *Query, int64) error { return nil }
	noopCreate := func(*models.Identity, map[string]any) error { return nil }

	for _, name := range []string{"scopeOwner", "scopeUser", "scopeInviteSender"} {
		reg.RegisterSelectHook(name, noopSelect)
	}
	for _, name := range []string{"stampOwner", "stampUser", "stampInviteSender"} {
		reg.RegisterCreateHook(name, noopCreate)
	}
	reg.RegisterAfterCreateHook("linkDocumentToFolder", func(context.Context, *models.Identity, map[string]any, map[string]any) error {
		return nil
	})
	reg.RegisterSelectFunc("folderHierarchy", func(context.Context, *models.Identity, int64) (any, error) {
		return nil, nil
	})
	for _, name := range []string{"getInvites", "acceptInvite", "declineInvite", "getUserDocuments"} {
		reg.RegisterAction(name, func(context.Context, *models.Identity, map[string]any) (any, error) {
			return nil, nil
		})
	}
	return reg
}

func TestLoadDefaultBindsEverything(t *testing.T) {
	cfg, err := LoadDefault("", fullRegistry())
	require.NoError(t, err)

	for _, name := range []string{"invite", "folders", "documents", "documentownership", "userdocuments", "hierarchy"} {
		res, ok := cfg.Resource(name)
		require.True(t, ok, "resource %s", name)
		assert.Equal(t, name, res.Name())
	}

	for _, name := range []string{"getinvites", "acceptinvite", "declineinvite", "getuserdocuments"} {
		_, ok := cfg.Action(name)
		assert.True(t, ok, "action %s", name)
	}
}

func TestLoadDefaultAppliesTablePrefix(t *testing.T) {
	cfg, err := LoadDefault("test_", fullRegistry())
	require.NoError(t, err)

	docs, ok := cfg.Resource("documents")
	require.True(t, ok)
	assert.Equal(t, "test_documents", docs.Table())

	sub, ok := docs.Subkeys["ownership"]
	require.True(t, ok)
	assert.Equal(t, "test_document_ownership", sub.Table())
}

func TestLoadDefaultBindsSubkeys(t *testing.T) {
	cfg, err := LoadDefault("", fullRegistry())
	require.NoError(t, err)

	folders, ok := cfg.Resource("folders")
	require.True(t, ok)

	sub, ok := folders.Subkeys["documents"]
	require.True(t, ok)
	assert.Equal(t, "folders/documents", sub.Name())
	assert.Equal(t, "folder_id", sub.Key)
	assert.NotNil(t, sub.beforeSelect, "subkey must carry its own scoping hook")
}

func TestLoadDefaultHierarchyUsesSelectFunc(t *testing.T) {
	cfg, err := LoadDefault("", fullRegistry())
	require.NoError(t, err)

	hierarchy, ok := cfg.Resource("hierarchy")
	require.True(t, ok)
	assert.NotNil(t, hierarchy.selectFunc)
	assert.Empty(t, hierarchy.Select.Fields)
}

func TestLoadRejectsUnknownHook(t *testing.T) {
	data := []byte(`
resources:
  widgets:
    tablename: widgets
    key: id
    select: [id]
    beforeselect: noSuchHook
`)
	_, err := Load(data, "", NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noSuchHook")
}

func TestLoadRejectsUnknownAction(t *testing.T) {
	data := []byte(`
resources: {}
post:
  frob: noSuchAction
`)
	_, err := Load(data, "", NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noSuchAction")
}

func TestLoadRejectsMissingTablename(t *testing.T) {
	data := []byte(`
resources:
  widgets:
    key: id
    select: [id]
`)
	_, err := Load(data, "", NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tablename")
}

func TestSelectSpecScalarAndSequence(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSelectFunc("computed", func(context.Context, *models.Identity, int64) (any, error) {
		return nil, nil
	})

	data := []byte(`
resources:
  plain:
    tablename: plain
    key: id
    select: [id, name]
  fancy:
    tablename: fancy
    key: id
    select: computed
`)
	cfg, err := Load(data, "", reg)
	require.NoError(t, err)

	plain, _ := cfg.Resource("plain")
	assert.Equal(t, []string{"id", "name"}, plain.Select.Fields)
	assert.Nil(t, plain.selectFunc)

	fancy, _ := cfg.Resource("fancy")
	assert.Empty(t, fancy.Select.Fields)
	assert.NotNil(t, fancy.selectFunc)
}
