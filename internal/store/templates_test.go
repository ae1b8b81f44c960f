package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplate(id, name string) *BroadcastTemplate {
	now := time.Now().UTC().Truncate(time.Second)
	return &BroadcastTemplate{
		ID:        id,
		Name:      name,
		Body:      "# Hello\n\nWelcome, **{{name}}**!",
		CreatedBy: "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_CreateTemplate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleAdmin)))
	require.NoError(t, store.CreateTemplate(ctx, testTemplate("tpl-1", "welcome")))

	tpl, err := store.GetTemplate(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, "welcome", tpl.Name)
	assert.Contains(t, tpl.Body, "{{name}}")
	assert.Equal(t, "user-1", tpl.CreatedBy)
}

func TestStore_GetTemplate_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetTemplate(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListTemplates_SortedByName(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleAdmin)))
	require.NoError(t, store.CreateTemplate(ctx, testTemplate("tpl-1", "zulu")))
	require.NoError(t, store.CreateTemplate(ctx, testTemplate("tpl-2", "alpha")))

	tpls, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 2)
	assert.Equal(t, "alpha", tpls[0].Name)
	assert.Equal(t, "zulu", tpls[1].Name)
}

func TestStore_UpdateTemplate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleAdmin)))
	require.NoError(t, store.CreateTemplate(ctx, testTemplate("tpl-1", "welcome")))

	updated := testTemplate("tpl-1", "welcome-v2")
	updated.Body = "updated body"
	require.NoError(t, store.UpdateTemplate(ctx, updated))

	tpl, err := store.GetTemplate(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, "welcome-v2", tpl.Name)
	assert.Equal(t, "updated body", tpl.Body)

	assert.ErrorIs(t, store.UpdateTemplate(ctx, testTemplate("ghost", "x")), ErrNotFound)
}

func TestStore_DeleteTemplate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleAdmin)))
	require.NoError(t, store.CreateTemplate(ctx, testTemplate("tpl-1", "welcome")))

	require.NoError(t, store.DeleteTemplate(ctx, "tpl-1"))

	_, err := store.GetTemplate(ctx, "tpl-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteTemplate(ctx, "tpl-1"), ErrNotFound)
}
