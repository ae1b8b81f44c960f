// ABOUTME: Tests for the inbox service against an in-memory SQLite store
// ABOUTME: Covers conversation lifecycle, message recording, and template rendering

package inbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howlil/wakachat-server/internal/store"
)

func setupService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(st, nil), st
}

func openConversation(t *testing.T, svc *Service) *store.Conversation {
	t.Helper()
	conv, err := svc.CreateConversation(context.Background(), CreateConversationParams{
		ContactName:   "Alice",
		ContactHandle: "+628123456789",
		Channel:       store.ChannelWhatsApp,
	})
	require.NoError(t, err)
	return conv
}

func TestService_CreateConversation(t *testing.T) {
	svc, _ := setupService(t)

	conv := openConversation(t, svc)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, store.ConversationOpen, conv.Status)
	assert.Equal(t, store.ChannelWhatsApp, conv.Channel)
}

func TestService_CreateConversation_Validation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateConversation(ctx, CreateConversationParams{
		ContactHandle: "+628123456789",
		Channel:       store.ChannelWhatsApp,
	})
	assert.Error(t, err, "missing contact name should fail")

	_, err = svc.CreateConversation(ctx, CreateConversationParams{
		ContactName: "Alice",
		Channel:     "carrier-pigeon",
	})
	assert.Error(t, err, "unknown channel should fail")
}

func TestService_SendMessage(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	conv := openConversation(t, svc)

	msg, err := svc.SendMessage(ctx, conv.ID, "user-1", "Hello from support")
	require.NoError(t, err)
	assert.Equal(t, store.DirectionOutbound, msg.Direction)
	assert.Equal(t, "user-1", msg.AuthorID)

	msgs, err := svc.ListMessages(ctx, conv.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello from support", msgs[0].Body)
}

func TestService_SendMessage_EmptyBody(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	conv := openConversation(t, svc)

	_, err := svc.SendMessage(ctx, conv.ID, "user-1", "   ")
	assert.Error(t, err)
}

func TestService_SendMessage_UnknownConversation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "ghost", "user-1", "hello")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_UpdateStatus(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	conv := openConversation(t, svc)

	require.NoError(t, svc.UpdateStatus(ctx, conv.ID, store.ConversationResolved))

	got, err := svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ConversationResolved, got.Status)

	assert.Error(t, svc.UpdateStatus(ctx, conv.ID, "archived"), "unknown status should fail")
}

func TestService_ListConversations_RejectsBadFilter(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.ListConversations(ctx, store.ConversationFilter{Status: "archived"})
	assert.Error(t, err)

	_, err = svc.ListConversations(ctx, store.ConversationFilter{Channel: "fax"})
	assert.Error(t, err)
}

func TestService_Templates(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, &store.User{
		ID: "user-1", Name: "Admin", Email: "admin@x.com",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         store.RoleAdmin,
	}))

	tpl, err := svc.CreateTemplate(ctx, TemplateParams{
		Name: "welcome",
		Body: "# Hi\n\nThanks for reaching out, **we'll reply soon**.",
	}, "user-1")
	require.NoError(t, err)

	updated, err := svc.UpdateTemplate(ctx, tpl.ID, TemplateParams{
		Name: "welcome-v2",
		Body: "plain body",
	})
	require.NoError(t, err)
	assert.Equal(t, "welcome-v2", updated.Name)

	tpls, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, tpls, 1)

	require.NoError(t, svc.DeleteTemplate(ctx, tpl.ID))
	_, err = svc.GetTemplate(ctx, tpl.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_RenderTemplatePreview(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, &store.User{
		ID: "user-1", Name: "Admin", Email: "admin@x.com",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         store.RoleAdmin,
	}))

	tpl, err := svc.CreateTemplate(ctx, TemplateParams{
		Name: "welcome",
		Body: "# Hello\n\nThis is **bold**.",
	}, "user-1")
	require.NoError(t, err)

	html, err := svc.RenderTemplatePreview(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Hello</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestService_RenderTemplatePreview_NotFound(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.RenderTemplatePreview(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
