// ABOUTME: Unit tests for principal context propagation
// ABOUTME: Covers WithPrincipal/FromContext/MustFromContext behavior

package auth

import (
	"context"
	"testing"

	"github.com/howlil/wakachat-server/internal/store"
)

func TestWithPrincipal_FromContext(t *testing.T) {
	p := &Principal{
		ID:    "user-123",
		Email: "a@x.com",
		Role:  store.RoleAgent,
	}

	ctx := WithPrincipal(context.Background(), p)

	got := FromContext(ctx)
	if got == nil {
		t.Fatal("FromContext() = nil, want principal")
	}
	if got.ID != "user-123" || got.Email != "a@x.com" || got.Role != store.RoleAgent {
		t.Errorf("FromContext() = %+v, want %+v", got, p)
	}
}

func TestFromContext_Missing(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %+v, want nil", got)
	}
}

func TestMustFromContext_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFromContext() should panic without a principal")
		}
	}()
	MustFromContext(context.Background())
}

func TestMustFromContext_Present(t *testing.T) {
	p := &Principal{ID: "user-123", Email: "a@x.com", Role: store.RoleAdmin}
	ctx := WithPrincipal(context.Background(), p)

	got := MustFromContext(ctx)
	if got.ID != "user-123" {
		t.Errorf("MustFromContext().ID = %q, want %q", got.ID, "user-123")
	}
}
