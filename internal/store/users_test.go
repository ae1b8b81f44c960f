package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates an in-memory SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func testUser(id, email string, role Role) *User {
	now := time.Now().UTC().Truncate(time.Second)
	return &User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStore_CreateUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := testUser("user-1", "agent@example.com", RoleAgent)
	require.NoError(t, store.CreateUser(ctx, user))

	retrieved, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", retrieved.ID)
	assert.Equal(t, "agent@example.com", retrieved.Email)
	assert.Equal(t, RoleAgent, retrieved.Role)
	assert.Equal(t, user.PasswordHash, retrieved.PasswordHash)
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleAgent)))

	err := store.CreateUser(ctx, testUser("user-2", "a@x.com", RoleAdmin))
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestStore_CreateUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleAgent)))

	// Same address with different case must collide
	err := store.CreateUser(ctx, testUser("user-2", "A@X.com", RoleAdmin))
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestStore_GetUser_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetUserByEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleSupervisor)))

	tests := []struct {
		name  string
		email string
	}{
		{name: "exact case", email: "a@x.com"},
		{name: "upper case", email: "A@X.com"},
		{name: "mixed case", email: "a@X.Com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := store.GetUserByEmail(ctx, tt.email)
			require.NoError(t, err)
			assert.Equal(t, "user-1", user.ID)
			assert.Equal(t, "a@x.com", user.Email)
		})
	}
}

func TestStore_GetUserByEmail_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListUsers(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleSuperAdmin)))
	require.NoError(t, store.CreateUser(ctx, testUser("user-2", "b@x.com", RoleAgent)))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_DeleteUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "a@x.com", RoleAgent)))

	require.NoError(t, store.DeleteUser(ctx, "user-1"))

	_, err := store.GetUser(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again reports not found
	assert.ErrorIs(t, store.DeleteUser(ctx, "user-1"), ErrNotFound)
}

func TestStore_EmailStoredLowercase(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser("user-1", "Mixed@Case.COM", RoleAgent)))

	user, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "mixed@case.com", user.Email)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleSupervisor))
	assert.True(t, ValidRole(RoleAgent))
	assert.False(t, ValidRole(Role("OWNER")))
	assert.False(t, ValidRole(Role("")))
}

func TestUser_Public(t *testing.T) {
	user := testUser("user-1", "a@x.com", RoleAdmin)
	pub := user.Public()

	assert.Equal(t, user.ID, pub.ID)
	assert.Equal(t, user.Email, pub.Email)
	assert.Equal(t, user.Role, pub.Role)
	assert.WithinDuration(t, user.CreatedAt, pub.CreatedAt, time.Second)
}
