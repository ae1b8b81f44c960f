// Package store provides persistent storage for wakachat-server using SQLite.
//
// # Data Models
//
//   - User: Dashboard account with bcrypt password hash and a single Role.
//     PublicUser is the projection that may cross the API boundary.
//   - Conversation: An inbox thread with a contact on one channel
//     (whatsapp, telegram, webchat, email).
//   - Message: Append-only messages within a conversation, inbound from the
//     contact or outbound from a dashboard user.
//   - BroadcastTemplate: Reusable markdown message bodies.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Use NewSQLiteStore(":memory:") for tests.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrEmailExists: User email already taken (case-insensitive)
//
// ErrNotFound is always distinguishable from query failures, which are
// returned as wrapped driver errors. All methods accept context.Context.
//
// # Email Identity
//
// User emails are case-insensitive. The store lowercases emails on insert
// and on lookup so the UNIQUE constraint and the lookup key agree.
package store
