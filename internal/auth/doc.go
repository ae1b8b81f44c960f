// Package auth provides authentication and authorization for wakachat-server.
//
// # Credentials
//
// Passwords are hashed with bcrypt. CheckPassword is a boolean check; a
// wrong password is an expected outcome, not an error. CompareDummy keeps
// the unknown-email login path on the same timing as the known-email path.
//
// # Session Tokens
//
// Sessions are stateless JWTs signed with HS256 using the configured
// auth.jwt_secret. A token snapshots the user's id, email and role at
// issuance:
//
//	codec, err := auth.NewCodec(secret, ttl)
//	token, err := codec.Issue(user.ID, user.Email, user.Role)
//	claims, err := codec.Verify(token)
//
// There is no refresh or revocation mechanism; a token stays valid until
// it expires. Verify reports every rejection as ErrInvalidToken so callers
// can't distinguish expiry from tampering; the wrapped cause is kept for
// logs.
//
// # Request Admission
//
// Middleware verifies the Authorization bearer header and attaches a
// Principal to the request context. RequireRole then gates routes on exact
// role membership:
//
//	mux.Handle("GET /api/users", authn(auth.RequireRole(store.RoleAdmin, store.RoleSuperAdmin)(h)))
//
// Handlers read the identity back with auth.FromContext(ctx).
package auth
