// Package auth is the credential-based authentication and authorization
// layer for the LMS backend: it issues signed session tokens at login,
// validates them on every request through the authgate middleware, and
// derives the request-scoped principal used for access control decisions.
//
// Identity records:
//   - Users carry a lifecycle status and a nullable deletion marker that is
//     persisted via Bun. Soft-deleted records are excluded from every lookup
//     and from the email uniqueness check, so a freed email can be
//     registered again.
//
// Tokens:
//   - Session tokens are stateless HS256 JWTs carrying the numeric subject
//     id and a role claim. Validity is purely signature plus expiry; there
//     is no revocation, so a token can outlive its identity record.
//
// Authorization:
//   - Access rules live in a static operation-to-roles table evaluated by
//     Authorize at a single choke point (RequireOperation) before any
//     handler side effect runs.
package auth
