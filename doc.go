// Package auth provides the request pipeline primitives for the staff API:
// bearer token issuance and verification, credential checks against a
// seeded account set, per-route role allow-lists and the error taxonomy
// every stage reports through.
//
// Pipeline:
//   - Authentication (middleware/jwtware) reads "Authorization: Bearer <token>",
//     verifies it with the TokenService and attaches a RequestIdentity.
//   - Authorization (middleware/rbac) checks the identity's role against
//     the RoleSet declared when the route was registered.
//   - Validation (middleware/validate) checks the body against a declared
//     schema and reports every invalid field at once.
//
// Errors:
//   - Each stage returns an *Error whose Kind fixes the HTTP status. The
//     first failing stage ends the request; ErrorHandler is the only place a
//     failure is turned into the {"error": {name, message, status}} body.
//   - Token failures are indistinguishable: expired, tampered
//     and malformed tokens all surface as the same authentication error.
package auth
