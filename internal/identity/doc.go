// Package identity authenticates accounts and verifies access tokens.
//
// Passwords are stored as bcrypt hashes; access tokens are HS256-signed JWTs
// whose subject is the owner id. The rest of the service treats this package
// as the identity-provider boundary: handlers call Verify, the story
// orchestrator calls EmailFor, and nothing else touches account rows directly.
package identity
