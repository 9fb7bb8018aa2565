// Package auth issues and validates the HS256 JWTs used by the API and
// verifies bcrypt password hashes.
package auth
