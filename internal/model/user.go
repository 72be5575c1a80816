package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID            – primary key identifier of the user.
//  Email         – unique email address.
//  PasswordHash  – bcrypt hashed password.
//  EmailVerified – whether the address has been confirmed.  Schedule
//                  endpoints are gated on this flag.
//  IsActive      – whether the account is active.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
	ID            uint64    // users.id
	Email         string    // users.email
	PasswordHash  string    // users.password_hash
	EmailVerified bool      // users.email_verified
	IsActive      bool      // users.is_active
	CreatedAt     time.Time // users.created_at
	UpdatedAt     time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// VerificationToken models an entry in the `verification_tokens`
// table.  It follows the same hashed-token scheme as refresh tokens:
// the raw value goes out through the mail collaborator, the database
// keeps the SHA-256 digest.  A token is single-use; ConsumedAt marks
// the moment it confirmed an address.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user whose email the token confirms.
//  TokenHash  – SHA-256 hex digest of the token value.
//  ExpiresAt  – expiration timestamp.
//  ConsumedAt – when the token was used (null while pending).
//  CreatedAt  – timestamp of creation.
type VerificationToken struct {
	ID         uint64     // verification_tokens.id
	UserID     uint64     // verification_tokens.user_id
	TokenHash  string     // verification_tokens.token_hash
	ExpiresAt  time.Time  // verification_tokens.expires_at
	ConsumedAt *time.Time // verification_tokens.consumed_at (nullable)
	CreatedAt  time.Time  // verification_tokens.created_at
}
