package repository

import (
	"context"
	"database/sql"
	"time"
)

// VerificationRepo persists email-verification tokens.  Tokens use
// the same hashed single-use scheme as refresh tokens: the raw value
// travels to the user's mailbox, the database keeps the digest, and
// consuming a token is an atomic claim so it cannot confirm an
// address twice.
type VerificationRepo struct{ DB *sql.DB }

func NewVerificationRepo(db *sql.DB) *VerificationRepo { return &VerificationRepo{DB: db} }

// Store inserts a verification token hash for the user.  Issuing a
// new token does not invalidate earlier ones; they simply expire.
func (r *VerificationRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO verification_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Consume claims an unused, unexpired token and returns the user id
// it belongs to.  The UPDATE marks the row consumed first; claiming
// zero rows means the token is unknown, expired or already used, all
// reported as sql.ErrNoRows.
func (r *VerificationRepo) Consume(ctx context.Context, tokenHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE verification_tokens
		 SET consumed_at=UTC_TIMESTAMP()
		 WHERE token_hash=? AND consumed_at IS NULL AND expires_at > UTC_TIMESTAMP()`,
		tokenHash)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	var userID uint64
	err = r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM verification_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID)
	return userID, err
}
