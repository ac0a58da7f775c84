package sqlite

import (
	"context"
	"time"

	"github.com/pantrylabs/pantry/internal/auth/domain"
)

type refreshCredentialsRepo struct {
	q querier
}

func (r *refreshCredentialsRepo) CreateRefreshCredential(
	ctx context.Context,
	c domain.RefreshCredential,
) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_credentials (id, subject_id, token_hash, expires_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.SubjectID, c.TokenHash, c.ExpiresAt.UTC(),
	)
	return err
}

func (r *refreshCredentialsRepo) RefreshCredentialExists(
	ctx context.Context,
	hash string,
) (bool, error) {
	// Expiry is compared against a bind parameter rather than
	// CURRENT_TIMESTAMP so the comparison matches how the driver stores
	// time.Time values.
	var exists bool
	err := r.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM refresh_credentials
			WHERE token_hash = ? AND expires_at > ?
		)`, hash, time.Now().UTC()).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *refreshCredentialsRepo) DeleteRefreshCredentialByHash(
	ctx context.Context,
	hash string,
) error {
	// Idempotent: deleting an absent fingerprint affects zero rows, which is
	// what rotation under racing requests relies on.
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_credentials WHERE token_hash = ?`, hash)
	return err
}

func (r *refreshCredentialsRepo) DeleteRefreshCredentialsBySubject(
	ctx context.Context,
	subjectID string,
) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_credentials WHERE subject_id = ?`, subjectID)
	return err
}

func (r *refreshCredentialsRepo) DeleteExpiredRefreshCredentials(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_credentials WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
