package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openacademia/catalog-api/internal/models"
)

// TokenRepository persists refresh and password-reset tokens.
type TokenRepository struct {
	db *sqlx.DB
}

// NewTokenRepository creates a new repository instance.
func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateRefreshToken stores a newly issued refresh token.
func (r *TokenRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, admin_id, token, expires_at, created_at, revoked)
	VALUES (:id, :admin_id, :token, :expires_at, :created_at, :revoked)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken fetches a refresh token by its opaque value.
func (r *TokenRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, admin_id, token, expires_at, created_at, revoked, revoked_at FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var stored models.RefreshToken
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		return nil, err
	}
	return &stored, nil
}

// RevokeRefreshToken marks a single refresh token as revoked.
func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAdminRefreshTokens revokes every live refresh token of an admin.
func (r *TokenRepository) RevokeAdminRefreshTokens(ctx context.Context, adminID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE admin_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, adminID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke admin refresh tokens: %w", err)
	}
	return nil
}

// CreateResetToken stores a password-reset token.
func (r *TokenRepository) CreateResetToken(ctx context.Context, token *models.ResetToken) error {
	const query = `INSERT INTO reset_tokens (id, admin_id, token, expires_at, created_at)
	VALUES (:id, :admin_id, :token, :expires_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

// FindResetToken fetches a password-reset token by value.
func (r *TokenRepository) FindResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	const query = `SELECT id, admin_id, token, expires_at, created_at, used_at FROM reset_tokens WHERE token = $1 LIMIT 1`
	var stored models.ResetToken
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		return nil, err
	}
	return &stored, nil
}

// MarkResetTokenUsed consumes a reset token.
func (r *TokenRepository) MarkResetTokenUsed(ctx context.Context, id string, usedAt time.Time) error {
	const query = `UPDATE reset_tokens SET used_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, usedAt); err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	return nil
}
