package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-web/internal/domain"
	"storefront-web/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) Create(ctx context.Context, s Session) (*Session, error) {
	identityJSON, err := json.Marshal(s.Identity)
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}
	const q = `
INSERT INTO sessions (id, api_token, identity, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id::text, api_token, identity, created_at, expires_at
`
	return r.scanSession(r.pool.QueryRow(ctx, q, s.ID, s.Token, identityJSON, s.ExpiresAt))
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*Session, error) {
	const q = `
SELECT id::text, api_token, identity, created_at, expires_at
FROM sessions
WHERE id = $1
LIMIT 1
`
	return r.scanSession(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ReplaceIdentity(ctx context.Context, id string, identity domain.Identity) error {
	identityJSON, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE sessions SET identity = $2, updated_at = now() WHERE id = $1`, id, identityJSON)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *postgresRepo) scanSession(row pgx.Row) (*Session, error) {
	var s Session
	var identityJSON []byte
	err := row.Scan(&s.ID, &s.Token, &identityJSON, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrAlreadyExists
			case "22P02":
				// malformed uuid from a tampered cookie
				return nil, domain.ErrNotFound
			}
		}
		r.logger.Error("session repo: scan failed", zap.Error(err))
		return nil, err
	}
	if len(identityJSON) > 0 {
		if err := json.Unmarshal(identityJSON, &s.Identity); err != nil {
			return nil, fmt.Errorf("decode identity: %w", err)
		}
	}
	return &s, nil
}
