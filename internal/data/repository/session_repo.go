package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// sessionRetention keeps ended sessions around for a week of audit before cleanup
const sessionRetention = 7 * 24 * time.Hour

// SessionRepository stores the server-side half of a login. A signed bearer
// token is only honoured while its session row is live, so revoking the row
// logs the client out regardless of the token's own expiry.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error

	// FindValidSession returns nil, nil for unknown, revoked and expired tokens
	FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error)

	// Revoke ends one login; a token that is unknown or already ended is NotFound
	Revoke(ctx context.Context, token uuid.UUID) error
	// RevokeAllUserSessions ends every live login of the user, e.g. when the account is deleted
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) (int64, error)

	// CleanExpiredSessions deletes rows that ended more than sessionRetention ago
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sessions (id, user_id, token, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		// the account was deleted between password check and login
		if _, ok := database.ForeignKeyViolation(err); ok {
			return apperror.NotFound("User")
		}

		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("create session for user %s: %w", session.UserID.String(), err)
	}

	r.log.Debug("Session created",
		zap.String("session_id", session.ID.String()),
		zap.String("user_id", session.UserID.String()),
		zap.Time("expires_at", session.ExpiresAt),
	)
	return nil
}

func (r *sessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT id, user_id, token, user_agent, ip_address, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		// the token itself is a credential and stays out of the log
		r.log.Error("Database error looking up session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`

	result, err := r.db.Exec(ctx, query, token)
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("Session")
	}

	return nil
}

func (r *sessionRepository) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to revoke user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("revoke sessions of user %s: %w", userID.String(), err)
	}

	revoked := result.RowsAffected()
	if revoked > 0 {
		r.log.Info("User sessions revoked",
			zap.String("user_id", userID.String()),
			zap.Int64("count", revoked),
		)
	}
	return revoked, nil
}

func (r *sessionRepository) CleanExpiredSessions(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at < $1
		   OR revoked_at < $1
	`

	cutoff := time.Now().Add(-sessionRetention)
	result, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to clean expired sessions", zap.Error(err), zap.Time("cutoff", cutoff))
		return 0, fmt.Errorf("clean sessions before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	return result.RowsAffected(), nil
}
