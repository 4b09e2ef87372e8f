package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockSessionRepo(t *testing.T) (pgxmock.PgxPoolIface, SessionRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewSessionRepository(mock, zap.NewNop())
}

func TestCreateSessionFillsIDAndTimestamp(t *testing.T) {
	mock, repo := newMockSessionRepo(t)
	session := &entity.Session{
		UserID:    uuid.New(),
		Token:     uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WithArgs(pgxmock.AnyArg(), session.UserID, session.Token, session.UserAgent, session.IPAddress, session.ExpiresAt, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSessionForDeletedUser(t *testing.T) {
	mock, repo := newMockSessionRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "sessions_user_id_fkey"})

	err := repo.Create(context.Background(), &entity.Session{UserID: uuid.New(), Token: uuid.New()})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindValidSessionMissing(t *testing.T) {
	mock, repo := newMockSessionRepo(t)
	token := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()`)).
		WithArgs(token).
		WillReturnError(pgx.ErrNoRows)

	session, err := repo.FindValidSession(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindValidSessionDatabaseError(t *testing.T) {
	mock, repo := newMockSessionRepo(t)
	token := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions`)).
		WithArgs(token).
		WillReturnError(errors.New("connection reset"))

	session, err := repo.FindValidSession(context.Background(), token)
	require.Error(t, err)
	assert.Nil(t, session)
	assert.NotContains(t, err.Error(), token.String())
}

func TestRevokeSession(t *testing.T) {
	mock, repo := newMockSessionRepo(t)
	token := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`)).
		WithArgs(token).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`WHERE token = $1 AND revoked_at IS NULL`)).
		WithArgs(token).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Revoke(context.Background(), token))

	err := repo.Revoke(context.Background(), token)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAllUserSessionsReportsCount(t *testing.T) {
	mock, repo := newMockSessionRepo(t)
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`WHERE user_id = $1 AND revoked_at IS NULL`)).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	revoked, err := repo.RevokeAllUserSessions(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanExpiredSessions(t *testing.T) {
	mock, repo := newMockSessionRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	n, err := repo.CleanExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
