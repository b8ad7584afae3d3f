package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/internal/repository"
)

var credentialColumns = []string{"id", "pin_hash", "failed_attempts", "locked_until", "created_at"}

func TestCreateCredential(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewCredentialsRepoWithConn(conn)
	uid := uuid.New()
	pinHash := "test_pin_hash"
	createdAt := time.Now()
	query := regexp.QuoteMeta(`INSERT INTO users (pin_hash, failed_attempts, locked_until) VALUES ($1, 0, NULL) RETURNING id, pin_hash, failed_attempts, locked_until, created_at;`)
	t.Run("successfully created", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(pinHash).
			WillReturnRows(pgxmock.NewRows(credentialColumns).AddRow(uid, pinHash, 0, nil, createdAt))
		user, err := repo.Create(ctx, pinHash)
		assert.NoError(t, err)
		assert.Equal(t, uid, user.ID)
		assert.Equal(t, pinHash, user.PinHash)
		assert.Zero(t, user.FailedAttempts)
		assert.Nil(t, user.LockedUntil)
	})
	t.Run("unique violation error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(pinHash).WillReturnError(&pgconn.PgError{
			Code: "23505",
		})
		_, err := repo.Create(ctx, pinHash)
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(pinHash).WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, pinHash)
		assert.Error(t, err)
	})
}

func TestGetCredential(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewCredentialsRepoWithConn(conn)
	uid := uuid.New()
	lockedUntil := time.Now().Add(30 * time.Second)
	createdAt := time.Now()
	query := regexp.QuoteMeta(`SELECT id, pin_hash, failed_attempts, locked_until, created_at FROM users LIMIT 1;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows(credentialColumns).AddRow(uid, "test_pin_hash", 3, &lockedUntil, createdAt))
		user, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, uid, user.ID)
		assert.Equal(t, 3, user.FailedAttempts)
		assert.Equal(t, lockedUntil, *user.LockedUntil)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).WillReturnError(pgx.ErrNoRows)
		_, err := repo.Get(ctx)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WillReturnError(errors.New("db error"))
		_, err := repo.Get(ctx)
		assert.Error(t, err)
	})
}

func TestUpdateAttempts(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewCredentialsRepoWithConn(conn)
	uid := uuid.New()
	lockedUntil := time.Now().Add(30 * time.Second)
	query := regexp.QuoteMeta(`UPDATE users SET failed_attempts = $1, locked_until = $2 WHERE id = $3;`)
	t.Run("updated with lock", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(5, &lockedUntil, uid).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.UpdateAttempts(ctx, uid, 5, &lockedUntil)
		assert.NoError(t, err)
	})
	t.Run("updated clearing lock", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(0, (*time.Time)(nil), uid).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.UpdateAttempts(ctx, uid, 0, nil)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(0, (*time.Time)(nil), uid).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.UpdateAttempts(ctx, uid, 0, nil)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(0, (*time.Time)(nil), uid).
			WillReturnError(errors.New("db error"))
		err := repo.UpdateAttempts(ctx, uid, 0, nil)
		assert.Error(t, err)
	})
}
