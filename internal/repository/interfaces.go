package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ddlog/ddlog/pkg/entity"
)

type CredentialsRepositoryI interface {
	// Inserts the single credential row. Returns the stored row with ID
	Create(ctx context.Context, pinHash string) (*entity.User, error)
	// Fetches the credential row. Single-user system, at most one row exists
	Get(ctx context.Context) (*entity.User, error)
	// Rewrites the failed-attempt counter and lockout expiry. Nil lockedUntil clears the lock
	UpdateAttempts(ctx context.Context, uid uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
}

type TasksRepositoryI interface {
	// Inserts a task owned by task.UserID. Returns the stored row with timestamps
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	// Fetches a task scoped to its owner
	GetByID(ctx context.Context, id, uid uuid.UUID) (*entity.Task, error)
	// Rewrites the mutable columns and stamps updated_at. Returns the stored row
	Update(ctx context.Context, task *entity.Task) (*entity.Task, error)
	// Removes a task. Reports whether a row was actually deleted
	Delete(ctx context.Context, id, uid uuid.UUID) (bool, error)
	// Lists owner's tasks newest-created-first. Empty date means all,
	// otherwise only tasks created on that YYYY-MM-DD calendar date
	List(ctx context.Context, uid uuid.UUID, date string) ([]*entity.Task, error)
	// Lists owner's tasks created within [from, to] calendar dates, newest first
	ListByDateRange(ctx context.Context, uid uuid.UUID, from, to string) ([]*entity.Task, error)
	// Groups owner's tasks by creation date within [from, to], ascending
	CompletionByDateRange(ctx context.Context, uid uuid.UUID, from, to string) ([]entity.CompletionBucket, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
