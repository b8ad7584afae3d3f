package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/pkg/cleanup"
	"github.com/ddlog/ddlog/pkg/entity"
)

type CredentialsRepository struct {
	conn PgConnection
}

func NewCredentialsRepo(cfg DBConfig) *CredentialsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for credentialsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for credentialsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &CredentialsRepository{
		conn: pool,
	}
}

func NewCredentialsRepoWithConn(conn PgConnection) *CredentialsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for credentialsRepo: " + err.Error())
	}
	return &CredentialsRepository{
		conn: conn,
	}
}

func (cr *CredentialsRepository) Create(ctx context.Context, pinHash string) (*entity.User, error) {
	var user entity.User
	row := cr.conn.QueryRow(ctx, `INSERT INTO users (pin_hash, failed_attempts, locked_until) VALUES ($1, 0, NULL) RETURNING id, pin_hash, failed_attempts, locked_until, created_at;`, pinHash)
	if err := row.Scan(&user.ID, &user.PinHash, &user.FailedAttempts, &user.LockedUntil, &user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return nil, errorvalues.ErrUserExists
			}
		}
		return nil, errors.New("creating credential db error: " + err.Error())
	}
	return &user, nil
}

func (cr *CredentialsRepository) Get(ctx context.Context) (*entity.User, error) {
	var user entity.User
	row := cr.conn.QueryRow(ctx, `SELECT id, pin_hash, failed_attempts, locked_until, created_at FROM users LIMIT 1;`)
	if err := row.Scan(&user.ID, &user.PinHash, &user.FailedAttempts, &user.LockedUntil, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("getting credential error: " + err.Error())
	}
	return &user, nil
}

func (cr *CredentialsRepository) UpdateAttempts(ctx context.Context, uid uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	ct, err := cr.conn.Exec(ctx, `UPDATE users SET failed_attempts = $1, locked_until = $2 WHERE id = $3;`,
		failedAttempts,
		lockedUntil,
		uid,
	)
	if err != nil {
		return errors.New("updating attempts error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}
