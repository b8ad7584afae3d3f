package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/pkg/cleanup"
	"github.com/ddlog/ddlog/pkg/entity"
)

const taskColumns = `id, user_id, name, description, category, reminder_time, completed, created_at, updated_at, completed_at`

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(cfg DBConfig) *TasksRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for tasksRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &TasksRepository{
		conn: pool,
	}
}

func NewTasksRepoWithConn(conn PgConnection) *TasksRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	return &TasksRepository{
		conn: conn,
	}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.Category, &t.ReminderTime,
		&t.Completed, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	row := tr.conn.QueryRow(ctx, `INSERT INTO tasks (user_id, name, description, category, reminder_time) VALUES ($1, $2, $3, $4, $5) RETURNING `+taskColumns+`;`,
		task.UserID,
		task.Name,
		task.Description,
		task.Category,
		task.ReminderTime,
	)
	created, err := scanTask(row)
	if err != nil {
		return nil, errors.New("creating task db error: " + err.Error())
	}
	return created, nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id, uid uuid.UUID) (*entity.Task, error) {
	row := tr.conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2;`, id, uid)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by id error: " + err.Error())
	}
	return task, nil
}

func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	row := tr.conn.QueryRow(ctx, `UPDATE tasks SET name = $1, description = $2, category = $3, reminder_time = $4, completed = $5, completed_at = $6, updated_at = NOW() WHERE id = $7 AND user_id = $8 RETURNING `+taskColumns+`;`,
		task.Name,
		task.Description,
		task.Category,
		task.ReminderTime,
		task.Completed,
		task.CompletedAt,
		task.ID,
		task.UserID,
	)
	updated, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("updating task error: " + err.Error())
	}
	return updated, nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id, uid uuid.UUID) (bool, error) {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return false, errors.New("deleting task error: " + err.Error())
	}
	return ct.RowsAffected() > 0, nil
}

func (tr *TasksRepository) List(ctx context.Context, uid uuid.UUID, date string) ([]*entity.Task, error) {
	var rows pgx.Rows
	var err error
	if date == "" {
		rows, err = tr.conn.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC;`, uid)
	} else {
		rows, err = tr.conn.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 AND created_at::date = $2::date ORDER BY created_at DESC;`, uid, date)
	}
	if err != nil {
		return nil, errors.New("listing tasks error: " + err.Error())
	}
	return collectTasks(rows)
}

func (tr *TasksRepository) ListByDateRange(ctx context.Context, uid uuid.UUID, from, to string) ([]*entity.Task, error) {
	rows, err := tr.conn.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 AND created_at::date >= $2::date AND created_at::date <= $3::date ORDER BY created_at DESC;`, uid, from, to)
	if err != nil {
		return nil, errors.New("listing tasks by range error: " + err.Error())
	}
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]*entity.Task, error) {
	defer rows.Close()
	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errors.New("unmarshalling task error: " + err.Error())
		}
		tasks = append(tasks, t)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) CompletionByDateRange(ctx context.Context, uid uuid.UUID, from, to string) ([]entity.CompletionBucket, error) {
	rows, err := tr.conn.Query(ctx, `SELECT created_at::date AS day, COUNT(*) AS total, COUNT(*) FILTER (WHERE completed) AS done FROM tasks WHERE user_id = $1 AND created_at::date >= $2::date AND created_at::date <= $3::date GROUP BY day ORDER BY day;`, uid, from, to)
	if err != nil {
		return nil, errors.New("aggregating tasks error: " + err.Error())
	}
	defer rows.Close()
	buckets := make([]entity.CompletionBucket, 0)
	for rows.Next() {
		var day time.Time
		var b entity.CompletionBucket
		if err := rows.Scan(&day, &b.Total, &b.Completed); err != nil {
			return nil, errors.New("unmarshalling bucket error: " + err.Error())
		}
		b.Date = day.Format("2006-01-02")
		buckets = append(buckets, b)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return buckets, nil
}
