package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/internal/repository"
	"github.com/ddlog/ddlog/pkg/entity"
)

var taskColumns = []string{"id", "user_id", "name", "description", "category", "reminder_time", "completed", "created_at", "updated_at", "completed_at"}

func taskRow(t *entity.Task) *pgxmock.Rows {
	return pgxmock.NewRows(taskColumns).
		AddRow(t.ID, t.UserID, t.Name, t.Description, t.Category, t.ReminderTime, t.Completed, t.CreatedAt, t.UpdatedAt, t.CompletedAt)
}

func newTestTask(uid uuid.UUID) *entity.Task {
	return &entity.Task{
		ID:           uuid.New(),
		UserID:       uid,
		Name:         "test_task",
		Description:  "test_description",
		Category:     "test_category",
		ReminderTime: "09:30",
		Completed:    false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestCreateTask(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewTasksRepoWithConn(conn)
	uid := uuid.New()
	task := newTestTask(uid)
	query := regexp.QuoteMeta(`INSERT INTO tasks (user_id, name, description, category, reminder_time) VALUES ($1, $2, $3, $4, $5) RETURNING id, user_id, name, description, category, reminder_time, completed, created_at, updated_at, completed_at;`)
	t.Run("successfully created", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(uid, task.Name, task.Description, task.Category, task.ReminderTime).
			WillReturnRows(taskRow(task))
		created, err := repo.Create(ctx, &entity.Task{
			UserID:       uid,
			Name:         task.Name,
			Description:  task.Description,
			Category:     task.Category,
			ReminderTime: task.ReminderTime,
		})
		assert.NoError(t, err)
		assert.Equal(t, task.ID, created.ID)
		assert.False(t, created.Completed)
		assert.Nil(t, created.CompletedAt)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(uid, task.Name, task.Description, task.Category, task.ReminderTime).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, task)
		assert.Error(t, err)
	})
}

func TestGetTaskByID(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewTasksRepoWithConn(conn)
	uid := uuid.New()
	task := newTestTask(uid)
	query := regexp.QuoteMeta(`SELECT id, user_id, name, description, category, reminder_time, completed, created_at, updated_at, completed_at FROM tasks WHERE id = $1 AND user_id = $2;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(task.ID, uid).
			WillReturnRows(taskRow(task))
		result, err := repo.GetByID(ctx, task.ID, uid)
		assert.NoError(t, err)
		assert.Equal(t, *task, *result)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(task.ID, uid).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, task.ID, uid)
		assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(task.ID, uid).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByID(ctx, task.ID, uid)
		assert.Error(t, err)
	})
}

func TestUpdateTask(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewTasksRepoWithConn(conn)
	uid := uuid.New()
	task := newTestTask(uid)
	completedAt := time.Now()
	task.Completed = true
	task.CompletedAt = &completedAt
	query := regexp.QuoteMeta(`UPDATE tasks SET name = $1, description = $2, category = $3, reminder_time = $4, completed = $5, completed_at = $6, updated_at = NOW() WHERE id = $7 AND user_id = $8 RETURNING id, user_id, name, description, category, reminder_time, completed, created_at, updated_at, completed_at;`)
	t.Run("updated", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(task.Name, task.Description, task.Category, task.ReminderTime, true, &completedAt, task.ID, uid).
			WillReturnRows(taskRow(task))
		updated, err := repo.Update(ctx, task)
		assert.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.NotNil(t, updated.CompletedAt)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(task.Name, task.Description, task.Category, task.ReminderTime, true, &completedAt, task.ID, uid).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.Update(ctx, task)
		assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(task.Name, task.Description, task.Category, task.ReminderTime, true, &completedAt, task.ID, uid).
			WillReturnError(errors.New("db error"))
		_, err := repo.Update(ctx, task)
		assert.Error(t, err)
	})
}

func TestDeleteTask(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewTasksRepoWithConn(conn)
	uid := uuid.New()
	id := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1 AND user_id = $2;`)
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(id, uid).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		deleted, err := repo.Delete(ctx, id, uid)
		assert.NoError(t, err)
		assert.True(t, deleted)
	})
	t.Run("not found reported as false", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(id, uid).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		deleted, err := repo.Delete(ctx, id, uid)
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(id, uid).
			WillReturnError(errors.New("db error"))
		_, err := repo.Delete(ctx, id, uid)
		assert.Error(t, err)
	})
}

func TestListTasks(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewTasksRepoWithConn(conn)
	uid := uuid.New()
	task := newTestTask(uid)
	allQuery := regexp.QuoteMeta(`SELECT id, user_id, name, description, category, reminder_time, completed, created_at, updated_at, completed_at FROM tasks WHERE user_id = $1 ORDER BY created_at DESC;`)
	dateQuery := regexp.QuoteMeta(`SELECT id, user_id, name, description, category, reminder_time, completed, created_at, updated_at, completed_at FROM tasks WHERE user_id = $1 AND created_at::date = $2::date ORDER BY created_at DESC;`)
	t.Run("all tasks", func(t *testing.T) {
		conn.ExpectQuery(allQuery).
			WithArgs(uid).
			WillReturnRows(taskRow(task))
		tasks, err := repo.List(ctx, uid, "")
		assert.NoError(t, err)
		assert.Len(t, tasks, 1)
		assert.Equal(t, *task, *tasks[0])
	})
	t.Run("filtered by date", func(t *testing.T) {
		conn.ExpectQuery(dateQuery).
			WithArgs(uid, "2026-08-30").
			WillReturnRows(taskRow(task))
		tasks, err := repo.List(ctx, uid, "2026-08-30")
		assert.NoError(t, err)
		assert.Len(t, tasks, 1)
	})
	t.Run("empty result", func(t *testing.T) {
		conn.ExpectQuery(allQuery).
			WithArgs(uid).
			WillReturnRows(pgxmock.NewRows(taskColumns))
		tasks, err := repo.List(ctx, uid, "")
		assert.NoError(t, err)
		assert.Empty(t, tasks)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(allQuery).
			WithArgs(uid).
			WillReturnError(errors.New("db error"))
		_, err := repo.List(ctx, uid, "")
		assert.Error(t, err)
	})
}

func TestListTasksByDateRange(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewTasksRepoWithConn(conn)
	uid := uuid.New()
	task := newTestTask(uid)
	query := regexp.QuoteMeta(`SELECT id, user_id, name, description, category, reminder_time, completed, created_at, updated_at, completed_at FROM tasks WHERE user_id = $1 AND created_at::date >= $2::date AND created_at::date <= $3::date ORDER BY created_at DESC;`)
	t.Run("tasks in range", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(uid, "2026-08-24", "2026-08-31").
			WillReturnRows(taskRow(task))
		tasks, err := repo.ListByDateRange(ctx, uid, "2026-08-24", "2026-08-31")
		assert.NoError(t, err)
		assert.Len(t, tasks, 1)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(uid, "2026-08-24", "2026-08-31").
			WillReturnError(errors.New("db error"))
		_, err := repo.ListByDateRange(ctx, uid, "2026-08-24", "2026-08-31")
		assert.Error(t, err)
	})
}

func TestCompletionByDateRange(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewTasksRepoWithConn(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`SELECT created_at::date AS day, COUNT(*) AS total, COUNT(*) FILTER (WHERE completed) AS done FROM tasks WHERE user_id = $1 AND created_at::date >= $2::date AND created_at::date <= $3::date GROUP BY day ORDER BY day;`)
	t.Run("buckets provided", func(t *testing.T) {
		day1 := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
		day2 := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		conn.ExpectQuery(query).
			WithArgs(uid, "2026-08-24", "2026-08-31").
			WillReturnRows(pgxmock.NewRows([]string{"day", "total", "done"}).
				AddRow(day1, 4, 1).
				AddRow(day2, 2, 2))
		buckets, err := repo.CompletionByDateRange(ctx, uid, "2026-08-24", "2026-08-31")
		assert.NoError(t, err)
		assert.Equal(t, []entity.CompletionBucket{
			{Date: "2026-08-29", Total: 4, Completed: 1},
			{Date: "2026-08-30", Total: 2, Completed: 2},
		}, buckets)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(uid, "2026-08-24", "2026-08-31").
			WillReturnError(errors.New("db error"))
		_, err := repo.CompletionByDateRange(ctx, uid, "2026-08-24", "2026-08-31")
		assert.Error(t, err)
	})
}
