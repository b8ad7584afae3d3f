package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ddlog/ddlog/pkg/entity"
)

type CreateTaskRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ReminderTime string `json:"reminderTime"`
}

// UpdateTaskRequest carries a partial update. Nil fields are left untouched.
type UpdateTaskRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	ReminderTime *string `json:"reminderTime"`
	Completed    *bool   `json:"completed"`
}

type AuthServiceI interface {
	// Validates the PIN, refuses when a credential already exists, stores its hash
	Setup(ctx context.Context, pin string) (*entity.User, error)
	// Runs the PIN check behind the lockout policy. On success resets the
	// failed-attempt counter and gives back the credential
	Login(ctx context.Context, pin string) (*entity.User, error)
	// Reports whether the credential row exists
	HasUser(ctx context.Context) (bool, error)
	// Gives back the single stored credential. Used by the auth middleware
	CurrentUser(ctx context.Context) (*entity.User, error)
}

type TasksServiceI interface {
	Create(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error)
	Get(ctx context.Context, id, uid uuid.UUID) (*entity.Task, error)
	Update(ctx context.Context, id, uid uuid.UUID, req *UpdateTaskRequest) (*entity.Task, error)
	// Reports whether a task was actually removed
	Delete(ctx context.Context, id, uid uuid.UUID) (bool, error)
	// Empty date means all tasks, otherwise only those created on that day
	List(ctx context.Context, uid uuid.UUID, date string) ([]*entity.Task, error)
	ListToday(ctx context.Context, uid uuid.UUID) ([]*entity.Task, error)
	ListByDateRange(ctx context.Context, uid uuid.UUID, from, to string) ([]*entity.Task, error)
}

type StatsServiceI interface {
	// Buckets per-day completion percentages into heatmap levels. Empty
	// bounds default to the last 365 days ending today
	Heatmap(ctx context.Context, uid uuid.UUID, startDate, endDate string) ([]entity.HeatmapDay, error)
}

type ExporterI interface {
	CSV(tasks []*entity.Task) ([]byte, error)
	PDF(tasks []*entity.Task, startDate, endDate string) ([]byte, error)
}
