package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/internal/repository"
	"github.com/ddlog/ddlog/pkg/entity"
)

type TasksService struct {
	repo repository.TasksRepositoryI
	now  func() time.Time
}

func NewTasksService(tasksRepo repository.TasksRepositoryI) *TasksService {
	return NewTasksServiceWithClock(tasksRepo, time.Now)
}

func NewTasksServiceWithClock(tasksRepo repository.TasksRepositoryI, clock func() time.Time) *TasksService {
	if tasksRepo == nil {
		log.Fatal("provided nil tasksRepo")
	}
	return &TasksService{
		repo: tasksRepo,
		now:  clock,
	}
}

func validateName(name string) error {
	if err := validate.Var(name, "required,min=1,max=100"); err != nil {
		return fmt.Errorf("%w: task name is required and must be 100 characters or less", errorvalues.ErrValidation)
	}
	return nil
}

func validateDescription(desc string) error {
	if err := validate.Var(desc, "max=500"); err != nil {
		return fmt.Errorf("%w: description must be 500 characters or less", errorvalues.ErrValidation)
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", errorvalues.ErrValidation)
	}
	return nil
}

func (ts *TasksService) Create(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	task, err := ts.repo.Create(ctx, &entity.Task{
		UserID:       uid,
		Name:         name,
		Description:  description,
		Category:     strings.TrimSpace(req.Category),
		ReminderTime: strings.TrimSpace(req.ReminderTime),
	})
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

func (ts *TasksService) Get(ctx context.Context, id, uid uuid.UUID) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

// Update applies a partial update on top of the stored row. Toggling
// completed to true stamps completedAt, toggling to false clears it.
func (ts *TasksService) Update(ctx context.Context, id, uid uuid.UUID, req *UpdateTaskRequest) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		task.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		task.Description = description
	}
	if req.Category != nil {
		task.Category = strings.TrimSpace(*req.Category)
	}
	if req.ReminderTime != nil {
		task.ReminderTime = strings.TrimSpace(*req.ReminderTime)
	}
	if req.Completed != nil && *req.Completed != task.Completed {
		task.Completed = *req.Completed
		if task.Completed {
			completedAt := ts.now()
			task.CompletedAt = &completedAt
		} else {
			task.CompletedAt = nil
		}
	}
	updated, err := ts.repo.Update(ctx, task)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return updated, nil
}

func (ts *TasksService) Delete(ctx context.Context, id, uid uuid.UUID) (bool, error) {
	deleted, err := ts.repo.Delete(ctx, id, uid)
	if err != nil {
		return false, errors.New("tasks repository error: " + err.Error())
	}
	return deleted, nil
}

func (ts *TasksService) List(ctx context.Context, uid uuid.UUID, date string) ([]*entity.Task, error) {
	if date != "" {
		if err := validateDate(date); err != nil {
			return nil, err
		}
	}
	tasks, err := ts.repo.List(ctx, uid, date)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return tasks, nil
}

func (ts *TasksService) ListToday(ctx context.Context, uid uuid.UUID) ([]*entity.Task, error) {
	return ts.List(ctx, uid, ts.now().Format("2006-01-02"))
}

func (ts *TasksService) ListByDateRange(ctx context.Context, uid uuid.UUID, from, to string) ([]*entity.Task, error) {
	if err := validateDate(from); err != nil {
		return nil, err
	}
	if err := validateDate(to); err != nil {
		return nil, err
	}
	tasks, err := ts.repo.ListByDateRange(ctx, uid, from, to)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return tasks, nil
}
