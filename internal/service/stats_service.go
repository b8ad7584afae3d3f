package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ddlog/ddlog/internal/repository"
	"github.com/ddlog/ddlog/pkg/entity"
)

type StatsService struct {
	repo repository.TasksRepositoryI
	now  func() time.Time
}

func NewStatsService(tasksRepo repository.TasksRepositoryI) *StatsService {
	return NewStatsServiceWithClock(tasksRepo, time.Now)
}

func NewStatsServiceWithClock(tasksRepo repository.TasksRepositoryI, clock func() time.Time) *StatsService {
	if tasksRepo == nil {
		log.Fatal("provided nil tasksRepo")
	}
	return &StatsService{
		repo: tasksRepo,
		now:  clock,
	}
}

// heatmapLevel buckets a completion percentage into the 0-4 scale. The 25,
// 50 and 75 boundaries belong to the lower bucket.
func heatmapLevel(percentage float64) int {
	switch {
	case percentage == 0:
		return 0
	case percentage <= 25:
		return 1
	case percentage <= 50:
		return 2
	case percentage <= 75:
		return 3
	default:
		return 4
	}
}

func (ss *StatsService) Heatmap(ctx context.Context, uid uuid.UUID, startDate, endDate string) ([]entity.HeatmapDay, error) {
	if endDate == "" {
		endDate = ss.now().Format("2006-01-02")
	} else if err := validateDate(endDate); err != nil {
		return nil, err
	}
	if startDate == "" {
		end, _ := time.Parse("2006-01-02", endDate)
		startDate = end.AddDate(0, 0, -365).Format("2006-01-02")
	} else if err := validateDate(startDate); err != nil {
		return nil, err
	}
	buckets, err := ss.repo.CompletionByDateRange(ctx, uid, startDate, endDate)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	days := make([]entity.HeatmapDay, 0, len(buckets))
	for _, b := range buckets {
		percentage := 0.0
		if b.Total > 0 {
			percentage = float64(b.Completed) / float64(b.Total) * 100
		}
		days = append(days, entity.HeatmapDay{
			Date:  b.Date,
			Count: int(math.Round(percentage)),
			Level: heatmapLevel(percentage),
		})
	}
	return days, nil
}
