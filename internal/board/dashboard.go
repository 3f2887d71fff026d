package board

import (
	"time"

	"github.com/quadro-dev/quadro/internal/models"
)

type DashboardSummary struct {
	TotalTasks     int64            `json:"total_tasks"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByPriority     map[string]int64 `json:"by_priority"`
	Overdue        int64            `json:"overdue"`
	CompletionRate float64          `json:"completion_rate"`
}

// Dashboard aggregates the board for the home panel: counts per column and
// priority, overdue tasks and the share of tasks already in DONE.
func (s *Service) Dashboard() (*DashboardSummary, error) {
	summary := &DashboardSummary{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var statusBuckets []bucket

	err := s.db.Model(&models.Task{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&statusBuckets).Error

	if err != nil {
		return nil, err
	}

	for _, b := range statusBuckets {
		summary.ByStatus[b.Key] = b.Count
		summary.TotalTasks += b.Count
	}

	var priorityBuckets []bucket

	err = s.db.Model(&models.Task{}).
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&priorityBuckets).Error

	if err != nil {
		return nil, err
	}

	for _, b := range priorityBuckets {
		summary.ByPriority[b.Key] = b.Count
	}

	err = s.db.Model(&models.Task{}).
		Where("due_date < ? AND status <> ?", time.Now(), models.StatusDone).
		Count(&summary.Overdue).Error

	if err != nil {
		return nil, err
	}

	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.ByStatus[models.StatusDone]) / float64(summary.TotalTasks)
	}

	return summary, nil
}
