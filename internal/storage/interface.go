package storage

import (
	"context"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
)

type DailyLogRepository interface {
	// CreateLog returns internal.ErrLogExists if the user already has a log
	// for log.Date.
	CreateLog(ctx context.Context, log *internal.DailyLog) error
	UpdateLog(ctx context.Context, log *internal.DailyLog) error
	GetLog(ctx context.Context, userID string, date time.Time) (*internal.DailyLog, error)
	// ListLogs returns the user's logs ordered by date ascending.
	ListLogs(ctx context.Context, userID string) ([]internal.DailyLog, error)
	// ListLogsInRange returns logs with from <= date < to.
	ListLogsInRange(ctx context.Context, userID string, from, to time.Time) ([]internal.DailyLog, error)
	DeleteLog(ctx context.Context, userID string, date time.Time) error
}

type GoalRepository interface {
	CreateGoal(ctx context.Context, goal *internal.Goal) error
	GetGoal(ctx context.Context, goalID string) (*internal.Goal, error)
	ListGoals(ctx context.Context, userID string, activeOnly bool) ([]internal.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	// MarkGoalCompleted applies the active -> completed transition. It
	// reports false, without touching the row, when the goal was already
	// completed or no longer exists.
	MarkGoalCompleted(ctx context.Context, goalID string, completedAt time.Time) (bool, error)
}

// Repositories bundles the backend chosen at startup.
type Repositories struct {
	Logs  DailyLogRepository
	Goals GoalRepository
	close func() error
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}
