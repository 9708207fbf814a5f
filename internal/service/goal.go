package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/storage"
	"github.com/google/uuid"
)

type GoalRequest struct {
	Type        string  `json:"type" validate:"required,oneof=exercise sleep water mood meals stress screen_time"`
	TargetValue float64 `json:"target_value" validate:"gt=0"`
	Period      string  `json:"period" validate:"required,oneof=daily weekly monthly"`
}

// GoalEvaluation is the progress of a goal over its current window.
type GoalEvaluation struct {
	Progress    float64
	Percentage  int
	Completed   bool
	CompletedAt *time.Time
	// NewlyCompleted is set when this evaluation detected the completion and
	// the caller must persist it.
	NewlyCompleted bool
}

type GoalView struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	TargetValue float64   `json:"target_value"`
	Period      string    `json:"period"`
	StartAt     time.Time `json:"start_at"`
	Progress    float64   `json:"progress"`
	Percentage  int       `json:"percentage"`
	Completed   bool      `json:"completed"`
	CompletedAt *string   `json:"completed_at,omitempty"`
}

func NewGoalView(g internal.Goal, ev GoalEvaluation) GoalView {
	v := GoalView{
		ID:          g.ID,
		Type:        string(g.Type),
		TargetValue: g.TargetValue,
		Period:      string(g.Period),
		StartAt:     g.StartAt,
		Progress:    ev.Progress,
		Percentage:  ev.Percentage,
		Completed:   ev.Completed,
	}
	if ev.CompletedAt != nil {
		s := ev.CompletedAt.Format(internal.DateLayout)
		v.CompletedAt = &s
	}
	return v
}

func ValidateGoalRequest(req *GoalRequest) error {
	if err := validate.Struct(req); err != nil {
		return internal.ParseValidationErrors(err)
	}
	return nil
}

func CreateGoal(ctx context.Context, goalRepo storage.GoalRepository, user *internal.User, req *GoalRequest, now time.Time) (*internal.Goal, error) {
	goal := &internal.Goal{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Type:        internal.Metric(req.Type),
		TargetValue: req.TargetValue,
		Period:      internal.Period(req.Period),
		StartAt:     now,
		CreatedAt:   now,
	}
	if err := goalRepo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// GoalWindow returns the half-open date window [from, to) of the goal's
// current period. Both bounds are truncated to calendar dates.
func GoalWindow(goal internal.Goal) (from, to time.Time) {
	end := goal.StartAt.AddDate(0, 0, goal.Period.Days())
	return internal.DateOf(goal.StartAt), internal.DateOf(end)
}

// EvaluateGoal sums the goal's metric over the logs inside its window.
// Logs outside the window or owned by another user are ignored. An already
// completed goal keeps its CompletedAt; only progress is recomputed.
func EvaluateGoal(goal internal.Goal, logs []internal.DailyLog, today time.Time) GoalEvaluation {
	from, to := GoalWindow(goal)

	progress := 0.0
	for _, l := range logs {
		if l.UserID != goal.UserID || l.Date.Before(from) || !l.Date.Before(to) {
			continue
		}
		progress += goal.Type.Value(l)
	}

	ev := GoalEvaluation{
		Progress:    progress,
		Percentage:  percentage(progress, goal.TargetValue),
		Completed:   goal.Completed,
		CompletedAt: goal.CompletedAt,
	}
	if !goal.Completed && progress >= goal.TargetValue {
		completedAt := internal.DateOf(today)
		ev.Completed = true
		ev.CompletedAt = &completedAt
		ev.NewlyCompleted = true
	}
	return ev
}

// percentage is floor(progress/target*100) capped to [0, 100]. target must
// be positive.
func percentage(progress, target float64) int {
	p := math.Floor(progress / target * 100)
	switch {
	case p > 100:
		return 100
	case p < 0:
		return 0
	default:
		return int(p)
	}
}

// ListActiveGoals evaluates every active goal of the user and persists the
// completions it detects before returning.
func ListActiveGoals(ctx context.Context, logRepo storage.DailyLogRepository, goalRepo storage.GoalRepository, user *internal.User, now time.Time) ([]GoalView, error) {
	goals, err := goalRepo.ListGoals(ctx, user.ID, true)
	if err != nil {
		return nil, err
	}

	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		from, to := GoalWindow(g)
		logs, err := logRepo.ListLogsInRange(ctx, g.UserID, from, to)
		if err != nil {
			return nil, err
		}

		ev := EvaluateGoal(g, logs, now)
		if ev.NewlyCompleted {
			marked, err := goalRepo.MarkGoalCompleted(ctx, g.ID, *ev.CompletedAt)
			if err != nil {
				return nil, err
			}
			if !marked {
				// Another request completed it first; report the stored date.
				stored, err := goalRepo.GetGoal(ctx, g.ID)
				if err != nil && !errors.Is(err, internal.ErrGoalNotFound) {
					return nil, err
				}
				if stored != nil && stored.CompletedAt != nil {
					ev.CompletedAt = stored.CompletedAt
				}
			}
		}
		views = append(views, NewGoalView(g, ev))
	}
	return views, nil
}
