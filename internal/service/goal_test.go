package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/service"
	"github.com/NaveedSindha/health-wellness-tracker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := internal.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newGoal(typ internal.Metric, period internal.Period, target float64, start time.Time) internal.Goal {
	return internal.Goal{ID: "g1", UserID: "u1", Type: typ, Period: period, TargetValue: target, StartAt: start}
}

func TestEvaluateGoal_DailyExerciseCompletes(t *testing.T) {
	goal := newGoal(internal.MetricExercise, internal.PeriodDaily, 30, date("2024-01-01"))
	logs := []internal.DailyLog{{UserID: "u1", Date: date("2024-01-01"), ExerciseMinutes: 40}}
	today := time.Date(2024, 1, 2, 17, 45, 0, 0, time.UTC)

	ev := service.EvaluateGoal(goal, logs, today)
	assert.Equal(t, 40.0, ev.Progress)
	assert.Equal(t, 100, ev.Percentage)
	assert.True(t, ev.Completed)
	assert.True(t, ev.NewlyCompleted)
	require.NotNil(t, ev.CompletedAt)
	assert.Equal(t, date("2024-01-02"), *ev.CompletedAt)
}

func TestEvaluateGoal_WeeklyWaterPartial(t *testing.T) {
	goal := newGoal(internal.MetricWater, internal.PeriodWeekly, 50, date("2024-03-04"))
	logs := []internal.DailyLog{
		{UserID: "u1", Date: date("2024-03-04"), WaterCups: 8},
		{UserID: "u1", Date: date("2024-03-06"), WaterCups: 5},
		{UserID: "u1", Date: date("2024-03-10"), WaterCups: 7},
	}

	ev := service.EvaluateGoal(goal, logs, date("2024-03-10"))
	assert.Equal(t, 20.0, ev.Progress)
	assert.Equal(t, 40, ev.Percentage)
	assert.False(t, ev.Completed)
	assert.False(t, ev.NewlyCompleted)
	assert.Nil(t, ev.CompletedAt)
}

func TestEvaluateGoal_WindowBounds(t *testing.T) {
	logs := []internal.DailyLog{
		{UserID: "u1", Date: date("2023-12-31"), SleepHours: 100},
		{UserID: "u1", Date: date("2024-01-01"), SleepHours: 1},
		{UserID: "u1", Date: date("2024-01-07"), SleepHours: 2},
		{UserID: "u1", Date: date("2024-01-08"), SleepHours: 4},
		{UserID: "u1", Date: date("2024-01-30"), SleepHours: 8},
		{UserID: "u1", Date: date("2024-01-31"), SleepHours: 16},
	}
	// The start timestamp is truncated to its date.
	start := time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC)

	cases := []struct {
		period internal.Period
		want   float64
	}{
		{internal.PeriodDaily, 1},
		{internal.PeriodWeekly, 3},
		{internal.PeriodMonthly, 15},
		{internal.Period("fortnightly"), 1},
	}
	for _, tc := range cases {
		goal := newGoal(internal.MetricSleep, tc.period, 1000, start)
		ev := service.EvaluateGoal(goal, logs, date("2024-02-01"))
		assert.Equal(t, tc.want, ev.Progress, "period=%s", tc.period)
	}
}

func TestGoalWindow(t *testing.T) {
	goal := newGoal(internal.MetricWater, internal.PeriodWeekly, 10, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	from, to := service.GoalWindow(goal)
	assert.Equal(t, date("2024-01-01"), from)
	assert.Equal(t, date("2024-01-08"), to)
}

func TestEvaluateGoal_StartInOtherTimezone(t *testing.T) {
	// Stores may hand back timestamps in the server's local zone.
	start := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC).In(time.FixedZone("UTC+2", 2*60*60))
	goal := newGoal(internal.MetricExercise, internal.PeriodDaily, 30, start)
	logs := []internal.DailyLog{{UserID: "u1", Date: date("2024-01-01"), ExerciseMinutes: 40}}

	from, to := service.GoalWindow(goal)
	assert.Equal(t, date("2024-01-01"), from)
	assert.Equal(t, date("2024-01-02"), to)

	ev := service.EvaluateGoal(goal, logs, date("2024-01-02"))
	assert.Equal(t, 40.0, ev.Progress)
	assert.True(t, ev.Completed)
}

func TestEvaluateGoal_UnknownTypeHasNoProgress(t *testing.T) {
	goal := newGoal(internal.Metric("steps"), internal.PeriodDaily, 10, date("2024-01-01"))
	logs := []internal.DailyLog{{UserID: "u1", Date: date("2024-01-01"), ExerciseMinutes: 50, WaterCups: 12}}

	ev := service.EvaluateGoal(goal, logs, date("2024-01-01"))
	assert.Equal(t, 0.0, ev.Progress)
	assert.Equal(t, 0, ev.Percentage)
	assert.False(t, ev.Completed)
}

func TestEvaluateGoal_IgnoresOtherUsers(t *testing.T) {
	goal := newGoal(internal.MetricMeals, internal.PeriodDaily, 3, date("2024-01-01"))
	logs := []internal.DailyLog{
		{UserID: "u2", Date: date("2024-01-01"), Meals: 3},
		{UserID: "u1", Date: date("2024-01-01"), Meals: 1},
	}

	ev := service.EvaluateGoal(goal, logs, date("2024-01-01"))
	assert.Equal(t, 1.0, ev.Progress)
	assert.Equal(t, 33, ev.Percentage)
}

func TestEvaluateGoal_AlreadyCompletedKeepsDate(t *testing.T) {
	completedAt := date("2024-01-01")
	goal := newGoal(internal.MetricExercise, internal.PeriodDaily, 30, date("2024-01-01"))
	goal.Completed = true
	goal.CompletedAt = &completedAt
	logs := []internal.DailyLog{{UserID: "u1", Date: date("2024-01-01"), ExerciseMinutes: 45}}

	ev := service.EvaluateGoal(goal, logs, date("2024-01-05"))
	assert.True(t, ev.Completed)
	assert.False(t, ev.NewlyCompleted)
	assert.Equal(t, completedAt, *ev.CompletedAt)
	assert.Equal(t, 45.0, ev.Progress)
}

func TestEvaluateGoal_ExactTargetCompletes(t *testing.T) {
	goal := newGoal(internal.MetricScreenTime, internal.PeriodDaily, 2.5, date("2024-01-01"))
	logs := []internal.DailyLog{{UserID: "u1", Date: date("2024-01-01"), ScreenTimeHours: 2.5}}

	ev := service.EvaluateGoal(goal, logs, date("2024-01-01"))
	assert.Equal(t, 100, ev.Percentage)
	assert.True(t, ev.Completed)
}

func TestValidateGoalRequest(t *testing.T) {
	assert.NoError(t, service.ValidateGoalRequest(&service.GoalRequest{Type: "water", TargetValue: 8, Period: "daily"}))

	err := service.ValidateGoalRequest(&service.GoalRequest{Type: "steps", TargetValue: 8, Period: "daily"})
	assert.ErrorIs(t, err, internal.ErrValidation)

	err = service.ValidateGoalRequest(&service.GoalRequest{Type: "water", TargetValue: 0, Period: "daily"})
	assert.ErrorIs(t, err, internal.ErrValidation)

	err = service.ValidateGoalRequest(&service.GoalRequest{Type: "water", TargetValue: 8, Period: "yearly"})
	assert.ErrorIs(t, err, internal.ErrValidation)
}

func newFileRepos(t *testing.T) *storage.Repositories {
	t.Helper()
	dir := t.TempDir()
	repos, err := storage.NewFileRepositories(
		filepath.Join(dir, "logs.json"),
		filepath.Join(dir, "goals.json"),
		internal.NewNopLogger(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestListActiveGoals_PersistsCompletion(t *testing.T) {
	ctx := context.Background()
	repos := newFileRepos(t)
	user := &internal.User{ID: "u1"}
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	exercise := 40
	_, err := service.CreateLog(ctx, repos.Logs, user, &service.DailyLogRequest{
		Date:      "2024-01-01",
		LogFields: service.LogFields{ExerciseMinutes: &exercise},
	}, start)
	require.NoError(t, err)

	done, err := service.CreateGoal(ctx, repos.Goals, user, &service.GoalRequest{Type: "exercise", TargetValue: 30, Period: "daily"}, start)
	require.NoError(t, err)
	pending, err := service.CreateGoal(ctx, repos.Goals, user, &service.GoalRequest{Type: "water", TargetValue: 8, Period: "weekly"}, start.Add(time.Minute))
	require.NoError(t, err)

	views, err := service.ListActiveGoals(ctx, repos.Logs, repos.Goals, user, date("2024-01-03"))
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, done.ID, views[0].ID)
	assert.True(t, views[0].Completed)
	assert.Equal(t, 100, views[0].Percentage)
	require.NotNil(t, views[0].CompletedAt)
	assert.Equal(t, "2024-01-03", *views[0].CompletedAt)

	assert.Equal(t, pending.ID, views[1].ID)
	assert.False(t, views[1].Completed)
	assert.Nil(t, views[1].CompletedAt)

	active, err := repos.Goals.ListGoals(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, pending.ID, active[0].ID)

	all, err := repos.Goals.ListGoals(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Completed)
	assert.Equal(t, date("2024-01-03"), *all[0].CompletedAt)

	views, err = service.ListActiveGoals(ctx, repos.Logs, repos.Goals, user, date("2024-01-04"))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, pending.ID, views[0].ID)
}

// staleGoals lists goals as they were before another request completed them.
type staleGoals struct {
	storage.GoalRepository
}

func (s staleGoals) ListGoals(ctx context.Context, userID string, _ bool) ([]internal.Goal, error) {
	goals, err := s.GoalRepository.ListGoals(ctx, userID, false)
	for i := range goals {
		goals[i].Completed = false
		goals[i].CompletedAt = nil
	}
	return goals, err
}

func TestListActiveGoals_LostCompletionReportsStoredDate(t *testing.T) {
	ctx := context.Background()
	repos := newFileRepos(t)
	user := &internal.User{ID: "u1"}
	start := date("2024-01-01")

	exercise := 45
	_, err := service.CreateLog(ctx, repos.Logs, user, &service.DailyLogRequest{
		Date:      "2024-01-01",
		LogFields: service.LogFields{ExerciseMinutes: &exercise},
	}, start)
	require.NoError(t, err)
	goal, err := service.CreateGoal(ctx, repos.Goals, user, &service.GoalRequest{Type: "exercise", TargetValue: 30, Period: "daily"}, start)
	require.NoError(t, err)

	marked, err := repos.Goals.MarkGoalCompleted(ctx, goal.ID, date("2024-01-02"))
	require.NoError(t, err)
	require.True(t, marked)

	views, err := service.ListActiveGoals(ctx, repos.Logs, staleGoals{repos.Goals}, user, date("2024-01-05"))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Completed)
	require.NotNil(t, views[0].CompletedAt)
	assert.Equal(t, "2024-01-02", *views[0].CompletedAt)

	stored, err := repos.Goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, date("2024-01-02"), *stored.CompletedAt)
}

func TestListActiveGoals_OnlyOwnGoals(t *testing.T) {
	ctx := context.Background()
	repos := newFileRepos(t)
	now := date("2024-01-01")

	_, err := service.CreateGoal(ctx, repos.Goals, &internal.User{ID: "u2"}, &service.GoalRequest{Type: "sleep", TargetValue: 8, Period: "daily"}, now)
	require.NoError(t, err)

	views, err := service.ListActiveGoals(ctx, repos.Logs, repos.Goals, &internal.User{ID: "u1"}, now)
	require.NoError(t, err)
	assert.Empty(t, views)
}
