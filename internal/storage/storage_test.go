package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := internal.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

type repos interface {
	DailyLogRepository
	GoalRepository
}

func newTestFileStorage(t *testing.T, dir string) *FileStorage {
	t.Helper()
	s, err := NewFileStorage(filepath.Join(dir, "logs.json"), filepath.Join(dir, "goals.json"), internal.NewNopLogger())
	require.NoError(t, err)
	return s
}

func newTestSQLiteStorage(t *testing.T) *SQLStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "health.db"), internal.NewNopLogger())
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED") {
		t.Skip("sqlite driver requires cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends(t *testing.T) map[string]repos {
	fs := newTestFileStorage(t, t.TempDir())
	t.Cleanup(func() { _ = fs.Close() })
	return map[string]repos{
		"file":   fs,
		"sqlite": newTestSQLiteStorage(t),
	}
}

func TestDailyLogRepository(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			log := &internal.DailyLog{
				UserID: "u1", Date: day("2024-02-10"),
				ExerciseMinutes: 20, SleepHours: 7.5, WaterCups: 6,
				Mood: 4, Meals: 0, Stress: 2, ScreenTimeHours: 3.25,
				CreatedAt: time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC),
			}
			require.NoError(t, s.CreateLog(ctx, log))
			assert.ErrorIs(t, s.CreateLog(ctx, log), internal.ErrLogExists)

			got, err := s.GetLog(ctx, "u1", day("2024-02-10"))
			require.NoError(t, err)
			assert.Equal(t, day("2024-02-10"), got.Date)
			assert.Equal(t, 0, got.Meals)
			assert.Equal(t, 4, got.Mood)
			assert.Equal(t, 3.25, got.ScreenTimeHours)

			got.Mood = 1
			require.NoError(t, s.UpdateLog(ctx, got))
			got, err = s.GetLog(ctx, "u1", day("2024-02-10"))
			require.NoError(t, err)
			assert.Equal(t, 1, got.Mood)

			missing := &internal.DailyLog{UserID: "u1", Date: day("2024-02-11")}
			assert.ErrorIs(t, s.UpdateLog(ctx, missing), internal.ErrLogNotFound)
			_, err = s.GetLog(ctx, "u2", day("2024-02-10"))
			assert.ErrorIs(t, err, internal.ErrLogNotFound)

			require.NoError(t, s.DeleteLog(ctx, "u1", day("2024-02-10")))
			assert.ErrorIs(t, s.DeleteLog(ctx, "u1", day("2024-02-10")), internal.ErrLogNotFound)
		})
	}
}

func TestListLogsInRange(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, d := range []string{"2024-01-09", "2024-01-01", "2024-01-07", "2024-01-08", "2023-12-31"} {
				require.NoError(t, s.CreateLog(ctx, &internal.DailyLog{UserID: "u1", Date: day(d), WaterCups: 1}))
			}
			require.NoError(t, s.CreateLog(ctx, &internal.DailyLog{UserID: "u2", Date: day("2024-01-02")}))

			logs, err := s.ListLogsInRange(ctx, "u1", day("2024-01-01"), day("2024-01-08"))
			require.NoError(t, err)
			require.Len(t, logs, 2)
			assert.Equal(t, day("2024-01-01"), logs[0].Date)
			assert.Equal(t, day("2024-01-07"), logs[1].Date)

			all, err := s.ListLogs(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, all, 5)
			for i := 1; i < len(all); i++ {
				assert.True(t, all[i-1].Date.Before(all[i].Date))
			}

			none, err := s.ListLogs(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestGoalRepository(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
			g1 := &internal.Goal{ID: "g1", UserID: "u1", Type: internal.MetricWater, TargetValue: 8, Period: internal.PeriodDaily, StartAt: start, CreatedAt: start}
			g2 := &internal.Goal{ID: "g2", UserID: "u1", Type: internal.MetricSleep, TargetValue: 50, Period: internal.PeriodWeekly, StartAt: start, CreatedAt: start.Add(time.Second)}
			g3 := &internal.Goal{ID: "g3", UserID: "u2", Type: internal.MetricMood, TargetValue: 5, Period: internal.PeriodDaily, StartAt: start, CreatedAt: start}
			for _, g := range []*internal.Goal{g1, g2, g3} {
				require.NoError(t, s.CreateGoal(ctx, g))
			}

			goals, err := s.ListGoals(ctx, "u1", true)
			require.NoError(t, err)
			require.Len(t, goals, 2)
			assert.Equal(t, "g1", goals[0].ID)
			assert.Equal(t, internal.PeriodWeekly, goals[1].Period)

			completedAt := day("2024-01-01")
			ok, err := s.MarkGoalCompleted(ctx, "g1", completedAt)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = s.MarkGoalCompleted(ctx, "g1", day("2024-01-05"))
			require.NoError(t, err)
			assert.False(t, ok, "completion happens once")

			ok, err = s.MarkGoalCompleted(ctx, "missing", completedAt)
			require.NoError(t, err)
			assert.False(t, ok)

			got, err := s.GetGoal(ctx, "g1")
			require.NoError(t, err)
			assert.Equal(t, internal.MetricWater, got.Type)
			assert.True(t, got.Completed)
			require.NotNil(t, got.CompletedAt)
			assert.True(t, completedAt.Equal(*got.CompletedAt))
			_, err = s.GetGoal(ctx, "missing")
			assert.ErrorIs(t, err, internal.ErrGoalNotFound)

			active, err := s.ListGoals(ctx, "u1", true)
			require.NoError(t, err)
			require.Len(t, active, 1)
			assert.Equal(t, "g2", active[0].ID)

			all, err := s.ListGoals(ctx, "u1", false)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.True(t, all[0].Completed)
			require.NotNil(t, all[0].CompletedAt)
			assert.True(t, completedAt.Equal(*all[0].CompletedAt))

			assert.ErrorIs(t, s.DeleteGoal(ctx, "u1", "g3"), internal.ErrGoalNotFound)
			require.NoError(t, s.DeleteGoal(ctx, "u2", "g3"))
			assert.ErrorIs(t, s.DeleteGoal(ctx, "u2", "g3"), internal.ErrGoalNotFound)
		})
	}
}

func TestFileStorage_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := newTestFileStorage(t, dir)
	require.NoError(t, s.CreateLog(ctx, &internal.DailyLog{UserID: "u1", Date: day("2024-04-01"), SleepHours: 6}))
	require.NoError(t, s.CreateGoal(ctx, &internal.Goal{ID: "g1", UserID: "u1", Type: internal.MetricSleep, TargetValue: 6, Period: internal.PeriodDaily, StartAt: day("2024-04-01")}))
	_, err := s.MarkGoalCompleted(ctx, "g1", day("2024-04-02"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := newTestFileStorage(t, dir)
	defer reopened.Close()

	log, err := reopened.GetLog(ctx, "u1", day("2024-04-01"))
	require.NoError(t, err)
	assert.Equal(t, 6.0, log.SleepHours)

	goals, err := reopened.ListGoals(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Completed)
	assert.Equal(t, day("2024-04-02"), *goals[0].CompletedAt)
}

func TestFileStorage_DebouncedSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newTestFileStorage(t, dir)
	defer s.Close()

	require.NoError(t, s.CreateLog(ctx, &internal.DailyLog{UserID: "u1", Date: day("2024-04-01")}))

	assert.Eventually(t, func() bool {
		var logs []internal.DailyLog
		return decodeFile(filepath.Join(dir, "logs.json"), &logs) == nil && len(logs) == 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestFileStorage_CloseWaitsForInFlightSave(t *testing.T) {
	s := newTestFileStorage(t, t.TempDir())

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	s.workers.Add(1)
	go s.saveWorker(make(chan struct{}), time.Millisecond, func() error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}, "test")

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("save never started")
	}

	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while a save was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not return after the save finished")
	}
}

func TestNewRepositories_UnknownBackend(t *testing.T) {
	_, err := NewRepositories(&config.Config{DBType: "mongo"}, internal.NewNopLogger())
	assert.Error(t, err)
}

func TestNewRepositories_File(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRepositories(&config.Config{
		DBType:    "file",
		FileLogs:  filepath.Join(dir, "logs.json"),
		FileGoals: filepath.Join(dir, "goals.json"),
	}, internal.NewNopLogger())
	require.NoError(t, err)
	assert.NotNil(t, r.Logs)
	assert.NotNil(t, r.Goals)
	assert.NoError(t, r.Close())
}
