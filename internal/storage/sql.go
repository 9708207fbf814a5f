package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLStorage persists logs and goals through gorm. It is used with the
// sqlite driver; the queries are portable to any gorm dialect.
type SQLStorage struct {
	db     *gorm.DB
	logger internal.Logger
}

type dailyLogRow struct {
	UserID          string    `gorm:"primaryKey;type:varchar(64)"`
	Date            time.Time `gorm:"primaryKey"`
	ExerciseMinutes int       `gorm:"not null"`
	SleepHours      float64   `gorm:"not null"`
	WaterCups       int       `gorm:"not null"`
	Mood            int       `gorm:"not null"`
	Meals           int       `gorm:"not null"`
	Stress          int       `gorm:"not null"`
	ScreenTimeHours float64   `gorm:"not null"`
	CreatedAt       time.Time
}

func (dailyLogRow) TableName() string { return "daily_logs" }

type goalRow struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `gorm:"type:varchar(64);index:idx_goals_user_completed;not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	TargetValue float64   `gorm:"not null"`
	Period      string    `gorm:"type:varchar(20);not null"`
	StartAt     time.Time `gorm:"not null"`
	CreatedAt   time.Time
	Completed   bool `gorm:"index:idx_goals_user_completed;not null;default:false"`
	CompletedAt *time.Time
}

func (goalRow) TableName() string { return "goals" }

func toLogRow(l *internal.DailyLog) *dailyLogRow {
	return &dailyLogRow{
		UserID:          l.UserID,
		Date:            internal.DateOf(l.Date),
		ExerciseMinutes: l.ExerciseMinutes,
		SleepHours:      l.SleepHours,
		WaterCups:       l.WaterCups,
		Mood:            l.Mood,
		Meals:           l.Meals,
		Stress:          l.Stress,
		ScreenTimeHours: l.ScreenTimeHours,
		CreatedAt:       l.CreatedAt,
	}
}

func (r *dailyLogRow) toDomain() internal.DailyLog {
	return internal.DailyLog{
		UserID:          r.UserID,
		Date:            internal.DateOf(r.Date),
		ExerciseMinutes: r.ExerciseMinutes,
		SleepHours:      r.SleepHours,
		WaterCups:       r.WaterCups,
		Mood:            r.Mood,
		Meals:           r.Meals,
		Stress:          r.Stress,
		ScreenTimeHours: r.ScreenTimeHours,
		CreatedAt:       r.CreatedAt,
	}
}

func toGoalRow(g *internal.Goal) *goalRow {
	return &goalRow{
		ID:          g.ID,
		UserID:      g.UserID,
		Type:        string(g.Type),
		TargetValue: g.TargetValue,
		Period:      string(g.Period),
		StartAt:     g.StartAt,
		CreatedAt:   g.CreatedAt,
		Completed:   g.Completed,
		CompletedAt: g.CompletedAt,
	}
}

func (r *goalRow) toDomain() internal.Goal {
	return internal.Goal{
		ID:          r.ID,
		UserID:      r.UserID,
		Type:        internal.Metric(r.Type),
		TargetValue: r.TargetValue,
		Period:      internal.Period(r.Period),
		StartAt:     r.StartAt,
		CreatedAt:   r.CreatedAt,
		Completed:   r.Completed,
		CompletedAt: r.CompletedAt,
	}
}

// NewSQLiteStorage opens (and migrates) the sqlite database at path.
func NewSQLiteStorage(path string, logger internal.Logger) (*SQLStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		logger.Errorf("failed to open sqlite database: %v", err)
		return nil, err
	}
	return NewSQLStorage(db, logger)
}

func NewSQLStorage(db *gorm.DB, logger internal.Logger) (*SQLStorage, error) {
	if err := db.AutoMigrate(&dailyLogRow{}, &goalRow{}); err != nil {
		logger.Errorf("failed to migrate database: %v", err)
		return nil, err
	}
	return &SQLStorage{db: db, logger: logger}, nil
}

func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- DailyLogRepository ---
func (s *SQLStorage) CreateLog(ctx context.Context, log *internal.DailyLog) error {
	row := toLogRow(log)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dailyLogRow{}).Where("user_id = ? AND date = ?", row.UserID, row.Date).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return internal.ErrLogExists
		}
		return tx.Create(row).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, internal.ErrLogExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return internal.ErrLogExists
	default:
		s.logger.Errorf("failed to insert daily log: %v", err)
		return fmt.Errorf("storage: insert daily log: %w", err)
	}
}

func (s *SQLStorage) UpdateLog(ctx context.Context, log *internal.DailyLog) error {
	row := toLogRow(log)
	res := s.db.WithContext(ctx).Model(&dailyLogRow{}).
		Where("user_id = ? AND date = ?", row.UserID, row.Date).
		Updates(map[string]interface{}{
			"exercise_minutes":  row.ExerciseMinutes,
			"sleep_hours":       row.SleepHours,
			"water_cups":        row.WaterCups,
			"mood":              row.Mood,
			"meals":             row.Meals,
			"stress":            row.Stress,
			"screen_time_hours": row.ScreenTimeHours,
		})
	if res.Error != nil {
		s.logger.Errorf("failed to update daily log: %v", res.Error)
		return fmt.Errorf("storage: update daily log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrLogNotFound
	}
	return nil
}

func (s *SQLStorage) GetLog(ctx context.Context, userID string, date time.Time) (*internal.DailyLog, error) {
	var row dailyLogRow
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, internal.DateOf(date)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLogNotFound
		}
		s.logger.Errorf("failed to get daily log: %v", err)
		return nil, err
	}
	l := row.toDomain()
	return &l, nil
}

func (s *SQLStorage) ListLogs(ctx context.Context, userID string) ([]internal.DailyLog, error) {
	return s.findLogs(s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *SQLStorage) ListLogsInRange(ctx context.Context, userID string, from, to time.Time) ([]internal.DailyLog, error) {
	return s.findLogs(s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, internal.DateOf(from), internal.DateOf(to)))
}

func (s *SQLStorage) findLogs(q *gorm.DB) ([]internal.DailyLog, error) {
	var rows []dailyLogRow
	if err := q.Order("date ASC").Find(&rows).Error; err != nil {
		s.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	logs := make([]internal.DailyLog, 0, len(rows))
	for i := range rows {
		logs = append(logs, rows[i].toDomain())
	}
	return logs, nil
}

func (s *SQLStorage) DeleteLog(ctx context.Context, userID string, date time.Time) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, internal.DateOf(date)).Delete(&dailyLogRow{})
	if res.Error != nil {
		s.logger.Errorf("failed to delete daily log: %v", res.Error)
		return fmt.Errorf("storage: delete daily log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrLogNotFound
	}
	return nil
}

// --- GoalRepository ---
func (s *SQLStorage) CreateGoal(ctx context.Context, goal *internal.Goal) error {
	if err := s.db.WithContext(ctx).Create(toGoalRow(goal)).Error; err != nil {
		s.logger.Errorf("failed to insert goal: %v", err)
		return fmt.Errorf("storage: insert goal: %w", err)
	}
	return nil
}

func (s *SQLStorage) GetGoal(ctx context.Context, goalID string) (*internal.Goal, error) {
	var row goalRow
	if err := s.db.WithContext(ctx).Where("id = ?", goalID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrGoalNotFound
		}
		s.logger.Errorf("failed to get goal: %v", err)
		return nil, err
	}
	g := row.toDomain()
	return &g, nil
}

func (s *SQLStorage) ListGoals(ctx context.Context, userID string, activeOnly bool) ([]internal.Goal, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("completed = ?", false)
	}
	var rows []goalRow
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		s.logger.Errorf("failed to query goals: %v", err)
		return nil, err
	}
	goals := make([]internal.Goal, 0, len(rows))
	for i := range rows {
		goals = append(goals, rows[i].toDomain())
	}
	return goals, nil
}

func (s *SQLStorage) DeleteGoal(ctx context.Context, userID, goalID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).Delete(&goalRow{})
	if res.Error != nil {
		s.logger.Errorf("failed to delete goal: %v", res.Error)
		return fmt.Errorf("storage: delete goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrGoalNotFound
	}
	return nil
}

func (s *SQLStorage) MarkGoalCompleted(ctx context.Context, goalID string, completedAt time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&goalRow{}).
		Where("id = ? AND completed = ?", goalID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		s.logger.Errorf("failed to mark goal completed: %v", res.Error)
		return false, fmt.Errorf("storage: complete goal: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// --- Compile-time assertions ---
var _ DailyLogRepository = (*SQLStorage)(nil)
var _ GoalRepository = (*SQLStorage)(nil)
