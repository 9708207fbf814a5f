package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS daily_logs (
	user_id           TEXT NOT NULL,
	date              DATE NOT NULL,
	exercise_minutes  INTEGER NOT NULL DEFAULT 0,
	sleep_hours       DOUBLE PRECISION NOT NULL DEFAULT 0,
	water_cups        INTEGER NOT NULL DEFAULT 0,
	mood              INTEGER NOT NULL DEFAULT 3,
	meals             INTEGER NOT NULL DEFAULT 3,
	stress            INTEGER NOT NULL DEFAULT 3,
	screen_time_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, date)
);
CREATE TABLE IF NOT EXISTS goals (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	type         TEXT NOT NULL,
	target_value DOUBLE PRECISION NOT NULL CHECK (target_value > 0),
	period       TEXT NOT NULL,
	start_at     TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	completed    BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at DATE
);
CREATE INDEX IF NOT EXISTS goals_user_active_idx ON goals (user_id, completed);
`

const logColumns = `user_id, date, exercise_minutes, sleep_hours, water_cups, mood, meals, stress, screen_time_hours, created_at`

const goalColumns = `id, user_id, type, target_value, period, start_at, created_at, completed, completed_at`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		logger.Errorf("failed to apply postgres schema: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func scanLog(row pgx.Row) (internal.DailyLog, error) {
	var l internal.DailyLog
	err := row.Scan(&l.UserID, &l.Date, &l.ExerciseMinutes, &l.SleepHours, &l.WaterCups, &l.Mood, &l.Meals, &l.Stress, &l.ScreenTimeHours, &l.CreatedAt)
	l.Date = internal.DateOf(l.Date)
	return l, err
}

func (p *PostgresStorage) queryLogs(ctx context.Context, sql string, args ...any) ([]internal.DailyLog, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := []internal.DailyLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			p.logger.Errorf("failed to scan daily log: %v", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- DailyLogRepository ---
func (p *PostgresStorage) CreateLog(ctx context.Context, log *internal.DailyLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO daily_logs (`+logColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		log.UserID, log.Date, log.ExerciseMinutes, log.SleepHours, log.WaterCups, log.Mood, log.Meals, log.Stress, log.ScreenTimeHours, log.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return internal.ErrLogExists
		}
		p.logger.Errorf("failed to insert daily log: %v", err)
		return fmt.Errorf("storage: insert daily log: %w", err)
	}
	return nil
}

func (p *PostgresStorage) UpdateLog(ctx context.Context, log *internal.DailyLog) error {
	tag, err := p.pool.Exec(ctx, `UPDATE daily_logs SET exercise_minutes = $3, sleep_hours = $4, water_cups = $5, mood = $6, meals = $7, stress = $8, screen_time_hours = $9 WHERE user_id = $1 AND date = $2`,
		log.UserID, log.Date, log.ExerciseMinutes, log.SleepHours, log.WaterCups, log.Mood, log.Meals, log.Stress, log.ScreenTimeHours)
	if err != nil {
		p.logger.Errorf("failed to update daily log: %v", err)
		return fmt.Errorf("storage: update daily log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrLogNotFound
	}
	return nil
}

func (p *PostgresStorage) GetLog(ctx context.Context, userID string, date time.Time) (*internal.DailyLog, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+logColumns+` FROM daily_logs WHERE user_id = $1 AND date = $2`, userID, date)
	l, err := scanLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrLogNotFound
		}
		p.logger.Errorf("failed to get daily log: %v", err)
		return nil, err
	}
	return &l, nil
}

func (p *PostgresStorage) ListLogs(ctx context.Context, userID string) ([]internal.DailyLog, error) {
	return p.queryLogs(ctx, `SELECT `+logColumns+` FROM daily_logs WHERE user_id = $1 ORDER BY date`, userID)
}

func (p *PostgresStorage) ListLogsInRange(ctx context.Context, userID string, from, to time.Time) ([]internal.DailyLog, error) {
	return p.queryLogs(ctx, `SELECT `+logColumns+` FROM daily_logs WHERE user_id = $1 AND date >= $2 AND date < $3 ORDER BY date`, userID, from, to)
}

func (p *PostgresStorage) DeleteLog(ctx context.Context, userID string, date time.Time) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM daily_logs WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		p.logger.Errorf("failed to delete daily log: %v", err)
		return fmt.Errorf("storage: delete daily log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrLogNotFound
	}
	return nil
}

// --- GoalRepository ---
func (p *PostgresStorage) CreateGoal(ctx context.Context, goal *internal.Goal) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO goals (`+goalColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		goal.ID, goal.UserID, goal.Type, goal.TargetValue, goal.Period, goal.StartAt, goal.CreatedAt, goal.Completed, goal.CompletedAt)
	if err != nil {
		p.logger.Errorf("failed to insert goal: %v", err)
		return fmt.Errorf("storage: insert goal: %w", err)
	}
	return nil
}

func scanGoal(row pgx.Row) (internal.Goal, error) {
	var g internal.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Type, &g.TargetValue, &g.Period, &g.StartAt, &g.CreatedAt, &g.Completed, &g.CompletedAt)
	return g, err
}

func (p *PostgresStorage) GetGoal(ctx context.Context, goalID string) (*internal.Goal, error) {
	g, err := scanGoal(p.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrGoalNotFound
		}
		p.logger.Errorf("failed to get goal: %v", err)
		return nil, err
	}
	return &g, nil
}

func (p *PostgresStorage) ListGoals(ctx context.Context, userID string, activeOnly bool) ([]internal.Goal, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND (NOT $2 OR completed = FALSE) ORDER BY created_at`, userID, activeOnly)
	if err != nil {
		p.logger.Errorf("failed to query goals: %v", err)
		return nil, err
	}
	defer rows.Close()

	goals := []internal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			p.logger.Errorf("failed to scan goal: %v", err)
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (p *PostgresStorage) DeleteGoal(ctx context.Context, userID, goalID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		p.logger.Errorf("failed to delete goal: %v", err)
		return fmt.Errorf("storage: delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrGoalNotFound
	}
	return nil
}

func (p *PostgresStorage) MarkGoalCompleted(ctx context.Context, goalID string, completedAt time.Time) (bool, error) {
	tag, err := p.pool.Exec(ctx, `UPDATE goals SET completed = TRUE, completed_at = $2 WHERE id = $1 AND completed = FALSE`, goalID, completedAt)
	if err != nil {
		p.logger.Errorf("failed to mark goal completed: %v", err)
		return false, fmt.Errorf("storage: complete goal: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// --- Compile-time assertions ---
var _ DailyLogRepository = (*PostgresStorage)(nil)
var _ GoalRepository = (*PostgresStorage)(nil)
