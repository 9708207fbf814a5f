package service

import (
	"context"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/storage"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Defaults applied to fields missing from a new log.
const (
	DefaultMood   = 3
	DefaultMeals  = 3
	DefaultStress = 3
)

// LogFields carries the metrics of a log request. Nil means "not provided".
type LogFields struct {
	ExerciseMinutes *int     `json:"exercise_minutes" validate:"omitempty,gte=0,lte=1440"`
	SleepHours      *float64 `json:"sleep_hours" validate:"omitempty,gte=0,lte=24"`
	WaterCups       *int     `json:"water_cups" validate:"omitempty,gte=0"`
	Mood            *int     `json:"mood" validate:"omitempty,gte=1,lte=5"`
	Meals           *int     `json:"meals" validate:"omitempty,gte=0"`
	Stress          *int     `json:"stress" validate:"omitempty,gte=1,lte=5"`
	ScreenTimeHours *float64 `json:"screen_time_hours" validate:"omitempty,gte=0,lte=24"`
}

type DailyLogRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	LogFields
}

// LogView is the wire shape of a log, including its derived health score.
type LogView struct {
	Date        string  `json:"date"`
	Exercise    int     `json:"exercise"`
	Sleep       float64 `json:"sleep"`
	Water       int     `json:"water"`
	Mood        int     `json:"mood"`
	Meals       int     `json:"meals"`
	Stress      int     `json:"stress"`
	ScreenTime  float64 `json:"screen_time"`
	HealthScore int     `json:"health_score"`
}

func NewLogView(l internal.DailyLog) LogView {
	return LogView{
		Date:        l.Date.Format(internal.DateLayout),
		Exercise:    l.ExerciseMinutes,
		Sleep:       l.SleepHours,
		Water:       l.WaterCups,
		Mood:        l.Mood,
		Meals:       l.Meals,
		Stress:      l.Stress,
		ScreenTime:  l.ScreenTimeHours,
		HealthScore: CalculateHealthScore(l),
	}
}

func NewLogViews(logs []internal.DailyLog) []LogView {
	out := make([]LogView, 0, len(logs))
	for _, l := range logs {
		out = append(out, NewLogView(l))
	}
	return out
}

func ValidateDailyLogRequest(req *DailyLogRequest) error {
	if err := validate.Struct(req); err != nil {
		return internal.ParseValidationErrors(err)
	}
	return nil
}

func ValidateLogFields(f *LogFields) error {
	if err := validate.Struct(f); err != nil {
		return internal.ParseValidationErrors(err)
	}
	return nil
}

// apply copies every provided field onto l.
func (f LogFields) apply(l *internal.DailyLog) {
	if f.ExerciseMinutes != nil {
		l.ExerciseMinutes = *f.ExerciseMinutes
	}
	if f.SleepHours != nil {
		l.SleepHours = *f.SleepHours
	}
	if f.WaterCups != nil {
		l.WaterCups = *f.WaterCups
	}
	if f.Mood != nil {
		l.Mood = *f.Mood
	}
	if f.Meals != nil {
		l.Meals = *f.Meals
	}
	if f.Stress != nil {
		l.Stress = *f.Stress
	}
	if f.ScreenTimeHours != nil {
		l.ScreenTimeHours = *f.ScreenTimeHours
	}
}

func CreateLog(ctx context.Context, repo storage.DailyLogRepository, user *internal.User, req *DailyLogRequest, now time.Time) (*internal.DailyLog, error) {
	date, err := internal.ParseDate(req.Date)
	if err != nil {
		return nil, internal.ErrBadRequest.WithMessage("date must be formatted YYYY-MM-DD").WithError(err)
	}
	log := &internal.DailyLog{
		UserID:    user.ID,
		Date:      date,
		Mood:      DefaultMood,
		Meals:     DefaultMeals,
		Stress:    DefaultStress,
		CreatedAt: now,
	}
	req.LogFields.apply(log)
	if err := repo.CreateLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// UpdateLog changes only the fields present in f.
func UpdateLog(ctx context.Context, repo storage.DailyLogRepository, user *internal.User, date time.Time, f *LogFields) (*internal.DailyLog, error) {
	log, err := repo.GetLog(ctx, user.ID, date)
	if err != nil {
		return nil, err
	}
	f.apply(log)
	if err := repo.UpdateLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}
