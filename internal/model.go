package internal

import "time"

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// DailyLog is one user's metrics for one calendar date. Date is always
// midnight UTC; at most one log exists per (UserID, Date). Mood and Stress
// use a 1–5 scale.
type DailyLog struct {
	UserID          string    `json:"user_id"`
	Date            time.Time `json:"date"`
	ExerciseMinutes int       `json:"exercise_minutes"`
	SleepHours      float64   `json:"sleep_hours"`
	WaterCups       int       `json:"water_cups"`
	Mood            int       `json:"mood"`
	Meals           int       `json:"meals"`
	Stress          int       `json:"stress"`
	ScreenTimeHours float64   `json:"screen_time_hours"`
	CreatedAt       time.Time `json:"created_at"`
}

type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        Metric     `json:"type"`
	TargetValue float64    `json:"target_value"`
	Period      Period     `json:"period"`
	StartAt     time.Time  `json:"start_at"`
	CreatedAt   time.Time  `json:"created_at"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Days returns the window length of the period. Unrecognised periods are
// treated as daily.
func (p Period) Days() int {
	switch p {
	case PeriodWeekly:
		return 7
	case PeriodMonthly:
		return 30
	default:
		return 1
	}
}

// DateOf returns the UTC calendar date of t at midnight UTC, whatever
// location t carries.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
