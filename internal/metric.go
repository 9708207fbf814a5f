package internal

// Metric names a tracked field of a DailyLog. Goal types use the same names.
type Metric string

const (
	MetricExercise   Metric = "exercise"
	MetricSleep      Metric = "sleep"
	MetricWater      Metric = "water"
	MetricMood       Metric = "mood"
	MetricMeals      Metric = "meals"
	MetricStress     Metric = "stress"
	MetricScreenTime Metric = "screen_time"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{
	MetricExercise,
	MetricSleep,
	MetricWater,
	MetricMood,
	MetricMeals,
	MetricStress,
	MetricScreenTime,
}

var metricFields = map[Metric]func(DailyLog) float64{
	MetricExercise:   func(l DailyLog) float64 { return float64(l.ExerciseMinutes) },
	MetricSleep:      func(l DailyLog) float64 { return l.SleepHours },
	MetricWater:      func(l DailyLog) float64 { return float64(l.WaterCups) },
	MetricMood:       func(l DailyLog) float64 { return float64(l.Mood) },
	MetricMeals:      func(l DailyLog) float64 { return float64(l.Meals) },
	MetricStress:     func(l DailyLog) float64 { return float64(l.Stress) },
	MetricScreenTime: func(l DailyLog) float64 { return l.ScreenTimeHours },
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	_, ok := metricFields[m]
	return ok
}

// Value extracts the metric from a log; unknown metrics read as 0.
func (m Metric) Value(l DailyLog) float64 {
	if f, ok := metricFields[m]; ok {
		return f(l)
	}
	return 0
}
