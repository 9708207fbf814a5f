package service

import (
	"math"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
)

// scoreComponent awards up to max points for one metric of a daily log.
type scoreComponent struct {
	metric internal.Metric
	max    float64
	points func(v float64) float64
}

// Weights sum to 100.
var scoreComponents = []scoreComponent{
	{metric: internal.MetricSleep, max: 25, points: sleepPoints},
	{metric: internal.MetricExercise, max: 25, points: exercisePoints},
	{metric: internal.MetricWater, max: 15, points: waterPoints},
	{metric: internal.MetricMood, max: 10, points: moodPoints},
	{metric: internal.MetricMeals, max: 10, points: mealsPoints},
	{metric: internal.MetricStress, max: 10, points: stressPoints},
	{metric: internal.MetricScreenTime, max: 5, points: screenTimePoints},
}

// Ramps to 25 at 8h, holds through 9h, then loses 2 points per extra hour.
func sleepPoints(hours float64) float64 {
	switch {
	case hours > 9:
		return math.Max(0, 25-2*(hours-9))
	case hours >= 8:
		return 25
	default:
		return 25 * hours / 8
	}
}

func exercisePoints(minutes float64) float64 {
	if minutes > 60 {
		return 25
	}
	return math.Min(minutes/30, 2) * 12.5
}

func waterPoints(cups float64) float64 {
	return 15 * math.Min(cups, 8) / 8
}

func moodPoints(mood float64) float64 {
	return 10 * mood / 5
}

func mealsPoints(meals float64) float64 {
	return 10 * math.Min(meals, 3) / 3
}

func stressPoints(stress float64) float64 {
	return math.Max(0, 10*(5-stress)/5)
}

// Three regimes with no smoothing at the 4h and 6h breakpoints.
func screenTimePoints(hours float64) float64 {
	switch {
	case hours <= 4:
		return 5
	case hours <= 6:
		return 3
	default:
		return math.Max(0, 5-(hours-4))
	}
}

// ScoreComponent is the contribution of one metric to a health score.
type ScoreComponent struct {
	Metric internal.Metric `json:"metric"`
	Points float64         `json:"points"`
	Max    float64         `json:"max"`
}

// ScoreBreakdown returns the unrounded points of every component.
func ScoreBreakdown(log internal.DailyLog) []ScoreComponent {
	out := make([]ScoreComponent, 0, len(scoreComponents))
	for _, c := range scoreComponents {
		out = append(out, ScoreComponent{
			Metric: c.metric,
			Points: c.points(c.metric.Value(log)),
			Max:    c.max,
		})
	}
	return out
}

// CalculateHealthScore maps one day's log to a wellness score in [0, 100].
func CalculateHealthScore(log internal.DailyLog) int {
	total := 0.0
	for _, c := range ScoreBreakdown(log) {
		total += c.Points
	}
	score := int(math.Round(total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
