package service

import (
	"fmt"
	"sort"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
)

type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "", Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	default:
		return "", internal.ErrBadRequest.WithMessage(fmt.Sprintf("granularity must be %q or %q", Weekly, Monthly))
	}
}

// Bucket holds per-metric averages of the logs in one week or month.
type Bucket struct {
	Label        string                      `json:"label"`
	Count        int                         `json:"count"`
	Averages     map[internal.Metric]float64 `json:"averages"`
	AverageScore float64                     `json:"average_score"`
}

// bucketLabel keys a date as YYYY-Wn, n = ceil(dayOfYear/7), or YYYY-MM.
func bucketLabel(g Granularity, l internal.DailyLog) string {
	if g == Monthly {
		return l.Date.Format("2006-01")
	}
	week := (l.Date.YearDay() + 6) / 7
	return fmt.Sprintf("%d-W%d", l.Date.Year(), week)
}

// Aggregate groups logs chronologically into buckets.
func Aggregate(logs []internal.DailyLog, g Granularity) []Bucket {
	sorted := make([]internal.DailyLog, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var buckets []Bucket
	index := map[string]int{}
	for _, l := range sorted {
		label := bucketLabel(g, l)
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, Bucket{Label: label, Averages: map[internal.Metric]float64{}})
		}
		b := &buckets[i]
		b.Count++
		for _, m := range internal.Metrics {
			b.Averages[m] += m.Value(l)
		}
		b.AverageScore += float64(CalculateHealthScore(l))
	}

	for i := range buckets {
		n := float64(buckets[i].Count)
		for m := range buckets[i].Averages {
			buckets[i].Averages[m] /= n
		}
		buckets[i].AverageScore /= n
	}
	if buckets == nil {
		buckets = []Bucket{}
	}
	return buckets
}
