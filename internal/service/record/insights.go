package record

import (
	"sort"
	"time"

	"github.com/mediconnect/ehr-api/internal/model"
)

// monthKey buckets a timestamp into its calendar year-month, e.g. "2024-01".
func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// MonthlyHistogram folds creation timestamps into per-month counts sorted
// ascending by month key. The fold is deterministic and order-independent:
// the same multiset of timestamps always yields the same result.
func MonthlyHistogram(times []time.Time) []model.MonthCount {
	byMonth := make(map[string]int)
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		byMonth[monthKey(t)]++
	}

	out := make([]model.MonthCount, 0, len(byMonth))
	for month, count := range byMonth {
		out = append(out, model.MonthCount{Month: month, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// buildInsights derives the chart data from already-fetched collections.
// No additional queries are issued.
func buildInsights(prescriptions []model.Prescription, tests []model.TestRecord, allergies []model.Allergy) model.Insights {
	presTimes := make([]time.Time, 0, len(prescriptions))
	for _, p := range prescriptions {
		presTimes = append(presTimes, p.CreatedAt)
	}

	testTimes := make([]time.Time, 0, len(tests))
	for _, t := range tests {
		testTimes = append(testTimes, t.CreatedAt)
	}

	return model.Insights{
		PrescriptionsPerMonth: MonthlyHistogram(presTimes),
		TestsPerMonth:         MonthlyHistogram(testTimes),
		TotalPrescriptions:    len(prescriptions),
		TotalTests:            len(tests),
		TotalAllergies:        len(allergies),
	}
}
