package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mediconnect/ehr-api/internal/model"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMonthlyHistogram(t *testing.T) {
	times := []time.Time{
		ts("2024-01-05T10:00:00Z"),
		ts("2024-02-20T08:30:00Z"),
		ts("2024-01-28T23:59:59Z"),
	}

	got := MonthlyHistogram(times)

	assert.Equal(t, []model.MonthCount{
		{Month: "2024-01", Count: 2},
		{Month: "2024-02", Count: 1},
	}, got)
}

func TestMonthlyHistogramOrderIndependent(t *testing.T) {
	a := []time.Time{
		ts("2023-12-31T23:00:00Z"),
		ts("2024-01-01T00:00:00Z"),
		ts("2024-03-15T12:00:00Z"),
		ts("2024-03-01T12:00:00Z"),
	}
	b := []time.Time{a[3], a[1], a[0], a[2]}

	assert.Equal(t, MonthlyHistogram(a), MonthlyHistogram(b))
}

func TestMonthlyHistogramIdempotent(t *testing.T) {
	times := []time.Time{ts("2024-06-01T00:00:00Z"), ts("2024-06-02T00:00:00Z")}

	first := MonthlyHistogram(times)
	second := MonthlyHistogram(times)

	assert.Equal(t, first, second)
}

func TestMonthlyHistogramSortedAscending(t *testing.T) {
	times := []time.Time{
		ts("2025-01-01T00:00:00Z"),
		ts("2023-11-01T00:00:00Z"),
		ts("2024-07-01T00:00:00Z"),
	}

	got := MonthlyHistogram(times)

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Month, got[i].Month)
	}
}

func TestMonthlyHistogramSkipsZeroTimestamps(t *testing.T) {
	got := MonthlyHistogram([]time.Time{{}, ts("2024-05-01T00:00:00Z")})

	assert.Equal(t, []model.MonthCount{{Month: "2024-05", Count: 1}}, got)
}

func TestMonthlyHistogramEmpty(t *testing.T) {
	assert.Empty(t, MonthlyHistogram(nil))
}

func TestBuildInsightsTotals(t *testing.T) {
	prescriptions := []model.Prescription{
		{CreatedAt: ts("2024-01-05T10:00:00Z")},
		{CreatedAt: ts("2024-01-06T10:00:00Z")},
	}
	tests := []model.TestRecord{{CreatedAt: ts("2024-02-01T10:00:00Z")}}
	allergies := []model.Allergy{{CreatedAt: ts("2024-02-02T10:00:00Z")}}

	got := buildInsights(prescriptions, tests, allergies)

	assert.Equal(t, 2, got.TotalPrescriptions)
	assert.Equal(t, 1, got.TotalTests)
	assert.Equal(t, 1, got.TotalAllergies)
	assert.Equal(t, []model.MonthCount{{Month: "2024-01", Count: 2}}, got.PrescriptionsPerMonth)
	assert.Equal(t, []model.MonthCount{{Month: "2024-02", Count: 1}}, got.TestsPerMonth)
}
