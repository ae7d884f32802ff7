package model

// MonthCount is one bucket of a monthly histogram. Month is a calendar
// year-month key in "YYYY-MM" form.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Insights is the chart data derived client-side in the original dashboard:
// per-collection monthly histograms plus totals. It is computed from the
// already-fetched collections, never from extra queries.
type Insights struct {
	PrescriptionsPerMonth []MonthCount `json:"prescriptions_per_month"`
	TestsPerMonth         []MonthCount `json:"tests_per_month"`
	TotalPrescriptions    int          `json:"total_prescriptions"`
	TotalTests            int          `json:"total_tests"`
	TotalAllergies        int          `json:"total_allergies"`
}

// RecordBundle is everything recorded for one patient at load time. The three
// collections are each sorted by creation time descending; no transaction
// spans the three reads.
type RecordBundle struct {
	Patient       *Patient       `json:"patient"`
	Prescriptions []Prescription `json:"prescriptions"`
	Tests         []TestRecord   `json:"tests"`
	Allergies     []Allergy      `json:"allergies"`
	Insights      Insights       `json:"insights"`
}

// PrescriptionsOnly returns a copy of the bundle restricted to what a chemist
// may see: the patient header and the prescription list.
func (b *RecordBundle) PrescriptionsOnly() *RecordBundle {
	return &RecordBundle{
		Patient:       b.Patient,
		Prescriptions: b.Prescriptions,
		Insights: Insights{
			PrescriptionsPerMonth: b.Insights.PrescriptionsPerMonth,
			TotalPrescriptions:    b.Insights.TotalPrescriptions,
		},
	}
}
