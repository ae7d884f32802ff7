// Package view models the dashboard's client state as an explicit struct and
// a pure reducer, so its transitions are unit-testable without a rendering
// environment.
package view

import "github.com/mediconnect/ehr-api/internal/model"

// Section identifies one of the three record lists.
type Section int

const (
	SectionPrescriptions Section = iota
	SectionTests
	SectionAllergies
)

// collapsedVisible is how many items a collapsed section shows.
const collapsedVisible = 1

// State is the dashboard view state for one session.
type State struct {
	Patient       *model.Patient
	Prescriptions []model.Prescription
	Tests         []model.TestRecord
	Allergies     []model.Allergy
	Insights      model.Insights

	ShowMorePrescriptions bool
	ShowMoreTests         bool
	ShowMoreAllergies     bool

	ModalImageURL string
	ModalTitle    string

	Notice string
}

// Action is a dashboard state transition.
type Action interface {
	isAction()
}

// PatientLoaded replaces the displayed data with a freshly loaded bundle and
// collapses every section.
type PatientLoaded struct {
	Bundle *model.RecordBundle
}

// PatientNotFound clears all displayed data. Applying it twice yields the
// same empty state.
type PatientNotFound struct {
	Notice string
}

// ShowMore expands one section.
type ShowMore struct {
	Section Section
}

// OpenImage shows the image modal for a test record.
type OpenImage struct {
	URL   string
	Title string
}

// CloseImage dismisses the image modal.
type CloseImage struct{}

func (PatientLoaded) isAction()   {}
func (PatientNotFound) isAction() {}
func (ShowMore) isAction()        {}
func (OpenImage) isAction()       {}
func (CloseImage) isAction()      {}

// Reduce maps (state, action) to the next state. It never mutates its input.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case PatientLoaded:
		s.Patient = act.Bundle.Patient
		s.Prescriptions = act.Bundle.Prescriptions
		s.Tests = act.Bundle.Tests
		s.Allergies = act.Bundle.Allergies
		s.Insights = act.Bundle.Insights
		s.ShowMorePrescriptions = false
		s.ShowMoreTests = false
		s.ShowMoreAllergies = false
		s.Notice = ""

	case PatientNotFound:
		s = State{Notice: act.Notice}

	case ShowMore:
		switch act.Section {
		case SectionPrescriptions:
			s.ShowMorePrescriptions = true
		case SectionTests:
			s.ShowMoreTests = true
		case SectionAllergies:
			s.ShowMoreAllergies = true
		}

	case OpenImage:
		s.ModalImageURL = act.URL
		s.ModalTitle = act.Title

	case CloseImage:
		s.ModalImageURL = ""
		s.ModalTitle = ""
	}

	return s
}

// VisiblePrescriptions applies the collapsed/expanded rule: first item only
// until the section is expanded.
func (s State) VisiblePrescriptions() []model.Prescription {
	if s.ShowMorePrescriptions || len(s.Prescriptions) <= collapsedVisible {
		return s.Prescriptions
	}
	return s.Prescriptions[:collapsedVisible]
}

func (s State) VisibleTests() []model.TestRecord {
	if s.ShowMoreTests || len(s.Tests) <= collapsedVisible {
		return s.Tests
	}
	return s.Tests[:collapsedVisible]
}

func (s State) VisibleAllergies() []model.Allergy {
	if s.ShowMoreAllergies || len(s.Allergies) <= collapsedVisible {
		return s.Allergies
	}
	return s.Allergies[:collapsedVisible]
}
