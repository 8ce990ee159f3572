package service

import "testing"

func TestStudentOnboardingFlow_ErasmusStep(t *testing.T) {
	regular := NewStudentOnboardingFlow(false)
	erasmus := NewStudentOnboardingFlow(true)

	if erasmus.Len() != regular.Len()+1 {
		t.Fatalf("expected erasmus flow to have one extra step, got %d vs %d", erasmus.Len(), regular.Len())
	}
	if regular.IndexOf(StepErasmusDetails) != -1 {
		t.Fatalf("expected no erasmus step for regular students")
	}
	if got := erasmus.IndexOf(StepErasmusDetails); got != 3 {
		t.Fatalf("expected erasmus step after academic info, got %d", got)
	}
	if erasmus.IndexOf(StepLifestyle) != regular.IndexOf(StepLifestyle)+1 {
		t.Fatalf("expected later steps to shift by one")
	}

	steps := regular.Steps()
	if steps[len(steps)-1].Key != StepTerms || steps[len(steps)-1].Progress != 100 {
		t.Fatalf("expected terms step last at 100%%, got %+v", steps[len(steps)-1])
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].Progress <= steps[i-1].Progress {
			t.Fatalf("expected increasing progress, got %+v", steps)
		}
	}
}

func TestFlow_NextBack(t *testing.T) {
	f := NewListingWizardFlow()
	if f.back() {
		t.Fatalf("expected back at first step to fail")
	}
	if f.Current().Key != StepLocationAndType {
		t.Fatalf("unexpected first step %s", f.Current().Key)
	}
	for f.Next() {
	}
	if !f.isLast() || f.Current().Key != StepTitleDescription {
		t.Fatalf("expected last step, got %s", f.Current().Key)
	}
	if f.Next() {
		t.Fatalf("expected Next at last step to fail")
	}
	if !f.back() || f.index() != f.Len()-2 {
		t.Fatalf("expected back to move one step")
	}

	steps := f.Steps()
	steps[0].Key = "mutated"
	if f.Steps()[0].Key != StepLocationAndType {
		t.Fatalf("expected Steps to return a copy")
	}
}

func TestFlow_MoveTo(t *testing.T) {
	f := NewListingWizardFlow()
	if !f.MoveTo(StepDetails) || f.Current().Key != StepDetails {
		t.Fatalf("expected to move to details, got %s", f.Current().Key)
	}
	if !f.Next() || f.Current().Key != StepRoomsAndPricing {
		t.Fatalf("expected rooms and pricing after details, got %s", f.Current().Key)
	}
	if f.MoveTo("desconocido") || f.Current().Key != StepRoomsAndPricing {
		t.Fatalf("expected unknown step to leave the flow untouched")
	}
	if !f.MoveTo(StepTitleDescription) || f.Next() {
		t.Fatalf("expected no step after the last one")
	}
}
