package schedule

import (
	"strings"
	"testing"
)

func countType(violations []Violation, violationType string) int {
	n := 0
	for _, v := range violations {
		if v.Type == violationType {
			n++
		}
	}
	return n
}

func TestVerifyCleanSchedule(t *testing.T) {
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusScheduled},
		{JudgeID: 1, Start: at(9, 10), End: at(9, 20), Team: "200B", Status: StatusScheduled},
		{JudgeID: 2, Start: at(9, 0), End: at(9, 10), Team: "300C", Status: StatusScheduled},
	}
	if violations := Verify(slots, 2); len(violations) != 0 {
		t.Errorf("got violations %v, want none", violations)
	}
}

func TestVerifyOverlap(t *testing.T) {
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusScheduled},
		{JudgeID: 1, Start: at(9, 5), End: at(9, 15), Team: "200B", Status: StatusScheduled},
	}
	violations := Verify(slots, 1)
	if countType(violations, "error") != 1 {
		t.Fatalf("got %d errors, want 1: %v", countType(violations, "error"), violations)
	}
	if !strings.Contains(violations[0].Message, "overlapping") {
		t.Errorf("message = %q, want an overlap report", violations[0].Message)
	}
}

func TestVerifyBoundaryTouchIsFine(t *testing.T) {
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusScheduled},
		{JudgeID: 1, Start: at(9, 10), End: at(9, 20), Team: "200B", Status: StatusScheduled},
	}
	if violations := Verify(slots, 1); countType(violations, "error") != 0 {
		t.Errorf("back-to-back slots flagged as overlapping: %v", violations)
	}
}

func TestVerifyDuplicateLiveSlots(t *testing.T) {
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusScheduled},
		{JudgeID: 2, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusRescheduled},
	}
	violations := Verify(slots, 2)
	if countType(violations, "error") != 1 {
		t.Errorf("got %d errors, want 1 for the duplicated team: %v", countType(violations, "error"), violations)
	}
}

func TestVerifyNoShowPlusRescheduledIsFine(t *testing.T) {
	// The original slot stays visible as no-show; only the rescheduled slot
	// counts as live.
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusNoShow},
		{JudgeID: 2, Start: at(9, 20), End: at(9, 30), Team: "100A", Status: StatusRescheduled},
	}
	if violations := Verify(slots, 2); countType(violations, "error") != 0 {
		t.Errorf("no-show plus rescheduled pair flagged: %v", violations)
	}
}

func TestVerifyImbalanceWarning(t *testing.T) {
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusScheduled},
		{JudgeID: 1, Start: at(9, 10), End: at(9, 20), Team: "200B", Status: StatusScheduled},
		{JudgeID: 1, Start: at(9, 20), End: at(9, 30), Team: "300C", Status: StatusScheduled},
	}
	violations := Verify(slots, 2)
	if countType(violations, "warning") != 1 {
		t.Errorf("got %d warnings, want 1 for judge load imbalance: %v", countType(violations, "warning"), violations)
	}
	if countType(violations, "error") != 0 {
		t.Errorf("unexpected errors: %v", violations)
	}
}
