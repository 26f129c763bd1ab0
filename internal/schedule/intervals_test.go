package schedule

import (
	"testing"
	"time"
)

func TestIntervalIndexConflict(t *testing.T) {
	idx := NewIntervalIndex([]Slot{
		{JudgeID: 1, Start: at(10, 5), End: at(10, 15)},
		{JudgeID: 1, Start: at(10, 10), End: at(10, 20)},
	})

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"overlaps stored interval", at(10, 0), at(10, 10), true},
		{"touching boundary is free", at(9, 55), at(10, 5), false},
		{"fully inside", at(10, 6), at(10, 9), true},
		{"after everything", at(10, 20), at(10, 30), false},
		{"before everything", at(9, 0), at(9, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := idx.Conflict(1, tt.start, tt.end); got != tt.want {
				t.Errorf("Conflict(1, %v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}

	t.Run("judges are independent", func(t *testing.T) {
		if _, got := idx.Conflict(2, at(10, 5), at(10, 15)); got {
			t.Error("judge 2 reported a conflict from judge 1's interval")
		}
	})
}

func TestIntervalIndexInsert(t *testing.T) {
	idx := NewIntervalIndex(nil)
	idx.Insert(1, Interval{Start: at(11, 0), End: at(11, 10)})
	idx.Insert(1, Interval{Start: at(9, 0), End: at(9, 10)})

	conflict, ok := idx.Conflict(1, at(8, 55), at(11, 5))
	if !ok {
		t.Fatal("no conflict reported across both inserted intervals")
	}
	if !conflict.Start.Equal(at(9, 0)) {
		t.Errorf("first conflict starts %v, want the earlier interval at 9:00", conflict.Start)
	}
}

func TestIntervalIndexIgnoresInvalidJudges(t *testing.T) {
	idx := NewIntervalIndex([]Slot{{JudgeID: 0, Start: at(9, 0), End: at(9, 10)}})
	if _, ok := idx.Conflict(0, at(9, 0), at(9, 10)); ok {
		t.Error("slot without a valid judge id was indexed")
	}
}
