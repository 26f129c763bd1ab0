package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) stretch of committed judge time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// IntervalIndex tracks each judge's committed intervals, kept sorted by start,
// and answers conflict queries with the half-open overlap test.
type IntervalIndex struct {
	byJudge map[int][]Interval
}

// NewIntervalIndex seeds the index from the slots currently considered active,
// including previously rescheduled no-shows.
func NewIntervalIndex(slots []Slot) *IntervalIndex {
	idx := &IntervalIndex{byJudge: make(map[int][]Interval)}
	for _, s := range slots {
		if s.JudgeID < 1 {
			continue
		}
		idx.byJudge[s.JudgeID] = append(idx.byJudge[s.JudgeID], Interval{Start: s.Start, End: s.End})
	}
	for _, intervals := range idx.byJudge {
		sortIntervals(intervals)
	}
	return idx
}

// Conflict reports the first stored interval for the judge overlapping the
// half-open candidate [start, end). Boundary-touching intervals do not conflict.
func (idx *IntervalIndex) Conflict(judgeID int, start, end time.Time) (Interval, bool) {
	for _, iv := range idx.byJudge[judgeID] {
		if start.Before(iv.End) && end.After(iv.Start) {
			return iv, true
		}
	}
	return Interval{}, false
}

// Insert commits an interval for the judge, keeping the list sorted by start.
func (idx *IntervalIndex) Insert(judgeID int, iv Interval) {
	intervals := append(idx.byJudge[judgeID], iv)
	sortIntervals(intervals)
	idx.byJudge[judgeID] = intervals
}

func sortIntervals(intervals []Interval) {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
}
