package schedule

import (
	"fmt"
	"math/rand"
	"time"
)

// Suggestion is the snapshot offered to the operator for one no-show team:
// the team plus its match gaps ranked largest first.
type Suggestion struct {
	Team string `json:"team"`
	Gaps []Gap  `json:"gaps"`
}

type candidate struct {
	start time.Time
	end   time.Time
	gap   Gap
}

// RescheduleNoShows places each no-show team into a conflict-free stretch of
// one of its match gaps, processing teams in suggestion order. Judges are
// filled toward balanced quotas over the no-show count; the quota is a soft
// preference, retried without it before giving up on a team. Among feasible
// judges the earliest candidate start wins, ties going to the lowest judge id.
// dampingMinutes shrinks every gap on both ends so a slot is never booked
// flush against a match boundary.
//
// The active slot list is only read (it seeds the conflict index). Returned
// slots have status=rescheduled and carry the gap's between label. Teams with
// no feasible placement are reported in the second return value; if no team at
// all could be placed the whole operation fails with ErrNoFeasibleSlot.
func RescheduleNoShows(active []Slot, suggestions []Suggestion, slotMinutes, judgePairs, dampingMinutes int, rng *rand.Rand) ([]Slot, []string, error) {
	if slotMinutes <= 0 {
		return nil, nil, &ConfigError{Msg: fmt.Sprintf("slot length must be positive, got %d minutes", slotMinutes)}
	}
	if judgePairs < 1 {
		return nil, nil, &ConfigError{Msg: fmt.Sprintf("judge pairs must be at least 1, got %d", judgePairs)}
	}

	idx := NewIntervalIndex(active)
	targets := judgeTargets(len(suggestions), judgePairs, rng)
	counts := make(map[int]int, judgePairs)
	slotLen := time.Duration(slotMinutes) * time.Minute
	damp := time.Duration(dampingMinutes) * time.Minute

	var placed []Slot
	var unplaced []string
	for _, sug := range suggestions {
		if sug.Team == "" {
			continue
		}

		best, bestJudge := bestAmongJudges(idx, sug.Gaps, slotLen, damp, judgePairs, func(judgeID int) bool {
			return counts[judgeID] < targets[judgeID]
		})
		if best == nil {
			// Quota is a balancing preference, not a hard constraint: retry
			// across every judge so any feasible gap still yields a placement.
			best, bestJudge = bestAmongJudges(idx, sug.Gaps, slotLen, damp, judgePairs, func(int) bool { return true })
		}
		if best == nil {
			unplaced = append(unplaced, sug.Team)
			continue
		}

		idx.Insert(bestJudge, Interval{Start: best.start, End: best.end})
		counts[bestJudge]++
		placed = append(placed, Slot{
			JudgeID: bestJudge,
			Start:   best.start,
			End:     best.end,
			Team:    sug.Team,
			Status:  StatusRescheduled,
			Between: best.gap.Between,
		})
	}

	if len(placed) == 0 {
		return nil, unplaced, ErrNoFeasibleSlot
	}
	return placed, unplaced, nil
}

// bestAmongJudges finds the eligible judge whose best candidate starts
// earliest. Judges are scanned in ascending id order and only strictly
// earlier candidates replace the incumbent, so ties resolve to the lowest id.
func bestAmongJudges(idx *IntervalIndex, gaps []Gap, slotLen, damp time.Duration, judgePairs int, eligible func(int) bool) (*candidate, int) {
	var best *candidate
	bestJudge := 0
	for judgeID := 1; judgeID <= judgePairs; judgeID++ {
		if !eligible(judgeID) {
			continue
		}
		c := bestForJudge(idx, judgeID, gaps, slotLen, damp)
		if c == nil {
			continue
		}
		if best == nil || c.start.Before(best.start) {
			best = c
			bestJudge = judgeID
		}
	}
	return best, bestJudge
}

// bestForJudge returns the judge's earliest conflict-free candidate across the
// team's gaps, or nil when no gap can hold a slot.
func bestForJudge(idx *IntervalIndex, judgeID int, gaps []Gap, slotLen, damp time.Duration) *candidate {
	var best *candidate
	for _, gap := range gaps {
		gapStart := gap.Start.Add(damp)
		gapEnd := gap.End.Add(-damp)
		if !gapEnd.After(gapStart) {
			continue
		}
		start, ok := findSlotInGap(idx, judgeID, gapStart, gapEnd, slotLen)
		if !ok {
			continue
		}
		if best == nil || start.Before(best.start) {
			best = &candidate{start: start, end: start.Add(slotLen), gap: gap}
		}
	}
	return best
}

// findSlotInGap scans forward from the gap start: on a conflict the candidate
// jumps to the end of the conflicting interval and retries.
func findSlotInGap(idx *IntervalIndex, judgeID int, gapStart, gapEnd time.Time, slotLen time.Duration) (time.Time, bool) {
	start := gapStart
	for !start.Add(slotLen).After(gapEnd) {
		conflict, ok := idx.Conflict(judgeID, start, start.Add(slotLen))
		if !ok {
			return start, true
		}
		start = conflict.End
	}
	return time.Time{}, false
}
