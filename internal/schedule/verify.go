package schedule

import (
	"fmt"
	"sort"
)

// Violation is one invariant breach found in a schedule.
// Type is "error" for hard invariants and "warning" for balance drift.
type Violation struct {
	Type    string
	Message string
}

// Verify checks a slot set against the schedule invariants: no two slots for
// one judge overlap in time, no team holds more than one non-terminal slot,
// and assigned-team counts stay within one across judges. Balance drift is a
// warning because no-show recovery legitimately skews it.
func Verify(slots []Slot, judgePairs int) []Violation {
	var violations []Violation

	byJudge := make(map[int][]Slot)
	for _, s := range slots {
		byJudge[s.JudgeID] = append(byJudge[s.JudgeID], s)
	}

	judgeIDs := make([]int, 0, len(byJudge))
	for id := range byJudge {
		judgeIDs = append(judgeIDs, id)
	}
	sort.Ints(judgeIDs)

	for _, judgeID := range judgeIDs {
		judgeSlots := byJudge[judgeID]
		sort.Slice(judgeSlots, func(i, j int) bool {
			return judgeSlots[i].Start.Before(judgeSlots[j].Start)
		})
		for i := 1; i < len(judgeSlots); i++ {
			prev, curr := judgeSlots[i-1], judgeSlots[i]
			if curr.Start.Before(prev.End) {
				violations = append(violations, Violation{
					Type: "error",
					Message: fmt.Sprintf("judge %d has overlapping slots at %s and %s",
						judgeID, prev.Start.Format("15:04"), curr.Start.Format("15:04")),
				})
			}
		}
	}

	liveSlots := make(map[string]int)
	for _, s := range slots {
		if s.Team == "" {
			continue
		}
		if s.Status == StatusScheduled || s.Status == StatusRescheduled {
			liveSlots[s.Team]++
		}
	}
	teams := make([]string, 0, len(liveSlots))
	for team := range liveSlots {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		if liveSlots[team] > 1 {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("team %s holds %d live slots, want at most 1", team, liveSlots[team]),
			})
		}
	}

	if judgePairs > 0 {
		counts := make(map[int]int, judgePairs)
		for _, s := range slots {
			if s.Team != "" {
				counts[s.JudgeID]++
			}
		}
		minCount, maxCount := -1, 0
		for judgeID := 1; judgeID <= judgePairs; judgeID++ {
			c := counts[judgeID]
			if minCount < 0 || c < minCount {
				minCount = c
			}
			if c > maxCount {
				maxCount = c
			}
		}
		if maxCount-minCount > 1 {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("team load imbalance across judges: min %d, max %d", minCount, maxCount),
			})
		}
	}

	return violations
}
