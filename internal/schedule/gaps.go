package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/awalker/judgeslot/internal/matchfeed"
)

// Gap is the free time between two consecutive match commitments for a team.
type Gap struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
	Between string    `json:"between"`
}

// ComputeGaps derives the ranked gap list from a team's time-sorted entries,
// largest gap first. Ties keep chronological order. Non-positive gaps
// (duplicate or out-of-order timestamps) are discarded, never an error.
// Fewer than two entries yields no gaps.
func ComputeGaps(entries []matchfeed.Entry) []Gap {
	var gaps []Gap
	for i := 0; i+1 < len(entries); i++ {
		current, next := entries[i], entries[i+1]
		minutes := int(next.Time.Sub(current.Time) / time.Minute)
		if minutes <= 0 {
			continue
		}
		gaps = append(gaps, Gap{
			Start:   current.Time,
			End:     next.Time,
			Minutes: minutes,
			Between: fmt.Sprintf("%s and %s", current.Label, next.Label),
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Minutes > gaps[j].Minutes
	})
	return gaps
}
