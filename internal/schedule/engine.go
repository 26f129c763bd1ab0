package schedule

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/awalker/judgeslot/internal/matchfeed"
)

// GenerateResult is the output of the initial scheduling pass.
type GenerateResult struct {
	Slots       []Slot
	Unassigned  []string
	TeamMatches map[string][]matchfeed.Entry
}

// GenerateInitialSchedule parses the raw match feed, builds the slot grid for
// the judging window, and assigns every extracted team with balanced random
// placement. Teams the grid cannot hold are reported in Unassigned.
func GenerateInitialSchedule(judgePairs, slotMinutes int, windowStart, windowEnd time.Time, rawFeed string, rng *rand.Rand) (*GenerateResult, error) {
	durationMinutes := int(windowEnd.Sub(windowStart) / time.Minute)
	if durationMinutes <= 0 {
		return nil, &ConfigError{Msg: "judging end time must be after the start time"}
	}

	matches, err := matchfeed.Parse(rawFeed)
	if err != nil {
		return nil, err
	}
	teamMatches := matchfeed.ExtractTeamEntries(matches)

	teams := make([]string, 0, len(teamMatches))
	for team := range teamMatches {
		teams = append(teams, team)
	}
	matchfeed.SortTeams(teams)

	slots, err := BuildGrid(judgePairs, windowStart, durationMinutes, slotMinutes)
	if err != nil {
		return nil, err
	}
	unassigned := AssignBalanced(slots, teams, judgePairs, rng)

	return &GenerateResult{
		Slots:       slots,
		Unassigned:  unassigned,
		TeamMatches: teamMatches,
	}, nil
}

// MarkCheckedOff transitions the team's slot to checked. Calling it again for
// the same team yields the same end state.
func MarkCheckedOff(slots []Slot, team string) error {
	return setStatus(slots, team, StatusChecked)
}

// MarkNoShow transitions the team's slot to no-show and returns a fresh
// suggestion built from the team's match gaps. The suggestion supersedes any
// earlier one for the same team; that bookkeeping belongs to the caller.
func MarkNoShow(slots []Slot, entries []matchfeed.Entry, team string) (Suggestion, error) {
	if err := setStatus(slots, team, StatusNoShow); err != nil {
		return Suggestion{}, err
	}
	return Suggestion{Team: team, Gaps: ComputeGaps(entries)}, nil
}

func setStatus(slots []Slot, team string, status Status) error {
	if team == "" {
		return &NotFoundError{Msg: "missing team"}
	}
	for i := range slots {
		if slots[i].Team == team {
			slots[i].Status = status
			return nil
		}
	}
	return &NotFoundError{Msg: fmt.Sprintf("team %s not found in slots", team)}
}
