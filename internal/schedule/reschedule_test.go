package schedule

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/awalker/judgeslot/internal/matchfeed"
)

func suggestionFor(team string, entries ...matchfeed.Entry) Suggestion {
	return Suggestion{Team: team, Gaps: ComputeGaps(entries)}
}

func TestRescheduleNoShows(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sug := suggestionFor("2910A",
		matchfeed.Entry{Time: at(9, 0), Label: "Q3"},
		matchfeed.Entry{Time: at(9, 40), Label: "Q12"},
	)

	placed, unplaced, err := RescheduleNoShows(nil, []Suggestion{sug}, 10, 1, 0, rng)
	if err != nil {
		t.Fatalf("RescheduleNoShows() error: %v", err)
	}
	if len(unplaced) != 0 {
		t.Fatalf("unplaced = %v, want none", unplaced)
	}
	if len(placed) != 1 {
		t.Fatalf("got %d placed slots, want 1", len(placed))
	}

	s := placed[0]
	if !s.Start.Equal(at(9, 0)) || !s.End.Equal(at(9, 10)) {
		t.Errorf("placed at %v to %v, want 9:00 to 9:10", s.Start, s.End)
	}
	if s.Team != "2910A" {
		t.Errorf("team = %q, want 2910A", s.Team)
	}
	if s.Status != StatusRescheduled {
		t.Errorf("status = %q, want %q", s.Status, StatusRescheduled)
	}
	if s.Between != "Q3 and Q12" {
		t.Errorf("between = %q, want %q", s.Between, "Q3 and Q12")
	}
}

func TestRescheduleNoShowsSkipsConflicts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	active := []Slot{{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "88Z"}}
	sug := suggestionFor("2910A",
		matchfeed.Entry{Time: at(9, 0), Label: "Q3"},
		matchfeed.Entry{Time: at(9, 40), Label: "Q12"},
	)

	placed, _, err := RescheduleNoShows(active, []Suggestion{sug}, 10, 1, 0, rng)
	if err != nil {
		t.Fatalf("RescheduleNoShows() error: %v", err)
	}
	if !placed[0].Start.Equal(at(9, 10)) {
		t.Errorf("placed at %v, want 9:10 after the committed slot", placed[0].Start)
	}
}

func TestRescheduleNoShowsDamping(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sug := suggestionFor("2910A",
		matchfeed.Entry{Time: at(9, 0), Label: "Q3"},
		matchfeed.Entry{Time: at(9, 40), Label: "Q12"},
	)

	placed, _, err := RescheduleNoShows(nil, []Suggestion{sug}, 10, 1, 4, rng)
	if err != nil {
		t.Fatalf("RescheduleNoShows() error: %v", err)
	}
	if !placed[0].Start.Equal(at(9, 4)) {
		t.Errorf("placed at %v, want 9:04 inside the damped gap", placed[0].Start)
	}
	if !placed[0].End.Equal(at(9, 14)) {
		t.Errorf("placement ends %v, want 9:14", placed[0].End)
	}
}

func TestRescheduleNoShowsNoFeasibleSlot(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// The only gap is 5 minutes; a 10-minute slot cannot fit.
	sug := suggestionFor("2910A",
		matchfeed.Entry{Time: at(9, 0), Label: "Q3"},
		matchfeed.Entry{Time: at(9, 5), Label: "Q4"},
	)

	placed, unplaced, err := RescheduleNoShows(nil, []Suggestion{sug}, 10, 1, 0, rng)
	if !errors.Is(err, ErrNoFeasibleSlot) {
		t.Fatalf("got %v, want ErrNoFeasibleSlot", err)
	}
	if placed != nil {
		t.Errorf("placed = %v, want nil", placed)
	}
	if len(unplaced) != 1 || unplaced[0] != "2910A" {
		t.Errorf("unplaced = %v, want [2910A]", unplaced)
	}
}

func TestRescheduleNoShowsPartialPlacement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	feasible := suggestionFor("100A",
		matchfeed.Entry{Time: at(9, 0), Label: "Q1"},
		matchfeed.Entry{Time: at(9, 30), Label: "Q8"},
	)
	infeasible := suggestionFor("200B",
		matchfeed.Entry{Time: at(10, 0), Label: "Q2"},
		matchfeed.Entry{Time: at(10, 5), Label: "Q9"},
	)

	placed, unplaced, err := RescheduleNoShows(nil, []Suggestion{feasible, infeasible}, 10, 1, 0, rng)
	if err != nil {
		t.Fatalf("RescheduleNoShows() error: %v", err)
	}
	if len(placed) != 1 || placed[0].Team != "100A" {
		t.Errorf("placed = %v, want just 100A", placed)
	}
	if len(unplaced) != 1 || unplaced[0] != "200B" {
		t.Errorf("unplaced = %v, want [200B]", unplaced)
	}
}

func TestRescheduleNoShowsTieBreaksToLowestJudge(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	entries := []matchfeed.Entry{
		{Time: at(9, 0), Label: "Q1"},
		{Time: at(9, 40), Label: "Q9"},
	}
	suggestions := []Suggestion{
		suggestionFor("100A", entries...),
		suggestionFor("200B", entries...),
	}

	placed, _, err := RescheduleNoShows(nil, suggestions, 10, 2, 0, rng)
	if err != nil {
		t.Fatalf("RescheduleNoShows() error: %v", err)
	}
	if len(placed) != 2 {
		t.Fatalf("got %d placed slots, want 2", len(placed))
	}
	// Both judges offer 9:00 for the first team; the lower id wins. The quota
	// then pushes the second team to the other judge at the same time.
	if placed[0].JudgeID != 1 {
		t.Errorf("first placement on judge %d, want 1", placed[0].JudgeID)
	}
	if placed[1].JudgeID != 2 {
		t.Errorf("second placement on judge %d, want 2", placed[1].JudgeID)
	}
	if !placed[1].Start.Equal(at(9, 0)) {
		t.Errorf("second placement at %v, want 9:00 on the free judge", placed[1].Start)
	}
}

func TestRescheduleNoShowsInvalidParams(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sug := suggestionFor("100A",
		matchfeed.Entry{Time: at(9, 0), Label: "Q1"},
		matchfeed.Entry{Time: at(9, 30), Label: "Q8"},
	)

	var cfgErr *ConfigError
	if _, _, err := RescheduleNoShows(nil, []Suggestion{sug}, 0, 1, 0, rng); !errors.As(err, &cfgErr) {
		t.Errorf("zero slot length: got %v, want a ConfigError", err)
	}
	if _, _, err := RescheduleNoShows(nil, []Suggestion{sug}, 10, 0, 0, rng); !errors.As(err, &cfgErr) {
		t.Errorf("zero judges: got %v, want a ConfigError", err)
	}
}
