package schedule

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/awalker/judgeslot/internal/matchfeed"
)

const threeTeamFeed = `[
  {"matchInfo": {"timeScheduled": 1766998800, "matchTuple": {"round": "QUAL", "match": 1},
   "alliances": [{"teams": [{"number": "100A"}]}, {"teams": [{"number": "200B"}]}]}},
  {"matchInfo": {"timeScheduled": 1767000600, "matchTuple": {"round": "QUAL", "match": 2},
   "alliances": [{"teams": [{"number": "300C"}]}, {"teams": [{"number": "100A"}]}]}},
  {"matchInfo": {"timeScheduled": 1767002400, "matchTuple": {"round": "QUAL", "match": 3},
   "alliances": [{"teams": [{"number": "200B"}]}, {"teams": [{"number": "300C"}]}]}}
]`

func TestGenerateInitialSchedule(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	result, err := GenerateInitialSchedule(1, 10, at(9, 0), at(9, 30), threeTeamFeed, rng)
	if err != nil {
		t.Fatalf("GenerateInitialSchedule() error: %v", err)
	}

	t.Run("every slot filled", func(t *testing.T) {
		if len(result.Slots) != 3 {
			t.Fatalf("got %d slots, want 3", len(result.Slots))
		}
		for _, s := range result.Slots {
			if s.Team == "" {
				t.Errorf("slot at %v is empty, want all three teams placed", s.Start)
			}
		}
	})

	t.Run("no unassigned teams", func(t *testing.T) {
		if len(result.Unassigned) != 0 {
			t.Errorf("unassigned = %v, want none", result.Unassigned)
		}
	})

	t.Run("team matches extracted", func(t *testing.T) {
		if len(result.TeamMatches) != 3 {
			t.Errorf("got %d teams in match map, want 3", len(result.TeamMatches))
		}
		if entries := result.TeamMatches["100A"]; len(entries) != 2 {
			t.Errorf("team 100A has %d match entries, want 2", len(entries))
		}
	})
}

func TestGenerateInitialScheduleInvalidWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := GenerateInitialSchedule(1, 10, at(10, 0), at(9, 0), threeTeamFeed, rng)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("got %v, want a ConfigError", err)
	}
}

func TestGenerateInitialScheduleBadFeed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := GenerateInitialSchedule(1, 10, at(9, 0), at(10, 0), "not a schedule", rng)
	var parseErr *matchfeed.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("got %v, want a ParseError", err)
	}
}

func TestMarkCheckedOff(t *testing.T) {
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusScheduled},
		{JudgeID: 1, Start: at(9, 10), End: at(9, 20), Team: "200B", Status: StatusScheduled},
	}

	if err := MarkCheckedOff(slots, "100A"); err != nil {
		t.Fatalf("MarkCheckedOff() error: %v", err)
	}
	if slots[0].Status != StatusChecked {
		t.Errorf("status = %q, want %q", slots[0].Status, StatusChecked)
	}
	if slots[1].Status != StatusScheduled {
		t.Errorf("untouched slot status = %q, want %q", slots[1].Status, StatusScheduled)
	}

	t.Run("idempotent", func(t *testing.T) {
		if err := MarkCheckedOff(slots, "100A"); err != nil {
			t.Fatalf("second MarkCheckedOff() error: %v", err)
		}
		if slots[0].Status != StatusChecked {
			t.Errorf("status = %q, want %q", slots[0].Status, StatusChecked)
		}
	})

	t.Run("unknown team", func(t *testing.T) {
		err := MarkCheckedOff(slots, "999Z")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("got %v, want a NotFoundError", err)
		}
	})

	t.Run("empty team", func(t *testing.T) {
		err := MarkCheckedOff(slots, "")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("got %v, want a NotFoundError", err)
		}
	})
}

func TestMarkNoShow(t *testing.T) {
	slots := []Slot{
		{JudgeID: 1, Start: at(9, 0), End: at(9, 10), Team: "100A", Status: StatusScheduled},
	}
	entries := []matchfeed.Entry{
		{Time: at(10, 0), Label: "Q1"},
		{Time: at(10, 30), Label: "Q7"},
	}

	sug, err := MarkNoShow(slots, entries, "100A")
	if err != nil {
		t.Fatalf("MarkNoShow() error: %v", err)
	}
	if slots[0].Status != StatusNoShow {
		t.Errorf("status = %q, want %q", slots[0].Status, StatusNoShow)
	}
	if sug.Team != "100A" {
		t.Errorf("suggestion team = %q, want 100A", sug.Team)
	}
	if len(sug.Gaps) != 1 || sug.Gaps[0].Minutes != 30 {
		t.Errorf("suggestion gaps = %v, want one 30-minute gap", sug.Gaps)
	}

	t.Run("unknown team leaves slots alone", func(t *testing.T) {
		_, err := MarkNoShow(slots, entries, "999Z")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("got %v, want a NotFoundError", err)
		}
	})
}
