// Package state holds the schedule state blob and its bbolt-backed store.
// The engine only produces schedule versions; everything about persisting
// them, the active-version pointer, and print locks lives here.
package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/awalker/judgeslot/internal/matchfeed"
	"github.com/awalker/judgeslot/internal/schedule"
)

// Version types recorded over the workflow.
const (
	TypeInitial       = "initial"
	TypeNoShow        = "noshow"
	TypePrinted       = "printed"
	TypePrintedNoShow = "printed-noshow"
)

// Version is an immutable-once-created snapshot of slots at a point in the
// workflow.
type Version struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Type      string          `json:"type"`
	Slots     []schedule.Slot `json:"slots"`
	CreatedAt time.Time       `json:"created_at"`
}

// ScheduleConfig is the configuration snapshot recorded with a generated
// schedule, so later no-show recovery reuses the same parameters.
type ScheduleConfig struct {
	JudgePairs      int       `json:"judge_pairs"`
	SlotMinutes     int       `json:"slot_minutes"`
	DurationMinutes int       `json:"duration_minutes"`
	BlockMinutes    int       `json:"block_minutes"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

// DampingMinutes is the symmetric margin subtracted from both ends of a gap
// during rescheduling: half the block length, or zero.
func (c ScheduleConfig) DampingMinutes() int {
	if c.BlockMinutes <= 0 {
		return 0
	}
	return c.BlockMinutes / 2
}

// State is the full schedule state. Operations load it, mutate a copy in
// memory, and save it back; the server serializes access.
type State struct {
	Config            ScheduleConfig               `json:"config"`
	Locked            bool                         `json:"locked"`
	NoShowLocked      bool                         `json:"noshow_locked"`
	TeamCount         int                          `json:"team_count"`
	Slots             []schedule.Slot              `json:"slots"`
	ActiveScheduleID  string                       `json:"active_schedule_id"`
	Schedules         []Version                    `json:"schedules"`
	Unassigned        []string                     `json:"unassigned"`
	TeamMatches       map[string][]matchfeed.Entry `json:"team_matches"`
	NoShows           []string                     `json:"no_shows"`
	NoShowSuggestions []schedule.Suggestion        `json:"no_show_suggestions"`
	LastSuggestion    *schedule.Suggestion         `json:"last_suggestion,omitempty"`
}

// NewVersion snapshots the given slots into a fresh version. The slots are
// deep-copied so later status transitions on the live slot list cannot reach
// into an already-recorded version.
func NewVersion(label, versionType string, slots []schedule.Slot) (Version, error) {
	var copied []schedule.Slot
	if err := deepcopy.Copy(&copied, slots); err != nil {
		return Version{}, fmt.Errorf("copying slots into version: %w", err)
	}
	return Version{
		ID:        uuid.NewString(),
		Label:     label,
		Type:      versionType,
		Slots:     copied,
		CreatedAt: time.Now(),
	}, nil
}

// ActiveVersion returns the version the active pointer references, or nil.
func (s *State) ActiveVersion() *Version {
	if s.ActiveScheduleID == "" {
		return nil
	}
	for i := range s.Schedules {
		if s.Schedules[i].ID == s.ActiveScheduleID {
			return &s.Schedules[i]
		}
	}
	return nil
}

// FindVersion returns the version with the given id, or nil.
func (s *State) FindVersion(id string) *Version {
	for i := range s.Schedules {
		if s.Schedules[i].ID == id {
			return &s.Schedules[i]
		}
	}
	return nil
}

// SetActive points the active schedule at the given version id and slot set.
func (s *State) SetActive(id string, slots []schedule.Slot) {
	s.ActiveScheduleID = id
	s.Slots = slots
}

// ActivateVersion points the active schedule at a stored version, working on
// a deep copy of its slots so the live list and the recorded version diverge
// freely afterward.
func (s *State) ActivateVersion(id string) error {
	v := s.FindVersion(id)
	if v == nil {
		return fmt.Errorf("schedule %s not found", id)
	}
	var copied []schedule.Slot
	if err := deepcopy.Copy(&copied, v.Slots); err != nil {
		return fmt.Errorf("copying version slots: %w", err)
	}
	s.ActiveScheduleID = id
	s.Slots = copied
	return nil
}

// AppendVersion records a new version.
func (s *State) AppendVersion(v Version) {
	s.Schedules = append(s.Schedules, v)
}

// UpsertVersionByType replaces the slots of the existing version of the given
// type, or appends a new one. There is at most one live version per
// workflow type for `noshow`; print snapshots always append.
func (s *State) UpsertVersionByType(versionType string, v Version) string {
	for i := range s.Schedules {
		if s.Schedules[i].Type == versionType {
			v.ID = s.Schedules[i].ID
			s.Schedules[i] = v
			return v.ID
		}
	}
	s.Schedules = append(s.Schedules, v)
	return v.ID
}

// RecordNoShow adds the team to the no-show list and installs the suggestion,
// superseding any earlier suggestion for the same team.
func (s *State) RecordNoShow(team string, sug schedule.Suggestion) {
	found := false
	for _, t := range s.NoShows {
		if t == team {
			found = true
			break
		}
	}
	if !found {
		s.NoShows = append(s.NoShows, team)
	}
	kept := s.NoShowSuggestions[:0]
	for _, existing := range s.NoShowSuggestions {
		if existing.Team != team {
			kept = append(kept, existing)
		}
	}
	s.NoShowSuggestions = append(kept, sug)
	s.LastSuggestion = &sug
}

// ClearNoShow drops the team from the no-show list and retires its live
// suggestion, e.g. after a checkoff.
func (s *State) ClearNoShow(team string) {
	teams := s.NoShows[:0]
	for _, t := range s.NoShows {
		if t != team {
			teams = append(teams, t)
		}
	}
	s.NoShows = teams

	kept := s.NoShowSuggestions[:0]
	for _, sug := range s.NoShowSuggestions {
		if sug.Team != team {
			kept = append(kept, sug)
		}
	}
	s.NoShowSuggestions = kept

	if s.LastSuggestion != nil && s.LastSuggestion.Team == team {
		s.LastSuggestion = nil
	}
}
