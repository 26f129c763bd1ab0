package schedule

import (
	"fmt"
	"time"
)

// Status tracks a slot through the judging workflow.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusChecked     Status = "checked"
	StatusNoShow      Status = "no-show"
	StatusRescheduled Status = "rescheduled"
)

// Slot is one judging window for one judge pair, optionally holding a team.
type Slot struct {
	JudgeID int       `json:"judge_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Team    string    `json:"team,omitempty"`
	Status  Status    `json:"status"`
	Between string    `json:"between,omitempty"`
}

// BuildGrid generates the full slot grid: for each judge 1..judgePairs, a
// contiguous ascending run of floor(duration/slotMinutes) slots starting at
// start. All slots come back status=scheduled with no team.
func BuildGrid(judgePairs int, start time.Time, durationMinutes, slotMinutes int) ([]Slot, error) {
	if judgePairs < 1 {
		return nil, &ConfigError{Msg: fmt.Sprintf("judge pairs must be at least 1, got %d", judgePairs)}
	}
	if slotMinutes <= 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("slot length must be positive, got %d minutes", slotMinutes)}
	}
	if durationMinutes <= 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("judging duration must be positive, got %d minutes", durationMinutes)}
	}

	perJudge := durationMinutes / slotMinutes
	slots := make([]Slot, 0, judgePairs*perJudge)
	for judgeID := 1; judgeID <= judgePairs; judgeID++ {
		for i := 0; i < perJudge; i++ {
			slotStart := start.Add(time.Duration(i*slotMinutes) * time.Minute)
			slots = append(slots, Slot{
				JudgeID: judgeID,
				Start:   slotStart,
				End:     slotStart.Add(time.Duration(slotMinutes) * time.Minute),
				Status:  StatusScheduled,
			})
		}
	}
	return slots, nil
}
