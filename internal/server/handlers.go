package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/awalker/judgeslot/internal/config"
	"github.com/awalker/judgeslot/internal/excel"
	"github.com/awalker/judgeslot/internal/schedule"
	"github.com/awalker/judgeslot/internal/state"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type generateRequest struct {
	JudgePairs    int    `json:"judge_pairs"`
	SlotMinutes   int    `json:"slot_minutes"`
	BlockMinutes  *int   `json:"block_minutes"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	MatchSchedule string `json:"match_schedule"`
}

// clockTime resolves a request time string, falling back to the configured
// default when the field is omitted.
func clockTime(text string, fallback config.ClockTime) (config.ClockTime, error) {
	if strings.TrimSpace(text) == "" {
		return fallback, nil
	}
	return config.ParseClockTime(text)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if existing.Locked {
		badRequest(w, "schedule is locked after printing")
		return
	}

	judging := s.cfg.Judging
	if req.JudgePairs > 0 {
		judging.JudgePairs = req.JudgePairs
	}
	if req.SlotMinutes > 0 {
		judging.SlotMinutes = req.SlotMinutes
	}
	if req.BlockMinutes != nil {
		judging.BlockMinutes = *req.BlockMinutes
	}

	startClock, err := clockTime(req.StartTime, judging.StartTime)
	if err != nil {
		badRequest(w, fmt.Sprintf("judging start time: %v", err))
		return
	}
	endClock, err := clockTime(req.EndTime, judging.EndTime)
	if err != nil {
		badRequest(w, fmt.Sprintf("judging end time: %v", err))
		return
	}

	today := time.Now()
	windowStart := startClock.On(today)
	windowEnd := endClock.On(today)

	result, err := schedule.GenerateInitialSchedule(
		judging.JudgePairs, judging.SlotMinutes, windowStart, windowEnd, req.MatchSchedule, s.rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	version, err := state.NewVersion("Initial schedule", state.TypeInitial, result.Slots)
	if err != nil {
		s.writeError(w, err)
		return
	}

	st := &state.State{
		Config: state.ScheduleConfig{
			JudgePairs:      judging.JudgePairs,
			SlotMinutes:     judging.SlotMinutes,
			DurationMinutes: int(windowEnd.Sub(windowStart) / time.Minute),
			BlockMinutes:    judging.BlockMinutes,
			StartTime:       windowStart,
			EndTime:         windowEnd,
		},
		TeamCount:   len(result.TeamMatches),
		Slots:       result.Slots,
		Unassigned:  result.Unassigned,
		TeamMatches: result.TeamMatches,
	}
	st.AppendVersion(version)
	st.SetActive(version.ID, result.Slots)

	// Teams the grid could not hold go straight onto the no-show track so the
	// operator can slot them into their match gaps.
	for _, team := range result.Unassigned {
		entries := result.TeamMatches[team]
		if len(entries) == 0 {
			continue
		}
		st.RecordNoShow(team, schedule.Suggestion{Team: team, Gaps: schedule.ComputeGaps(entries)})
	}
	st.LastSuggestion = nil

	if err := s.store.Save(st); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info().
		Int("judge_pairs", judging.JudgePairs).
		Int("teams", st.TeamCount).
		Int("unassigned", len(result.Unassigned)).
		Msg("generated initial schedule")
	writeJSON(w, http.StatusOK, st)
}

type teamRequest struct {
	Team string `json:"team"`
}

func (req *teamRequest) team() string {
	return strings.TrimSpace(req.Team)
}

// mirrorStatus applies the team's status transition to the active version's
// copy of the slots, keeping it in step with the live list.
func mirrorStatus(st *state.State, team string, status schedule.Status) {
	v := st.ActiveVersion()
	if v == nil {
		return
	}
	for i := range v.Slots {
		if v.Slots[i].Team == team {
			v.Slots[i].Status = status
			break
		}
	}
}

func (s *Server) handleCheckoff(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.team() == "" {
		badRequest(w, "missing team")
		return
	}
	team := req.team()

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := schedule.MarkCheckedOff(st.Slots, team); err != nil {
		s.writeError(w, err)
		return
	}
	mirrorStatus(st, team, schedule.StatusChecked)
	st.ClearNoShow(team)

	if err := s.store.Save(st); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info().Str("team", team).Msg("team checked off")
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleNoShow(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.team() == "" {
		badRequest(w, "missing team")
		return
	}
	team := req.team()

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	suggestion, err := schedule.MarkNoShow(st.Slots, st.TeamMatches[team], team)
	if err != nil {
		s.writeError(w, err)
		return
	}
	mirrorStatus(st, team, schedule.StatusNoShow)
	st.RecordNoShow(team, suggestion)

	if err := s.store.Save(st); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info().Str("team", team).Int("gaps", len(suggestion.Gaps)).Msg("team marked no-show")
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleGenerateNoShow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if st.NoShowLocked {
		badRequest(w, "no-show schedule is locked after printing")
		return
	}
	if len(st.NoShowSuggestions) == 0 {
		badRequest(w, "no no-show teams to schedule")
		return
	}

	baseSlots := st.Slots
	if v := st.ActiveVersion(); v != nil {
		baseSlots = v.Slots
	}

	placed, unplaced, err := schedule.RescheduleNoShows(
		baseSlots, st.NoShowSuggestions,
		st.Config.SlotMinutes, st.Config.JudgePairs, st.Config.DampingMinutes(), s.rng)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, team := range unplaced {
		s.logger.Warn().Str("team", team).Msg("no feasible reschedule slot for team")
	}

	version, err := state.NewVersion("No-show recovery", state.TypeNoShow, placed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := st.UpsertVersionByType(state.TypeNoShow, version)
	st.SetActive(id, placed)

	if err := s.store.Save(st); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info().Int("placed", len(placed)).Int("unplaced", len(unplaced)).Msg("generated no-show recovery schedule")
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleActiveSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID string `json:"schedule_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ScheduleID) == "" {
		badRequest(w, "missing schedule id")
		return
	}
	id := strings.TrimSpace(req.ScheduleID)

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if st.FindVersion(id) == nil {
		s.writeError(w, &schedule.NotFoundError{Msg: fmt.Sprintf("schedule %s not found", id)})
		return
	}
	if err := st.ActivateVersion(id); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Save(st); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSnapshotPrint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	// Body is optional; an empty label falls back below.
	json.NewDecoder(r.Body).Decode(&req)
	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = "Printed schedule"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(st.Slots) == 0 {
		badRequest(w, "no schedule to snapshot")
		return
	}

	var versionType string
	if active := st.ActiveVersion(); active != nil && active.Type == state.TypeNoShow {
		if st.NoShowLocked {
			writeJSON(w, http.StatusOK, st)
			return
		}
		label = "Printed no-show recovery"
		versionType = state.TypePrintedNoShow
		st.NoShowLocked = true
	} else {
		if st.Locked {
			writeJSON(w, http.StatusOK, st)
			return
		}
		versionType = state.TypePrinted
		st.Locked = true
	}

	version, err := state.NewVersion(label, versionType, st.Slots)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st.AppendVersion(version)
	st.SetActive(version.ID, st.Slots)

	if err := s.store.Save(st); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info().Str("type", versionType).Msg("schedule snapshot printed")
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info().Msg("state reset")
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(st.Slots) == 0 {
		badRequest(w, "no schedule to export")
		return
	}

	f, err := excel.Generate(st)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="judging-schedule.xlsx"`)
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("writing workbook response")
	}
}
