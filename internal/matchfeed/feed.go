// Package matchfeed turns a raw competition match-schedule feed into
// per-team, time-ordered lists of match occurrences.
package matchfeed

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a match feed that could not be interpreted as a list of
// match records. It is surfaced verbatim; no partial extraction is applied.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

// Entry is one competition-match occurrence for a team.
type Entry struct {
	Time  time.Time `json:"time"`
	Label string    `json:"label"`
}

// Match is one record of the external match feed.
type Match struct {
	MatchInfo MatchInfo `json:"matchInfo"`
}

// MatchInfo carries the scheduled time, round identity, and alliances of a match.
type MatchInfo struct {
	TimeScheduled *float64   `json:"timeScheduled"`
	MatchTuple    MatchTuple `json:"matchTuple"`
	Alliances     []Alliance `json:"alliances"`
}

type MatchTuple struct {
	Round string       `json:"round"`
	Match *json.Number `json:"match"`
}

type Alliance struct {
	Teams []AllianceTeam `json:"teams"`
}

type AllianceTeam struct {
	Number TeamNumber `json:"number"`
}

// TeamNumber accepts both string and numeric team identifiers; null becomes
// the empty string and the team is skipped during extraction.
type TeamNumber string

func (n *TeamNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = TeamNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*n = TeamNumber(num.String())
		return nil
	}
	return fmt.Errorf("team number must be a string or number, got %s", string(b))
}

// Label renders the human match label: qualification rounds as Q<n>, other
// rounds as <ROUND><n>, and a bare number as "Match <n>".
func (i MatchInfo) Label() string {
	round := strings.ToUpper(strings.TrimSpace(i.MatchTuple.Round))
	num := i.MatchTuple.Match
	switch {
	case round != "" && num != nil:
		if round == "QUAL" {
			return "Q" + num.String()
		}
		return round + num.String()
	case num != nil:
		return "Match " + num.String()
	}
	return "Match"
}

// Parse interprets the raw feed text as a list of match records. It accepts a
// bare JSON array or an object wrapping the array under "Matches". If neither
// parses, it falls back to extracting the first bracket-delimited array in the
// text (see extractArray); this is best-effort and may mis-extract when the
// text contains multiple arrays.
func Parse(raw string) ([]Match, error) {
	trimmed := strings.TrimSpace(raw)

	var matches []Match
	if err := json.Unmarshal([]byte(trimmed), &matches); err == nil {
		return matches, nil
	}

	var wrapper struct {
		Matches []Match `json:"Matches"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapper); err == nil && wrapper.Matches != nil {
		return wrapper.Matches, nil
	}

	return extractArray(raw)
}

// extractArray is the last-resort parser stage for feeds pasted with
// surrounding log noise: it takes everything from the first '[' to the last
// ']' and parses that as the match array.
func extractArray(raw string) ([]Match, error) {
	open := strings.Index(raw, "[")
	close := strings.LastIndex(raw, "]")
	if open < 0 || close <= open {
		return nil, &ParseError{Msg: "could not find JSON array in match schedule input"}
	}

	var matches []Match
	if err := json.Unmarshal([]byte(raw[open:close+1]), &matches); err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("could not parse match schedule input: %v", err)}
	}
	return matches, nil
}

// ExtractTeamEntries builds per-team entry lists from the match records.
// Records without a scheduled time are unscheduled placeholders and are
// skipped. Each team's list comes back sorted ascending by time, stable with
// respect to the original match order.
func ExtractTeamEntries(matches []Match) map[string][]Entry {
	byTeam := make(map[string][]Entry)
	for _, m := range matches {
		info := m.MatchInfo
		if info.TimeScheduled == nil {
			continue
		}
		matchTime := time.Unix(int64(*info.TimeScheduled), 0).UTC()
		label := info.Label()
		for _, alliance := range info.Alliances {
			for _, team := range alliance.Teams {
				num := strings.TrimSpace(string(team.Number))
				if num == "" {
					continue
				}
				byTeam[num] = append(byTeam[num], Entry{Time: matchTime, Label: label})
			}
		}
	}
	for _, entries := range byTeam {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Time.Before(entries[j].Time)
		})
	}
	return byTeam
}

// SortTeams orders team identifiers numerically where possible, with
// non-numeric identifiers after all numeric ones in lexical order.
func SortTeams(teams []string) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teamSortKey(teams[i]) < teamSortKey(teams[j])
	})
}

func teamSortKey(team string) string {
	if n, err := strconv.Atoi(team); err == nil && n >= 0 {
		return fmt.Sprintf("0%06d", n)
	}
	return "1" + team
}
