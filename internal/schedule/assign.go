package schedule

import (
	"math/rand"
	"sort"
)

// AssignBalanced distributes teams across the judges' slot grids with
// near-equal load and randomized ordering. Per-judge team counts differ by at
// most one; which judges carry the extra team is random. Slots are filled in
// ascending start order within each judge's grid. The slot list is mutated in
// place; the team list is not (shuffling works on a copy). Teams that cannot
// be placed are returned, never dropped.
func AssignBalanced(slots []Slot, teams []string, judgePairs int, rng *rand.Rand) []string {
	if len(teams) == 0 || judgePairs < 1 {
		return nil
	}

	targets := judgeTargets(len(teams), judgePairs, rng)

	// Assignment multiset: each judge id repeated target[judge] times.
	assignments := make([]int, 0, len(teams))
	for judgeID := 1; judgeID <= judgePairs; judgeID++ {
		for i := 0; i < targets[judgeID]; i++ {
			assignments = append(assignments, judgeID)
		}
	}
	rng.Shuffle(len(assignments), func(i, j int) {
		assignments[i], assignments[j] = assignments[j], assignments[i]
	})

	shuffled := make([]string, len(teams))
	copy(shuffled, teams)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	// Per-judge slot indices sorted by start time.
	judgeSlots := make(map[int][]int, judgePairs)
	for i := range slots {
		judgeSlots[slots[i].JudgeID] = append(judgeSlots[slots[i].JudgeID], i)
	}
	for _, indices := range judgeSlots {
		sort.Slice(indices, func(a, b int) bool {
			return slots[indices[a]].Start.Before(slots[indices[b]].Start)
		})
	}

	var unassigned []string
	next := make(map[int]int, judgePairs)
	for i, team := range shuffled {
		if i >= len(assignments) {
			// Guard: multiset size always equals len(teams), but a short
			// multiset must report the overflow rather than drop it.
			unassigned = append(unassigned, team)
			continue
		}
		judgeID := assignments[i]
		indices := judgeSlots[judgeID]
		k := next[judgeID]
		for k < len(indices) && slots[indices[k]].Team != "" {
			k++
		}
		if k >= len(indices) {
			next[judgeID] = k
			unassigned = append(unassigned, team)
			continue
		}
		slots[indices[k]].Team = team
		next[judgeID] = k + 1
	}
	return unassigned
}

// judgeTargets computes balanced per-judge team counts: everyone gets
// n/judges, and n%judges randomly chosen judges get one extra.
func judgeTargets(n, judgePairs int, rng *rand.Rand) map[int]int {
	base, remainder := n/judgePairs, n%judgePairs
	targets := make(map[int]int, judgePairs)
	for judgeID := 1; judgeID <= judgePairs; judgeID++ {
		targets[judgeID] = base
	}
	if remainder > 0 {
		for _, i := range rng.Perm(judgePairs)[:remainder] {
			targets[i+1]++
		}
	}
	return targets
}
