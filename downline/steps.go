package downline

import (
	"slices"
	"strings"

	"github.com/totegamma/chitfund"
)

// Assignment places one downline member on a step.
type Assignment struct {
	ID        string `json:"id"`
	Step      int    `json:"step"`
	JoinOrder int    `json:"joinOrder"`
}

// cumulative[s-1] is the number of slots available through step s.
var cumulative = func() [chitfund.MaxStep]int {
	var table [chitfund.MaxStep]int
	total := 0
	for s := 1; s <= chitfund.MaxStep; s++ {
		total += Capacity(s)
		table[s-1] = total
	}
	return table
}()

// Capacity is the number of slots of a single step (3^step).
func Capacity(step int) int {
	if step < 1 || step > chitfund.MaxStep {
		return 0
	}
	c := 1
	for i := 0; i < step; i++ {
		c *= 3
	}
	return c
}

// CumulativeCapacity is the number of slots of steps 1 through step.
func CumulativeCapacity(step int) int {
	if step < 1 || step > chitfund.MaxStep {
		return 0
	}
	return cumulative[step-1]
}

// StepForPosition returns the step of the member at the 1-indexed join
// position. Positions past the last step's capacity stay on the last step.
func StepForPosition(position int) int {
	for s := 1; s <= chitfund.MaxStep; s++ {
		if position <= cumulative[s-1] {
			return s
		}
	}
	// TODO: overflow beyond 29523 members collapses onto step 9; waiting on product to confirm the rule.
	return chitfund.MaxStep
}

// SortByJoin returns a copy ordered by join time, then by ID.
func SortByJoin(entries []chitfund.DownlineEntry) []chitfund.DownlineEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b chitfund.DownlineEntry) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}

// AssignSteps maps each member of a join-ordered downline to its step.
// The input must already be ordered (see SortByJoin). If an ID repeats,
// its first position wins.
func AssignSteps(sorted []chitfund.DownlineEntry) map[string]Assignment {
	assignments := make(map[string]Assignment, len(sorted))
	for i, entry := range sorted {
		if _, ok := assignments[entry.ID]; ok {
			continue
		}
		position := i + 1
		assignments[entry.ID] = Assignment{
			ID:        entry.ID,
			Step:      StepForPosition(position),
			JoinOrder: position,
		}
	}
	return assignments
}

// Ordered returns assignments sorted by join order.
func Ordered(assignments map[string]Assignment) []Assignment {
	list := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		list = append(list, a)
	}
	slices.SortFunc(list, func(a, b Assignment) int {
		return a.JoinOrder - b.JoinOrder
	})
	return list
}

// StepCounts folds assignments into per-step populations, index 0 being
// step 1. Trailing empty steps are dropped; at least one slot is kept.
func StepCounts(assignments map[string]Assignment) []int {
	var counts [chitfund.MaxStep]int
	for _, a := range assignments {
		if a.Step < 1 || a.Step > chitfund.MaxStep {
			continue
		}
		counts[a.Step-1]++
	}

	last := 1
	for s := chitfund.MaxStep; s >= 1; s-- {
		if counts[s-1] > 0 {
			last = s
			break
		}
	}
	return slices.Clone(counts[:last])
}
