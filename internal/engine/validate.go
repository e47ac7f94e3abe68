package engine

import (
	"fmt"
	"math"
)

// Validate recomputes diagnostics for a pair of completed schedules, e.g.
// after manual cell edits. It shares the malformed-configuration contract of
// Generate.
func Validate(cfg SlotConfig, three, two ScheduleResult) (ValidationResult, error) {
	index, err := newConstraintIndex(cfg.Constraints)
	if err != nil {
		return ValidationResult{}, err
	}
	return validate(&cfg, index, three, two), nil
}

// validate scans both completed schedules for structural integrity and
// produces diagnostics plus summary metrics. Errors mark the result invalid;
// unfilled slots are warnings; scores are informational.
func validate(cfg *SlotConfig, index *constraintIndex, three, two ScheduleResult) ValidationResult {
	v := ValidationResult{IsValid: true}

	groups := []struct {
		group  DayGroup
		result ScheduleResult
	}{
		{GroupThreeDay, three},
		{GroupTwoDay, two},
	}

	roleTeachers := make(map[roleKey]map[string]struct{})
	teacherLoads := make(map[string]int)
	homeroomTotals := make(map[string]int)

	for _, g := range groups {
		for _, day := range g.group.Weekdays() {
			sched, ok := g.result[day]
			if !ok || sched == nil {
				v.Errors = append(v.Errors, fmt.Sprintf("%s: day %s missing from result", g.group, day))
				continue
			}

			for period := 1; period <= periodCount(g.group); period++ {
				assignments := sched.Periods[period]
				for i, a := range assignments {
					teacherLoads[a.Teacher]++
					key := roleKey{classID: a.ClassID, role: a.Role}
					if roleTeachers[key] == nil {
						roleTeachers[key] = make(map[string]struct{})
					}
					roleTeachers[key][a.Teacher] = struct{}{}

					for j := 0; j < i; j++ {
						if assignments[j].Teacher == a.Teacher {
							v.Errors = append(v.Errors, fmt.Sprintf("%s %s period %d: %s double-booked", g.group, day, period, a.Teacher))
							break
						}
					}
					if index.isUnavailable(a.Teacher, day, period) {
						v.Errors = append(v.Errors, fmt.Sprintf("%s %s period %d: %s assigned while unavailable", g.group, day, period, a.Teacher))
					}
					if a.Role == RoleHomeroom {
						homeroomTotals[a.Teacher]++
						if !index.homeroomAllowed(a.Teacher) {
							v.Errors = append(v.Errors, fmt.Sprintf("%s %s period %d: %s holds homeroom duty while homeroom-disabled", g.group, day, period, a.Teacher))
						}
					}
				}
			}

			for _, plan := range roundsFor(g.group) {
				total := classCount(cfg.Options, g.group, plan.Round)
				if total == 0 {
					continue
				}
				expected := len(plan.Pattern[day]) * total
				filled := 0
				for _, pr := range plan.Pattern[day] {
					filled += len(sched.Periods[pr.Period])
				}
				v.Metrics.FilledSlots += filled
				if filled < expected {
					v.Metrics.UnfilledSlots += expected - filled
					v.Warnings = append(v.Warnings, fmt.Sprintf("%s %s round %d: %d of %d slots filled", g.group, day, plan.Round, filled, expected))
				}
			}

			for _, wt := range sched.WordTests {
				if index.isExamBlocked(wt.Teacher, day) {
					v.Errors = append(v.Errors, fmt.Sprintf("%s %s: word test for %s held by exam-blocked teacher %s", g.group, day, wt.ClassID, wt.Teacher))
				}
			}
		}
	}

	// Weekly homeroom ceilings, checked in pool order for stable output.
	for _, t := range cfg.HomeroomPool {
		limit := index.homeroomCapacity(t.Name)
		if limit >= 0 && homeroomTotals[t.Name] > limit {
			v.Errors = append(v.Errors, fmt.Sprintf("%s holds %d homeroom assignments over cap %d", t.Name, homeroomTotals[t.Name], limit))
		}
	}

	v.Metrics.ConsistencyScore = consistencyScore(roleTeachers)
	v.Metrics.FairnessScore = fairnessScore(teacherLoads)
	v.Infos = append(v.Infos,
		fmt.Sprintf("teacher consistency score: %.2f", v.Metrics.ConsistencyScore),
		fmt.Sprintf("load fairness score: %.2f", v.Metrics.FairnessScore),
	)

	if len(v.Errors) > 0 {
		v.IsValid = false
	}
	return v
}

type roleKey struct {
	classID string
	role    Role
}

// consistencyScore is 1.0 when every class kept a single teacher per role for
// all of its occurrences across the week.
func consistencyScore(roleTeachers map[roleKey]map[string]struct{}) float64 {
	if len(roleTeachers) == 0 {
		return 1.0
	}
	stable := 0
	for _, teachers := range roleTeachers {
		if len(teachers) == 1 {
			stable++
		}
	}
	return float64(stable) / float64(len(roleTeachers))
}

// fairnessScore measures how evenly teaching load spreads across staff:
// 1.0 when the standard deviation of per-teacher assignment counts is zero.
func fairnessScore(loads map[string]int) float64 {
	if len(loads) == 0 {
		return 1.0
	}
	var sum float64
	for _, count := range loads {
		sum += float64(count)
	}
	if sum == 0 {
		return 1.0
	}
	mean := sum / float64(len(loads))

	var varianceSum float64
	for _, count := range loads {
		diff := float64(count) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(loads)))

	score := 1.0 - stdDev/mean
	if score < 0 {
		return 0
	}
	return score
}
