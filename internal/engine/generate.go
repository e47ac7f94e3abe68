package engine

import "fmt"

// Generate builds both day-group schedules and validates the result. It
// returns an error only for malformed configuration (bad constraint tokens);
// resource shortfalls degrade to empty slots plus validation warnings.
func Generate(cfg SlotConfig) (*Result, error) {
	index, err := newConstraintIndex(cfg.Constraints)
	if err != nil {
		return nil, err
	}

	// Homeroom capacity is a weekly ceiling, so the accumulator is shared
	// across day-groups while occupancy is not.
	homeroomCounts := make(map[string]int)

	three := generateGroup(&cfg, index, GroupThreeDay, homeroomCounts)
	two := generateGroup(&cfg, index, GroupTwoDay, homeroomCounts)

	result := &Result{ThreeDay: three, TwoDay: two}
	result.Validation = validate(&cfg, index, three, two)
	return result, nil
}

// generateGroup walks strictly forward through day, round, class and period.
// Selector decisions are final; there is no backtracking.
func generateGroup(cfg *SlotConfig, index *constraintIndex, group DayGroup, homeroomCounts map[string]int) ScheduleResult {
	p := &picker{
		cfg:            cfg,
		constraints:    index,
		occ:            newOccupancy(),
		homeroomCounts: homeroomCounts,
	}

	result := make(ScheduleResult, len(group.Weekdays()))
	for _, day := range group.Weekdays() {
		sched := &DaySchedule{Periods: make(map[int][]Assignment)}
		var cursor *rotationCursor
		if cfg.Options.RotateForeign {
			cursor = &rotationCursor{}
		}

		for _, plan := range roundsFor(group) {
			total := classCount(cfg.Options, group, plan.Round)
			for class := 1; class <= total; class++ {
				classID := fmt.Sprintf("%s-R%dC%d", group, plan.Round, class)
				homeroom := ""

				for _, pr := range plan.Pattern[day] {
					var teacher string
					var ok bool
					switch pr.Role {
					case RoleHomeroom:
						if homeroom == "" {
							teacher, ok = p.pickHomeroom(classID, day, pr.Period)
							if ok {
								homeroom = teacher
							}
						} else {
							teacher = homeroom
							ok = p.reuseHomeroom(homeroom, day, pr.Period)
						}
					case RoleKorean:
						teacher, ok = p.pickKorean(homeroom, day, pr.Period)
					case RoleForeign:
						teacher, ok = p.pickForeign(day, pr.Period, cursor)
					}
					if !ok {
						continue
					}
					sched.Periods[pr.Period] = append(sched.Periods[pr.Period], Assignment{
						Teacher: teacher,
						Role:    pr.Role,
						ClassID: classID,
						Round:   plan.Round,
						Period:  pr.Period,
						Time:    periodTime(group, pr.Period),
					})
				}

				if plan.WordTest && homeroom != "" && !index.isExamBlocked(homeroom, day) {
					sched.WordTests = append(sched.WordTests, ExamAssignment{
						ClassID: classID,
						Teacher: homeroom,
						Role:    RoleHomeroom,
						Label:   "WT",
						Time:    plan.WordTestTime,
					})
				}
			}
		}
		result[day] = sched
	}
	return result
}

// classCount treats unspecified or negative counts as zero classes so a
// caller can generate partial day-groups.
func classCount(opts Options, group DayGroup, round int) int {
	counts := opts.ThreeDayClassCounts
	if group == GroupTwoDay {
		counts = opts.TwoDayClassCounts
	}
	if round < 1 || round > len(counts) {
		return 0
	}
	if counts[round-1] < 0 {
		return 0
	}
	return counts[round-1]
}
