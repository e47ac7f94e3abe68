package engine

// The weekday role layout lives in data rather than per-round conditionals:
// each round maps every weekday of its group to an ordered list of
// (period, role) pairs. Generation is a single loop over these tables.
//
// Three-day group (Mon/Wed/Fri, 8 periods): round 1 spans three periods and
// carries all three roles every day, with the middle role flipping between
// the first and last weekday of the pattern. Rounds 2-4 shrink: round 2 keeps
// foreign help on two of three days, round 3 drops it, and round 4 is a
// single homeroom wrap-up period. Rounds 1-3 carry a word test.
//
// Two-day group (Tue/Thu, 6 periods): round 1 runs homeroom, Korean, foreign
// in sequence with a word test; round 2 bookends one Korean period with the
// same homeroom teacher on both sides and has no foreign period and no test.

type periodRole struct {
	Period int
	Role   Role
}

type roundPlan struct {
	Round        int
	Pattern      map[Weekday][]periodRole
	WordTest     bool
	WordTestTime string
}

var threeDayRounds = []roundPlan{
	{
		Round: 1,
		Pattern: map[Weekday][]periodRole{
			Monday:    {{1, RoleHomeroom}, {2, RoleForeign}, {3, RoleKorean}},
			Wednesday: {{1, RoleHomeroom}, {2, RoleKorean}, {3, RoleForeign}},
			Friday:    {{1, RoleHomeroom}, {2, RoleKorean}, {3, RoleForeign}},
		},
		WordTest:     true,
		WordTestTime: "15:25",
	},
	{
		Round: 2,
		Pattern: map[Weekday][]periodRole{
			Monday:    {{4, RoleHomeroom}, {5, RoleForeign}},
			Wednesday: {{4, RoleHomeroom}, {5, RoleKorean}},
			Friday:    {{4, RoleHomeroom}, {5, RoleForeign}},
		},
		WordTest:     true,
		WordTestTime: "16:25",
	},
	{
		Round: 3,
		Pattern: map[Weekday][]periodRole{
			Monday:    {{6, RoleHomeroom}, {7, RoleKorean}},
			Wednesday: {{6, RoleHomeroom}, {7, RoleKorean}},
			Friday:    {{6, RoleHomeroom}, {7, RoleKorean}},
		},
		WordTest:     true,
		WordTestTime: "17:25",
	},
	{
		Round: 4,
		Pattern: map[Weekday][]periodRole{
			Monday:    {{8, RoleHomeroom}},
			Wednesday: {{8, RoleHomeroom}},
			Friday:    {{8, RoleHomeroom}},
		},
	},
}

var twoDayRounds = []roundPlan{
	{
		Round: 1,
		Pattern: map[Weekday][]periodRole{
			Tuesday:  {{1, RoleHomeroom}, {2, RoleKorean}, {3, RoleForeign}},
			Thursday: {{1, RoleHomeroom}, {2, RoleKorean}, {3, RoleForeign}},
		},
		WordTest:     true,
		WordTestTime: "15:55",
	},
	{
		Round: 2,
		Pattern: map[Weekday][]periodRole{
			Tuesday:  {{4, RoleHomeroom}, {5, RoleKorean}, {6, RoleHomeroom}},
			Thursday: {{4, RoleHomeroom}, {5, RoleKorean}, {6, RoleHomeroom}},
		},
	},
}

// Periods teach for 25 (MWF) / 35 (TT) minutes with 5-minute breaks; word
// tests sit in the break after the round's last period so they never overlap
// regular teaching.
var periodStartTimes = map[DayGroup]map[int]string{
	GroupThreeDay: {
		1: "14:00", 2: "14:30", 3: "15:00", 4: "15:30",
		5: "16:00", 6: "16:30", 7: "17:00", 8: "17:30",
	},
	GroupTwoDay: {
		1: "14:00", 2: "14:40", 3: "15:20",
		4: "16:00", 5: "16:40", 6: "17:20",
	},
}

func roundsFor(group DayGroup) []roundPlan {
	if group == GroupTwoDay {
		return twoDayRounds
	}
	return threeDayRounds
}

func periodTime(group DayGroup, period int) string {
	return periodStartTimes[group][period]
}

func periodCount(group DayGroup) int {
	return len(periodStartTimes[group])
}
