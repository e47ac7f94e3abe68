package engine

// occupancy prevents a teacher from holding two simultaneous assignments.
// It says nothing about constraint compliance; selectors check that
// separately. One tracker is scoped to one day-group of one generation call,
// since the two groups run on disjoint physical days.
type occupancy struct {
	used map[occupancyKey]struct{}
}

type occupancyKey struct {
	day    Weekday
	period int
	name   string
}

func newOccupancy() *occupancy {
	return &occupancy{used: make(map[occupancyKey]struct{})}
}

func (o *occupancy) canUse(day Weekday, period int, name string) bool {
	_, busy := o.used[occupancyKey{day: day, period: period, name: name}]
	return !busy
}

func (o *occupancy) occupy(day Weekday, period int, name string) {
	o.used[occupancyKey{day: day, period: period, name: name}] = struct{}{}
}
