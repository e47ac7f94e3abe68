package engine

// picker implements the three candidate selection policies. Every successful
// pick occupies the slot immediately; callers never occupy separately.
type picker struct {
	cfg            *SlotConfig
	constraints    *constraintIndex
	occ            *occupancy
	homeroomCounts map[string]int
}

// rotationCursor spreads foreign picks evenly across the pool within one day.
// It is an explicit value threaded through selector calls so generation state
// never leaks between days or calls.
type rotationCursor struct {
	next int
}

// pickHomeroom tries the class's fixed pin first, then scans the homeroom
// pool in order. Each selection counts toward the teacher's weekly homeroom
// capacity.
func (p *picker) pickHomeroom(classID string, day Weekday, period int) (string, bool) {
	if pin := p.cfg.FixedHomerooms[classID]; pin != "" {
		if p.homeroomEligible(pin, day, period) {
			p.takeHomeroom(pin, day, period)
			return pin, true
		}
	}
	for _, t := range p.cfg.HomeroomPool {
		if p.homeroomEligible(t.Name, day, period) {
			p.takeHomeroom(t.Name, day, period)
			return t.Name, true
		}
	}
	return "", false
}

// reuseHomeroom places the round's already-resolved homeroom teacher into a
// further homeroom period of the same round, if they are still usable there.
func (p *picker) reuseHomeroom(name string, day Weekday, period int) bool {
	if !p.homeroomEligible(name, day, period) {
		return false
	}
	p.takeHomeroom(name, day, period)
	return true
}

func (p *picker) homeroomEligible(name string, day Weekday, period int) bool {
	if !p.constraints.homeroomAllowed(name) {
		return false
	}
	if p.constraints.isUnavailable(name, day, period) {
		return false
	}
	if !p.occ.canUse(day, period, name) {
		return false
	}
	if limit := p.constraints.homeroomCapacity(name); limit >= 0 && p.homeroomCounts[name] >= limit {
		return false
	}
	return true
}

func (p *picker) takeHomeroom(name string, day Weekday, period int) {
	p.occ.occupy(day, period, name)
	p.homeroomCounts[name]++
}

// pickKorean selects from the dedicated Korean teachers, widened to
// homeroom-role teachers when IncludeHInK is set. The class's own homeroom
// teacher is excluded under DisallowOwnHAsK, and under PreferOtherHForK other
// classes' homeroom teachers are tried ahead of the rest of the pool.
func (p *picker) pickKorean(ownHomeroom string, day Weekday, period int) (string, bool) {
	for _, name := range p.koreanCandidates(ownHomeroom) {
		if p.constraints.isUnavailable(name, day, period) {
			continue
		}
		if !p.occ.canUse(day, period, name) {
			continue
		}
		p.occ.occupy(day, period, name)
		return name, true
	}
	return "", false
}

func (p *picker) koreanCandidates(ownHomeroom string) []string {
	opts := p.cfg.Options
	var koreans, homerooms []string
	for _, t := range p.cfg.HomeroomPool {
		if opts.DisallowOwnHAsK && t.Name == ownHomeroom {
			continue
		}
		switch t.Role {
		case RoleKorean:
			koreans = append(koreans, t.Name)
		case RoleHomeroom:
			if opts.IncludeHInK {
				homerooms = append(homerooms, t.Name)
			}
		}
	}

	if !opts.PreferOtherHForK {
		return append(koreans, homerooms...)
	}

	candidates := make([]string, 0, len(koreans)+len(homerooms))
	for _, name := range homerooms {
		if name != ownHomeroom {
			candidates = append(candidates, name)
		}
	}
	candidates = append(candidates, koreans...)
	for _, name := range homerooms {
		if name == ownHomeroom {
			candidates = append(candidates, name)
		}
	}
	return candidates
}

// pickForeign scans the foreign pool in order, or round-robins from the
// cursor when one is supplied. The cursor advances past the chosen index so
// consecutive picks within a day cycle evenly through the pool.
func (p *picker) pickForeign(day Weekday, period int, cursor *rotationCursor) (string, bool) {
	pool := p.cfg.ForeignPool
	n := len(pool)
	if n == 0 {
		return "", false
	}
	start := 0
	if cursor != nil {
		start = cursor.next % n
	}
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		name := pool[idx].Name
		if p.constraints.isUnavailable(name, day, period) {
			continue
		}
		if !p.occ.canUse(day, period, name) {
			continue
		}
		if cursor != nil {
			cursor.next = (idx + 1) % n
		}
		p.occ.occupy(day, period, name)
		return name, true
	}
	return "", false
}
