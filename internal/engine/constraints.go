package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedConstraint flags an unparseable unavailability token. The
// engine raises for malformed configuration rather than silently ignoring it.
var ErrMalformedConstraint = errors.New("malformed constraint token")

const examToken = "WT"

var validDays = map[string]struct{}{
	string(Monday): {}, string(Tuesday): {}, string(Wednesday): {},
	string(Thursday): {}, string(Friday): {},
}

type constraintEntry struct {
	homeroomDisabled bool
	maxHomerooms     int // -1 means unbounded
	unavailable      map[string]struct{}
}

// constraintIndex resolves per-teacher restrictions by name. Teachers absent
// from the index are fully available with unbounded homeroom capacity.
type constraintIndex struct {
	entries map[string]constraintEntry
}

func newConstraintIndex(records []TeacherConstraint) (*constraintIndex, error) {
	index := &constraintIndex{entries: make(map[string]constraintEntry, len(records))}
	for _, record := range records {
		entry := constraintEntry{
			homeroomDisabled: record.HomeroomDisabled,
			maxHomerooms:     -1,
			unavailable:      make(map[string]struct{}, len(record.Unavailable)),
		}
		if record.MaxHomerooms != nil {
			entry.maxHomerooms = *record.MaxHomerooms
		}
		for _, token := range record.Unavailable {
			normalized, err := normalizeToken(token)
			if err != nil {
				return nil, fmt.Errorf("constraint for %s: %w", record.TeacherName, err)
			}
			entry.unavailable[normalized] = struct{}{}
		}
		index.entries[record.TeacherName] = entry
	}
	return index, nil
}

// normalizeToken canonicalises "mon|3" style tokens to "MON|3" and rejects
// unknown days, non-positive periods, and anything that is not day|period or
// day|WT.
func normalizeToken(token string) (string, error) {
	parts := strings.Split(strings.TrimSpace(token), "|")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedConstraint, token)
	}
	day := strings.ToUpper(strings.TrimSpace(parts[0]))
	if _, ok := validDays[day]; !ok {
		return "", fmt.Errorf("%w: unknown day in %q", ErrMalformedConstraint, token)
	}
	slot := strings.ToUpper(strings.TrimSpace(parts[1]))
	if slot == examToken {
		return day + "|" + examToken, nil
	}
	period, err := strconv.Atoi(slot)
	if err != nil || period < 1 {
		return "", fmt.Errorf("%w: bad period in %q", ErrMalformedConstraint, token)
	}
	return fmt.Sprintf("%s|%d", day, period), nil
}

func (ix *constraintIndex) isUnavailable(name string, day Weekday, period int) bool {
	entry, ok := ix.entries[name]
	if !ok {
		return false
	}
	_, blocked := entry.unavailable[fmt.Sprintf("%s|%d", day, period)]
	return blocked
}

func (ix *constraintIndex) isExamBlocked(name string, day Weekday) bool {
	entry, ok := ix.entries[name]
	if !ok {
		return false
	}
	_, blocked := entry.unavailable[string(day)+"|"+examToken]
	return blocked
}

func (ix *constraintIndex) homeroomAllowed(name string) bool {
	entry, ok := ix.entries[name]
	if !ok {
		return true
	}
	return !entry.homeroomDisabled
}

// homeroomCapacity returns the weekly homeroom assignment ceiling, or -1 when
// unbounded.
func (ix *constraintIndex) homeroomCapacity(name string) int {
	entry, ok := ix.entries[name]
	if !ok {
		return -1
	}
	return entry.maxHomerooms
}
