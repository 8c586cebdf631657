package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// maxOccurrencesPerEvent caps expansion of a single recurring event.
const maxOccurrencesPerEvent = 1000

// Occurrence is one concrete instance of an event.
type Occurrence struct {
	Event models.Event
	Start time.Time
	End   time.Time
}

// Agenda expands the cached events into occurrences overlapping [from, to),
// sorted by start time.
func (d *Dashboard) Agenda(from, to time.Time) ([]Occurrence, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("agenda: end %s is before start %s", to, from)
	}

	var out []Occurrence
	for _, ev := range d.events.All() {
		occ, err := ExpandEvent(ev, from, to)
		if err != nil {
			d.log.Warn("Skipping event with invalid recurrence", "id", ev.ID, "error", err)
			continue
		}
		out = append(out, occ...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// ExpandEvent returns the occurrences of ev overlapping [from, to).
func ExpandEvent(ev models.Event, from, to time.Time) ([]Occurrence, error) {
	if ev.StartDate.IsZero() {
		return nil, nil
	}
	duration := ev.EndDate.Sub(ev.StartDate)
	if duration < 0 {
		duration = 0
	}

	freq, recurring := frequency(ev.RecurringPattern)
	if !recurring {
		if overlaps(ev.StartDate, duration, from, to) {
			return []Occurrence{{Event: ev, Start: ev.StartDate, End: ev.StartDate.Add(duration)}}, nil
		}
		return nil, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: ev.StartDate,
	})
	if err != nil {
		return nil, fmt.Errorf("building recurrence: %w", err)
	}

	var out []Occurrence
	for _, start := range rule.Between(from.Add(-duration), to, true) {
		if !overlaps(start, duration, from, to) {
			continue
		}
		out = append(out, Occurrence{Event: ev, Start: start, End: start.Add(duration)})
		if len(out) >= maxOccurrencesPerEvent {
			break
		}
	}
	return out, nil
}

func frequency(p models.RecurringPattern) (rrule.Frequency, bool) {
	switch p {
	case models.RecurringDaily:
		return rrule.DAILY, true
	case models.RecurringWeekly:
		return rrule.WEEKLY, true
	case models.RecurringMonthly:
		return rrule.MONTHLY, true
	case models.RecurringYearly:
		return rrule.YEARLY, true
	default:
		return 0, false
	}
}

// overlaps reports whether [start, start+d) intersects [from, to). Zero-length
// occurrences count when start lies in the window.
func overlaps(start time.Time, d time.Duration, from, to time.Time) bool {
	if !start.Before(to) {
		return false
	}
	if d == 0 {
		return !start.Before(from)
	}
	return start.Add(d).After(from)
}
