// Package calendar imports events from iCal/ICS feeds into the dashboard and
// exports calendars back to ICS.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// FeedEvent is a VEVENT reduced to what an Event can hold.
type FeedEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Pattern     models.RecurringPattern
}

// Parser parses iCal/ICS calendar feeds.
type Parser struct {
	httpClient *http.Client
}

// NewParser creates a new iCal parser.
func NewParser() *Parser {
	return &Parser{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAndParse downloads and parses an iCal feed from a URL.
func (p *Parser) FetchAndParse(ctx context.Context, url string) ([]FeedEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar returned status %d", resp.StatusCode)
	}

	return p.Parse(resp.Body)
}

// Parse reads a feed. Events without both dates are skipped.
func (p *Parser) Parse(r io.Reader) ([]FeedEvent, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var events []FeedEvent
	for _, ve := range cal.Events() {
		// Overrides of single recurring instances have no Event equivalent.
		if ve.GetProperty("RECURRENCE-ID") != nil {
			continue
		}

		ev := FeedEvent{
			UID:         propValue(ve, ical.ComponentPropertyUniqueId),
			Summary:     propValue(ve, ical.ComponentPropertySummary),
			Description: propValue(ve, ical.ComponentPropertyDescription),
			Pattern:     patternFromRRule(propValue(ve, ical.ComponentPropertyRrule)),
		}

		start, errStart := ve.GetStartAt()
		end, errEnd := ve.GetEndAt()
		if errStart != nil || start.IsZero() {
			continue
		}
		if errEnd != nil || end.IsZero() {
			end = start
		}
		ev.Start, ev.End = start.UTC(), end.UTC()

		events = append(events, ev)
	}

	return events, nil
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// patternFromRRule keeps the FREQ part of an RRULE. Rules Event cannot
// express (intervals, counts, BYDAY lists) degrade to the plain frequency.
func patternFromRRule(rule string) models.RecurringPattern {
	for _, part := range strings.Split(rule, ";") {
		key, value, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(key, "FREQ") {
			return models.ParseRecurringPattern(strings.ToUpper(value))
		}
	}
	return models.RecurringNone
}

// FilterByDateRange returns events that overlap with the given date range.
// Recurring events are kept whenever their series starts before end.
func FilterByDateRange(events []FeedEvent, start, end time.Time) []FeedEvent {
	var filtered []FeedEvent
	for _, e := range events {
		if !e.Start.Before(end) {
			continue
		}
		if e.Pattern != models.RecurringNone || e.End.After(start) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Export renders the events of one calendar as an ICS document.
func Export(cal models.Calendar, events []models.Event, now time.Time) string {
	out := ical.NewCalendar()
	out.SetMethod(ical.MethodPublish)
	out.SetProductId("-//planner-dashboard//EN")
	out.SetXWRCalName(cal.Name)

	for _, ev := range events {
		ve := out.AddEvent(ev.ID)
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Name)
		if ev.Description != nil {
			ve.SetDescription(*ev.Description)
		}
		ve.SetStartAt(ev.StartDate)
		ve.SetEndAt(ev.EndDate)
		if ev.RecurringPattern != "" && ev.RecurringPattern != models.RecurringNone {
			ve.AddProperty(ical.ComponentPropertyRrule, "FREQ="+string(ev.RecurringPattern))
		}
	}

	return out.Serialize()
}
