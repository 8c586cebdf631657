package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/planner-dashboard/backend/internal/dashboard"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

type eventFlags struct {
	name, description, start, end, pattern, calendar, category string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Event name")
	cmd.Flags().StringVar(&f.description, "description", "", "Event description")
	cmd.Flags().StringVar(&f.start, "start", "", "Start, e.g. 2024-01-01T09:00")
	cmd.Flags().StringVar(&f.end, "end", "", "End, e.g. 2024-01-01T10:00")
	cmd.Flags().StringVar(&f.pattern, "repeat", "", "NONE, DAILY, WEEKLY, MONTHLY or YEARLY")
	cmd.Flags().StringVar(&f.calendar, "calendar", "", "Calendar ID")
	cmd.Flags().StringVar(&f.category, "category", "", "Category ID")
}

// apply copies the flags the user set onto ev.
func (f *eventFlags) apply(cmd *cobra.Command, d *dashboard.Dashboard, ev *models.Event) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		ev.Name = f.name
	}
	if changed("description") {
		ev.Description = optional(f.description)
	}
	if changed("start") {
		t, err := parseTime("start", f.start)
		if err != nil {
			return err
		}
		ev.StartDate = t
	}
	if changed("end") {
		t, err := parseTime("end", f.end)
		if err != nil {
			return err
		}
		ev.EndDate = t
	}
	if changed("repeat") {
		ev.RecurringPattern = models.ParseRecurringPattern(f.pattern)
	}
	if changed("calendar") {
		ev.CalendarID, ev.Calendar = calendarRef(d, f.calendar)
	}
	if changed("category") {
		ev.CategoryID, ev.Category = categoryRef(d, f.category)
	}
	return nil
}

func eventsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Manage events",
	}

	var calendarFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			events := d.Events().Events()
			if calendarFilter != "" {
				events = d.Events().EventsInCalendar(calendarFilter)
			}
			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				rows = append(rows, []string{
					ev.ID,
					models.FormatTimestamp(ev.StartDate),
					models.FormatTimestamp(ev.EndDate),
					string(ev.RecurringPattern),
					calendarName(ev.Calendar, ev.CalendarID),
					ev.Name,
				})
			}
			return app.render(events, []string{"ID", "START", "END", "REPEAT", "CALENDAR", "NAME"}, rows)
		},
	}
	list.Flags().StringVar(&calendarFilter, "calendar", "", "Only events of this calendar")

	var addFlags eventFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			var ev models.Event
			if err := addFlags.apply(cmd, d, &ev); err != nil {
				return err
			}
			created, err := d.Events().AddEvent(cmd.Context(), ev)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Created event %s\n", created.ID)
			return nil
		},
	}
	addFlags.register(add)

	var updateFlags eventFlags
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			ev, ok := d.Events().Event(args[0])
			if !ok {
				return fmt.Errorf("event %s not found", args[0])
			}
			if err := updateFlags.apply(cmd, d, &ev); err != nil {
				return err
			}
			if _, err := d.Events().UpdateEvent(cmd.Context(), ev); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Updated event %s\n", ev.ID)
			return nil
		},
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.Events().DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Deleted event %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, update, del, eventsImportCommand(app))
	return cmd
}

func parseTime(flag, value string) (time.Time, error) {
	t, ok := models.ParseTimestamp(value)
	if !ok {
		return time.Time{}, fmt.Errorf("--%s: cannot parse %q", flag, value)
	}
	return t, nil
}

// calendarRef returns the id and, when cached, the calendar it names.
func calendarRef(d *dashboard.Dashboard, id string) (string, *models.Calendar) {
	if c, ok := d.Calendars().Calendar(id); ok {
		return id, &c
	}
	return id, nil
}

// categoryRef returns the id and cached category; an empty id clears both.
func categoryRef(d *dashboard.Dashboard, id string) (*string, *models.Category) {
	if id == "" {
		return nil, nil
	}
	if c, ok := d.Categories().Category(id); ok {
		return models.StringPtr(id), &c
	}
	return models.StringPtr(id), nil
}

func calendarName(c *models.Calendar, id string) string {
	if c == nil {
		return id
	}
	if c.Emoji != nil {
		return *c.Emoji + " " + c.Name
	}
	return c.Name
}
