package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/planner-dashboard/backend/internal/dashboard"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

type taskFlags struct {
	name, description, start, end, status, pattern, calendar, category string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Task name")
	cmd.Flags().StringVar(&f.description, "description", "", "Task description")
	cmd.Flags().StringVar(&f.start, "start", "", "Start, e.g. 2024-01-01T09:00 (empty clears it)")
	cmd.Flags().StringVar(&f.end, "end", "", "Due, e.g. 2024-01-01T17:00 (empty clears it)")
	cmd.Flags().StringVar(&f.status, "status", "", "TODO, IN_PROGRESS or DONE")
	cmd.Flags().StringVar(&f.pattern, "repeat", "", "NONE, DAILY, WEEKLY, MONTHLY or YEARLY")
	cmd.Flags().StringVar(&f.calendar, "calendar", "", "Calendar ID")
	cmd.Flags().StringVar(&f.category, "category", "", "Category ID")
}

func (f *taskFlags) apply(cmd *cobra.Command, d *dashboard.Dashboard, t *models.Task) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		t.Name = f.name
	}
	if changed("description") {
		t.Description = optional(f.description)
	}
	if changed("start") {
		ts, err := optionalTime("start", f.start)
		if err != nil {
			return err
		}
		t.StartDate = ts
	}
	if changed("end") {
		ts, err := optionalTime("end", f.end)
		if err != nil {
			return err
		}
		t.EndDate = ts
	}
	if changed("status") {
		t.Status = models.ParseTaskStatus(f.status)
	}
	if changed("repeat") {
		t.RecurringPattern = ""
		if f.pattern != "" {
			t.RecurringPattern = models.ParseRecurringPattern(f.pattern)
		}
	}
	if changed("calendar") {
		t.CalendarID, t.Calendar = calendarRef(d, f.calendar)
	}
	if changed("category") {
		t.CategoryID, t.Category = categoryRef(d, f.category)
	}
	return nil
}

func tasksCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage tasks",
	}

	var statusFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			tasks := d.Tasks().Tasks()
			if statusFilter != "" {
				tasks = d.Tasks().TasksByStatus(models.ParseTaskStatus(statusFilter))
			}
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{
					t.ID,
					string(t.Status),
					deref(models.FormatTimestampPtr(t.EndDate)),
					calendarName(t.Calendar, t.CalendarID),
					t.Name,
				})
			}
			return app.render(tasks, []string{"ID", "STATUS", "DUE", "CALENDAR", "NAME"}, rows)
		},
	}
	list.Flags().StringVar(&statusFilter, "status", "", "Only tasks with this status")

	var addFlags taskFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			var t models.Task
			if err := addFlags.apply(cmd, d, &t); err != nil {
				return err
			}
			created, err := d.Tasks().AddTask(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Created task %s\n", created.ID)
			return nil
		},
	}
	addFlags.register(add)

	var updateFlags taskFlags
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			t, ok := d.Tasks().Task(args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := updateFlags.apply(cmd, d, &t); err != nil {
				return err
			}
			if _, err := d.Tasks().UpdateTask(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Updated task %s\n", t.ID)
			return nil
		},
	}
	updateFlags.register(update)

	done := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := d.Tasks().SetTaskStatus(cmd.Context(), args[0], models.TaskStatusDone); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Completed task %s\n", args[0])
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.Tasks().DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Deleted task %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, update, done, del)
	return cmd
}

func optionalTime(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseTime(flag, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
