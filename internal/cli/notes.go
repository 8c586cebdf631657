package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

func notesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Manage notes",
	}

	var name, description, calendar, category string
	setFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&name, "name", "", "Note title")
		c.Flags().StringVar(&description, "text", "", "Note text")
		c.Flags().StringVar(&calendar, "calendar", "", "Calendar ID")
		c.Flags().StringVar(&category, "category", "", "Category ID")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			notes := d.Notes().Notes()
			rows := make([][]string, 0, len(notes))
			for _, n := range notes {
				rows = append(rows, []string{n.ID, calendarName(n.Calendar, n.CalendarID), n.Name, n.Description})
			}
			return app.render(notes, []string{"ID", "CALENDAR", "TITLE", "TEXT"}, rows)
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			n := models.Note{Name: name, Description: description}
			n.CalendarID, n.Calendar = calendarRef(d, calendar)
			n.CategoryID, n.Category = categoryRef(d, category)

			created, err := d.Notes().AddNote(cmd.Context(), n)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Created note %s\n", created.ID)
			return nil
		},
	}
	setFlags(add)

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			n, ok := d.Notes().Note(args[0])
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			changed := cmd.Flags().Changed
			if changed("name") {
				n.Name = name
			}
			if changed("text") {
				n.Description = description
			}
			if changed("calendar") {
				n.CalendarID, n.Calendar = calendarRef(d, calendar)
			}
			if changed("category") {
				n.CategoryID, n.Category = categoryRef(d, category)
			}
			if _, err := d.Notes().UpdateNote(cmd.Context(), n); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Updated note %s\n", n.ID)
			return nil
		},
	}
	setFlags(update)

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.Notes().DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Deleted note %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}
