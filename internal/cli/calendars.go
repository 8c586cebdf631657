package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

func calendarsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendars",
		Aliases: []string{"calendar", "cal"},
		Short:   "Manage calendars",
	}

	var name, emoji string

	list := &cobra.Command{
		Use:   "list",
		Short: "List calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			cals := d.Calendars().Calendars()
			rows := make([][]string, 0, len(cals))
			for _, c := range cals {
				rows = append(rows, []string{c.ID, deref(c.Emoji), c.Name})
			}
			return app.render(cals, []string{"ID", "EMOJI", "NAME"}, rows)
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			c := models.Calendar{Name: name}
			if emoji != "" {
				c.Emoji = models.StringPtr(emoji)
			}
			created, err := d.Calendars().AddCalendar(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Created calendar %s\n", created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Calendar name")
	add.Flags().StringVar(&emoji, "emoji", "", "Calendar emoji")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			c, ok := d.Calendars().Calendar(args[0])
			if !ok {
				return fmt.Errorf("calendar %s not found", args[0])
			}
			if cmd.Flags().Changed("name") {
				c.Name = name
			}
			if cmd.Flags().Changed("emoji") {
				c.Emoji = optional(emoji)
			}
			if _, err := d.Calendars().UpdateCalendar(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Updated calendar %s\n", c.ID)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "Calendar name")
	update.Flags().StringVar(&emoji, "emoji", "", "Calendar emoji (empty clears it)")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a calendar with its events, tasks and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.Calendars().DeleteCalendar(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Deleted calendar %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, update, del, calendarsExportCommand(app))
	return cmd
}

func categoriesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage categories",
	}

	var name, color string

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			cats := d.Categories().Categories()
			rows := make([][]string, 0, len(cats))
			for _, c := range cats {
				rows = append(rows, []string{c.ID, c.Color, c.Name})
			}
			return app.render(cats, []string{"ID", "COLOR", "NAME"}, rows)
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			created, err := d.Categories().AddCategory(cmd.Context(), models.Category{Name: name, Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Created category %s\n", created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Category name")
	add.Flags().StringVar(&color, "color", "", "Category color, e.g. #ff8800")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			c, ok := d.Categories().Category(args[0])
			if !ok {
				return fmt.Errorf("category %s not found", args[0])
			}
			if cmd.Flags().Changed("name") {
				c.Name = name
			}
			if cmd.Flags().Changed("color") {
				c.Color = color
			}
			if _, err := d.Categories().UpdateCategory(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Updated category %s\n", c.ID)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "Category name")
	update.Flags().StringVar(&color, "color", "", "Category color")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.Categories().DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Deleted category %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}

// optional maps an empty flag value to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return models.StringPtr(s)
}
