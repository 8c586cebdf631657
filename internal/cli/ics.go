package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/planner-dashboard/backend/internal/calendar"
)

func eventsImportCommand(app *App) *cobra.Command {
	var calendarID, url, file, from string
	var days int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import events from an ICS feed or file into a calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (url == "") == (file == "") {
				return errors.New("exactly one of --url or --file is required")
			}

			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			cal, ok := d.Calendars().Calendar(calendarID)
			if !ok {
				return fmt.Errorf("calendar %s not found", calendarID)
			}

			start := time.Now().UTC().Truncate(24 * time.Hour)
			if from != "" {
				if start, err = parseTime("from", from); err != nil {
					return err
				}
			}
			end := start.AddDate(0, 0, days)

			im := calendar.NewImporter(d.Events(), app.Log)
			var result *calendar.ImportResult
			if url != "" {
				result, err = im.ImportURL(cmd.Context(), cal, url, start, end)
			} else {
				var f *os.File
				if f, err = os.Open(file); err != nil {
					return fmt.Errorf("opening %s: %w", file, err)
				}
				defer f.Close()

				var events []calendar.FeedEvent
				if events, err = calendar.NewParser().Parse(f); err != nil {
					return err
				}
				result, err = im.Import(cmd.Context(), cal, calendar.FilterByDateRange(events, start, end))
			}
			if err != nil {
				return err
			}

			if app.JSON {
				return app.render(result, nil, nil)
			}
			fmt.Fprintf(app.Out, "Imported %d events into %s: %d created, %d updated, %d unchanged, %d failed\n",
				result.Found, cal.Name, result.Created, result.Updated, result.Unchanged, result.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarID, "calendar", "", "Target calendar ID")
	cmd.Flags().StringVar(&url, "url", "", "ICS feed URL")
	cmd.Flags().StringVar(&file, "file", "", "ICS file path")
	cmd.Flags().StringVar(&from, "from", "", "Window start, e.g. 2024-01-01T00:00 (default today)")
	cmd.Flags().IntVar(&days, "days", 90, "Window length in days")
	_ = cmd.MarkFlagRequired("calendar")
	return cmd
}

func calendarsExportCommand(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a calendar and its events as ICS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			cal, ok := d.Calendars().Calendar(args[0])
			if !ok {
				return fmt.Errorf("calendar %s not found", args[0])
			}

			doc := calendar.Export(cal, d.Events().EventsInCalendar(cal.ID), time.Now())
			if out == "" {
				_, err = fmt.Fprint(app.Out, doc)
				return err
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(app.Out, "Exported %s to %s\n", cal.Name, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
