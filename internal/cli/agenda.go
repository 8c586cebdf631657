package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

type agendaEntry struct {
	Kind  string    `json:"kind"`
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func agendaCommand(app *App) *cobra.Command {
	var fromFlag, toFlag string
	var days int

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show event occurrences and scheduled tasks in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			if fromFlag != "" {
				t, err := parseTime("from", fromFlag)
				if err != nil {
					return err
				}
				from = t
			}
			to := from.AddDate(0, 0, days)
			if toFlag != "" {
				t, err := parseTime("to", toFlag)
				if err != nil {
					return err
				}
				to = t
			}

			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			occurrences, err := d.Agenda(from, to)
			if err != nil {
				return err
			}

			entries := make([]agendaEntry, 0, len(occurrences))
			for _, o := range occurrences {
				entries = append(entries, agendaEntry{Kind: "event", ID: o.Event.ID, Name: o.Event.Name, Start: o.Start, End: o.End})
			}
			for _, t := range d.Tasks().ScheduledBetween(from, to) {
				e := agendaEntry{Kind: "task", ID: t.ID, Name: t.Name + " [" + string(t.Status) + "]"}
				if t.StartDate != nil {
					e.Start = *t.StartDate
				}
				if t.EndDate != nil {
					e.End = *t.EndDate
				}
				entries = append(entries, e)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{models.FormatTimestamp(e.Start), models.FormatTimestamp(e.End), e.Kind, e.Name})
			}
			return app.render(entries, []string{"START", "END", "KIND", "NAME"}, rows)
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Range start (default: today)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Range end (overrides --days)")
	cmd.Flags().IntVar(&days, "days", 7, "Range length in days")
	return cmd
}
