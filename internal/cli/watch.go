package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/planner-dashboard/backend/internal/dashboard"
	"github.com/planner-dashboard/backend/internal/store"
)

func watchCommand(app *App) *cobra.Command {
	var spec string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload on a schedule and print every cache change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			unsubscribe := d.Store().Subscribe(func(c store.Change) {
				if c.Op == store.OpReset {
					fmt.Fprintf(app.Out, "%s v%d %s %s\n", time.Now().Format(time.TimeOnly), c.Version, c.Op, c.Resource)
					return
				}
				fmt.Fprintf(app.Out, "%s v%d %s %s/%s\n", time.Now().Format(time.TimeOnly), c.Version, c.Op, c.Resource, c.ID)
			})
			defer unsubscribe()

			refresher, err := dashboard.NewRefresher(d, spec, timeout)
			if err != nil {
				return err
			}
			refresher.Start()
			defer refresher.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "every", dashboard.DefaultRefreshSpec, "Cron spec for reloads, e.g. \"@every 30s\"")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Timeout for a single reload")
	return cmd
}
