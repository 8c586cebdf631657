package cli

import (
	"github.com/spf13/cobra"
)

// RootCommand creates the dashboard command tree.
func RootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Planner dashboard client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "YAML endpoint routing file")
	rootCmd.PersistentFlags().StringVar(&app.DataDir, "data", app.DataDir, "Directory holding the local token store")
	rootCmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(
		loginCommand(app),
		registerCommand(app),
		logoutCommand(app),
		reloadCommand(app),
		calendarsCommand(app),
		categoriesCommand(app),
		eventsCommand(app),
		tasksCommand(app),
		notesCommand(app),
		agendaCommand(app),
		watchCommand(app),
	)

	return rootCmd
}

func reloadCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Fetch every resource and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			sum := d.Summary()
			rows := [][]string{}
			for _, name := range d.Store().Resources() {
				rows = append(rows, []string{name, itoa(sum.Counts[name])})
			}
			return app.render(sum, []string{"RESOURCE", "COUNT"}, rows)
		},
	}
}
