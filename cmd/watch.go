package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/SisyphusMD/wudwatch/internal/server"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll WUD continuously (daemon mode)",
	Long: `Runs the refresh cycle on its interval until interrupted. With --listen,
also serves the projected entities over a REST API.`,
	Run: func(cmd *cobra.Command, args []string) {
		listenAddr, _ := cmd.Flags().GetString("listen")

		// Run until Ctrl+C.
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		s, err := buildStack(cmd)
		if err != nil {
			fmt.Printf("Configuration error: %v\n", err)
			os.Exit(1)
		}

		// Eager first refresh. Failing here is a setup failure: no entities
		// get created from a snapshot we never saw.
		if err := s.coord.Refresh(ctx); err != nil {
			fmt.Printf("Failed to retrieve data from WUD at startup: %v\n", err)
			os.Exit(1)
		}

		// The entity set is fixed from the first successful snapshot.
		// Containers added to WUD later need a restart to show up.
		entities := s.entitySet()
		slog.Info("watch started", "instance", s.cfg.Name, "entities", len(entities), "interval", s.cfg.Interval.Std())

		s.coord.AddListener(func() {
			updates := 0
			for name := range entities {
				if record, ok := s.coord.Get(name); ok && record.UpdateAvailable {
					updates++
				}
			}
			slog.Debug("snapshot updated", "entities", len(entities), "updates_available", updates)
		})

		var api *server.Server
		if listenAddr != "" {
			api = server.New(s.coord, entities, slog.Default())
			go func() {
				if err := api.Listen(listenAddr); err != nil {
					slog.Error("entity API stopped", "error", err)
					cancel()
				}
			}()
		}

		s.coord.Start(ctx)

		if api != nil {
			if err := api.Shutdown(); err != nil {
				slog.Error("error shutting down entity API", "error", err)
			}
		}
	},
}

func init() {
	watchCmd.Flags().String("listen", "", "address to serve the entity API on (e.g. :8080); empty disables")
	rootCmd.AddCommand(watchCmd)
}
