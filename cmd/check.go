package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/SisyphusMD/wudwatch/internal/wud"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify connectivity to the configured WUD instance",
	Long: `Performs the configuration-time connectivity probe: a single GET against
the containers endpoint with a 10 second bound. Exits non-zero when the
configuration should be rejected.`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := buildStack(cmd)
		if err != nil {
			pterm.Error.Printf("Configuration error: %v\n", err)
			os.Exit(1)
		}

		if err := s.wud.Probe(context.Background()); err != nil {
			var statusErr *wud.StatusError
			switch {
			case errors.As(err, &statusErr),
				errors.Is(err, wud.ErrCannotConnect),
				errors.Is(err, wud.ErrTimeout):
				pterm.Error.Printf("Cannot connect to WUD at %s: %v\n", s.wud.URL(), err)
			default:
				pterm.Error.Printf("Unknown error probing WUD: %v\n", err)
			}
			os.Exit(1)
		}

		pterm.Success.Printf("Connected to WUD instance %q at %s\n", s.cfg.Name, s.wud.URL())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
