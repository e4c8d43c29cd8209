package cmd

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <container>",
	Short: "Ask WUD to run a container's update trigger",
	Long: `Dispatches the update trigger named by the container's wud.trigger.hass
label. The request is fire-and-forget: WUD performs the update and the next
refresh reflects the result.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		s, err := buildStack(cmd)
		if err != nil {
			pterm.Error.Printf("Configuration error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		if err := s.coord.Refresh(ctx); err != nil {
			pterm.Error.Printf("Could not fetch containers from WUD: %v\n", err)
			os.Exit(1)
		}

		if _, ok := s.coord.Get(name); !ok {
			pterm.Error.Printf("Container %q is not monitored by this WUD instance\n", name)
			os.Exit(1)
		}

		// Outcome beyond this point lives in the logs (run with -v).
		s.entityFor(name).Install(ctx)

		pterm.Info.Printf("Update trigger dispatched for %q; WUD applies it asynchronously\n", name)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
