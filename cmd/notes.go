package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/SisyphusMD/wudwatch/internal/render"
)

var notesCmd = &cobra.Command{
	Use:   "notes <container>",
	Short: "Fetch release notes for a container's latest release",
	Long: `Resolves the container's release URL to the GitHub API and prints the
release body. Notes are best-effort: rate limits, non-GitHub URLs and
timeouts all come back as "no notes".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		format, _ := cmd.Flags().GetString("format")

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

		e := s.entityFor(name)
		notes, ok := e.ReleaseNotes(ctx)
		if !ok {
			pterm.Warning.Printf("No release notes available for %q (release URL: %s)\n", name, e.ReleaseURL())
			os.Exit(0)
		}

		if format != "" {
			out, err := render.ExecuteTemplate(format, map[string]interface{}{
				"Name":          name,
				"EntityName":    e.Name(),
				"LatestVersion": e.LatestVersion(),
				"ReleaseURL":    e.ReleaseURL(),
				"Notes":         notes,
			})
			if err != nil {
				pterm.Error.Printf("Template error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(out)
			return
		}

		fmt.Println(notes)
	},
}

func init() {
	notesCmd.Flags().String("format", "", "Go template rendered with the notes instead of the raw body")
	rootCmd.AddCommand(notesCmd)
}
