package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/SisyphusMD/wudwatch/internal/consts"
	"github.com/SisyphusMD/wudwatch/internal/render"
	"github.com/SisyphusMD/wudwatch/internal/state"
	"github.com/SisyphusMD/wudwatch/internal/wud"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the update status of all monitored containers",
	Long: `Fetches the container list from WUD once and prints each container's
installed and latest version. --filter narrows the rows with an expression,
--format renders each row through a template, --diff shows what changed
since the last saved run.`,
	Run: func(cmd *cobra.Command, args []string) {
		filterExpr, _ := cmd.Flags().GetString("filter")
		format, _ := cmd.Flags().GetString("format")
		showDiff, _ := cmd.Flags().GetBool("diff")

		s, err := buildStack(cmd)
		if err != nil {
			fmt.Printf("Configuration error: %v\n", err)
			os.Exit(1)
		}

		// Compile the filter before touching the network.
		var program *vm.Program
		if filterExpr != "" {
			program, err = render.CompileFilter(filterExpr)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
		}

		ctx := context.Background()
		if err := s.coord.Refresh(ctx); err != nil {
			fmt.Printf("Could not fetch containers from WUD: %v\n", err)
			os.Exit(1)
		}

		containers := sortedContainers(s.coord.Data())

		if program != nil {
			containers, err = render.Filter(containers, program)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
		}

		if format != "" {
			printFormatted(s, containers, format)
		} else {
			printTable(s, containers)
		}

		// Persist the run so the next --diff has a baseline.
		mgr, err := state.NewManager(consts.GetStateFilePath())
		if err != nil {
			fmt.Printf("Could not load state file: %v\n", err)
			os.Exit(1)
		}

		if showDiff {
			previous := summarize(mgr.Current)
			current := summarizeContainers(s.cfg.Name, s.coord)
			if previous == current {
				fmt.Println("No changes since last run.")
			} else {
				fmt.Print(render.GenerateDiff(previous, current))
			}
		}

		mgr.Replace(snapshotFrom(s.cfg.Name, s.coord))
		if err := mgr.Save(); err != nil {
			fmt.Printf("Could not save state file: %v\n", err)
			os.Exit(1)
		}
	},
}

func sortedContainers(data map[string]wud.Container) []wud.Container {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	containers := make([]wud.Container, 0, len(names))
	for _, name := range names {
		containers = append(containers, data[name])
	}
	return containers
}

func printTable(s *stack, containers []wud.Container) {
	fmt.Printf("📦 WUD Status: %s (%s)\n\n", s.cfg.Name, time.Now().Format(time.RFC822))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tINSTALLED\tLATEST\tUPDATE\tRELEASE URL")
	fmt.Fprintln(w, "----\t---------\t------\t------\t-----------")

	for _, c := range containers {
		e := s.entityFor(c.Name)
		updateIcon := "✅ up to date"
		if c.UpdateAvailable {
			updateIcon = "⬆️ available"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.Name,
			e.InstalledVersion(),
			e.LatestVersion(),
			updateIcon,
			e.ReleaseURL(),
		)
	}
	w.Flush()
}

func printFormatted(s *stack, containers []wud.Container, format string) {
	for _, c := range containers {
		e := s.entityFor(c.Name)
		out, err := render.ExecuteTemplate(format, map[string]interface{}{
			"Name":             c.Name,
			"EntityName":       e.Name(),
			"UniqueID":         e.UniqueID(),
			"InstalledVersion": e.InstalledVersion(),
			"LatestVersion":    e.LatestVersion(),
			"ReleaseURL":       e.ReleaseURL(),
			"UpdateAvailable":  c.UpdateAvailable,
			"Watcher":          c.Watcher,
		})
		if err != nil {
			fmt.Printf("Template error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
	}
}

func init() {
	statusCmd.Flags().String("filter", "", `expression to filter containers, e.g. 'updateAvailable'`)
	statusCmd.Flags().String("format", "", "Go template rendered per container instead of the table")
	statusCmd.Flags().Bool("diff", false, "show changes since the previously saved run")
	rootCmd.AddCommand(statusCmd)
}
