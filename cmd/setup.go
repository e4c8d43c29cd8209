package cmd

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/SisyphusMD/wudwatch/internal/config"
	"github.com/SisyphusMD/wudwatch/internal/coordinator"
	"github.com/SisyphusMD/wudwatch/internal/entity"
	"github.com/SisyphusMD/wudwatch/internal/github"
	"github.com/SisyphusMD/wudwatch/internal/wud"
)

// stack bundles the components every command wires up the same way: one
// shared HTTP client, the WUD client, the coordinator and the notes client.
type stack struct {
	cfg   *config.Config
	wud   *wud.Client
	coord *coordinator.Coordinator
	notes *github.Client
}

func buildStack(cmd *cobra.Command) (*stack, error) {
	cfgFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	httpClient := &http.Client{}

	client := wud.NewClient(cfg.ContainersURL(), cfg.Username, cfg.Password, httpClient, logger)

	return &stack{
		cfg:   cfg,
		wud:   client,
		coord: coordinator.New(client, cfg.Name, cfg.Interval.Std(), logger),
		notes: github.NewClient(httpClient, cfg.GithubToken, logger),
	}, nil
}

// entityFor projects one container name through the stack's coordinator.
func (s *stack) entityFor(name string) *entity.Entity {
	return entity.New(s.coord, s.wud, s.notes, name, slog.Default())
}

// entitySet builds the fixed entity set from the current snapshot's keys.
func (s *stack) entitySet() map[string]*entity.Entity {
	entities := make(map[string]*entity.Entity)
	for name := range s.coord.Data() {
		entities[name] = s.entityFor(name)
	}
	return entities
}
