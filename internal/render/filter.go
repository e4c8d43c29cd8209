package render

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/SisyphusMD/wudwatch/internal/wud"
)

// Env is the variable set a filter expression sees, one container at a time.
type Env struct {
	Name             string            `expr:"name"`
	ID               string            `expr:"id"`
	Watcher          string            `expr:"watcher"`
	Status           string            `expr:"status"`
	UpdateAvailable  bool              `expr:"updateAvailable"`
	InstalledVersion string            `expr:"installedVersion"`
	LatestVersion    string            `expr:"latestVersion"`
	Labels           map[string]string `expr:"labels"`
}

func envFor(c wud.Container) Env {
	return Env{
		Name:             c.Name,
		ID:               c.ID,
		Watcher:          c.Watcher,
		Status:           c.Status,
		UpdateAvailable:  c.UpdateAvailable,
		InstalledVersion: c.InstalledVersion(),
		LatestVersion:    c.LatestVersion(),
		Labels:           c.Labels,
	}
}

// CompileFilter compiles a boolean filter expression, e.g.
// `updateAvailable && name startsWith "web"`. Type errors surface here,
// before any row is evaluated.
func CompileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// Filter returns the containers matching a compiled filter, preserving
// input order.
func Filter(containers []wud.Container, program *vm.Program) ([]wud.Container, error) {
	var matched []wud.Container
	for _, c := range containers {
		out, err := expr.Run(program, envFor(c))
		if err != nil {
			return nil, fmt.Errorf("filter evaluation failed for %q: %w", c.Name, err)
		}
		if keep, ok := out.(bool); ok && keep {
			matched = append(matched, c)
		}
	}
	return matched, nil
}
