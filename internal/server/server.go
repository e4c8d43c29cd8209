// Package server exposes the projected entities over a small REST API so a
// home-automation platform can consume them.
package server

import (
	"log/slog"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SisyphusMD/wudwatch/internal/coordinator"
	"github.com/SisyphusMD/wudwatch/internal/entity"
)

// EntityState is the wire form of one projected entity.
type EntityState struct {
	Name             string `json:"name"`
	UniqueID         string `json:"unique_id"`
	InstalledVersion string `json:"installed_version"`
	LatestVersion    string `json:"latest_version"`
	ReleaseURL       string `json:"release_url,omitempty"`
	UpdateAvailable  bool   `json:"update_available"`
	Available        bool   `json:"available"`
	InProgress       bool   `json:"in_progress"`
}

// Server serves the entity set over HTTP. The set is fixed at construction
// from the first successful snapshot; containers appearing later need a
// restart.
type Server struct {
	app      *fiber.App
	coord    *coordinator.Coordinator
	entities map[string]*entity.Entity
	logger   *slog.Logger
}

// New wires the routes for a fixed entity set.
func New(coord *coordinator.Coordinator, entities map[string]*entity.Entity, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		app:      fiber.New(),
		coord:    coord,
		entities: entities,
		logger:   logger,
	}

	api := s.app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/health", s.health)

	ents := v1.Group("/entities")
	ents.Get("/", s.listEntities)
	ents.Get("/:name", s.getEntity)
	ents.Post("/:name/install", s.installEntity)
	ents.Get("/:name/notes", s.entityNotes)

	return s
}

// Listen blocks serving the API on addr.
func (s *Server) Listen(addr string) error {
	s.logger.Info("entity API listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"instance":            s.coord.Instance(),
		"last_update_success": s.coord.LastUpdateSuccess(),
		"last_success":        s.coord.LastSuccess(),
		"run_id":              s.coord.RunID(),
		"entities":            len(s.entities),
	})
}

func (s *Server) listEntities(c *fiber.Ctx) error {
	names := make([]string, 0, len(s.entities))
	for name := range s.entities {
		names = append(names, name)
	}
	sort.Strings(names)

	states := make([]EntityState, 0, len(names))
	for _, name := range names {
		states = append(states, project(s.entities[name]))
	}
	return c.JSON(states)
}

func (s *Server) getEntity(c *fiber.Ctx) error {
	e, ok := s.entities[c.Params("name")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown entity",
		})
	}
	return c.JSON(project(e))
}

func (s *Server) installEntity(c *fiber.Ctx) error {
	e, ok := s.entities[c.Params("name")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown entity",
		})
	}

	// Fire-and-forget: outcome is in the logs, the next refresh reflects
	// whatever the trigger did.
	e.Install(c.Context())

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"dispatched": true,
	})
}

func (s *Server) entityNotes(c *fiber.Ctx) error {
	e, ok := s.entities[c.Params("name")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown entity",
		})
	}

	notes, ok := e.ReleaseNotes(c.Context())
	if !ok {
		return c.JSON(fiber.Map{"notes": nil})
	}
	return c.JSON(fiber.Map{"notes": notes})
}

func project(e *entity.Entity) EntityState {
	return EntityState{
		Name:             e.Name(),
		UniqueID:         e.UniqueID(),
		InstalledVersion: e.InstalledVersion(),
		LatestVersion:    e.LatestVersion(),
		ReleaseURL:       e.ReleaseURL(),
		UpdateAvailable:  e.UpdateAvailable(),
		Available:        e.Available(),
		InProgress:       e.InProgress(),
	}
}
