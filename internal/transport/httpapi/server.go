// Package httpapi serves the journal over a local JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8787"

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
	// Logger receives access logs and lifecycle messages. nil discards them.
	Logger *log.Logger
}

// Server exposes the Fiber application.
type Server struct {
	app      *fiber.App
	cfg      Config
	journal  *handlers.JournalHandler
	links    *handlers.LinkHandler
	emotions *handlers.EmotionHandler
	recall   *handlers.RecallHandler
}

// NewServer wires handlers and middleware. recall may be nil, in which case
// /api/v1/search answers 503.
func NewServer(cfg Config, journal *handlers.JournalHandler, links *handlers.LinkHandler, recall *handlers.RecallHandler) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		// route params are stored on events, so they must not alias request buffers
		Immutable:             true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
		Output: cfg.Logger.Writer(),
	}))
	app.Use(cors.New())

	srv := &Server{
		app:      app,
		cfg:      cfg,
		journal:  journal,
		links:    links,
		emotions: handlers.NewEmotionHandler(),
		recall:   recall,
	}
	srv.registerRoutes()
	return srv
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	s.cfg.Logger.Printf("journal API listening on %s", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1")
	api.Get("/events", s.handleListEvents)
	api.Post("/events", s.handleCreateEvent)
	api.Get("/events/:id", s.handleGetEvent)
	api.Patch("/events/:id", s.handleUpdateEvent)
	api.Delete("/events/:id", s.handleDeleteEvent)
	api.Post("/events/:id/emotions/:emotion", s.handleToggleEmotion)
	api.Get("/events/:id/related", s.handleRelated)
	api.Put("/events/:id/related/:target", s.handleLink)
	api.Delete("/events/:id/related/:target", s.handleUnlink)
	api.Get("/stats", s.handleStats)
	api.Get("/emotions", s.handleEmotions)
	api.Get("/search", s.handleSearch)
}

func (s *Server) handleListEvents(c *fiber.Ctx) error {
	filter := handlers.TimelineFilter{
		Year:  c.QueryInt("year", 0),
		Tag:   strings.TrimSpace(c.Query("tag")),
		Limit: c.QueryInt("limit", 0),
	}
	if v := c.Query("type"); v != "" {
		t := entities.EventType(strings.ToLower(v))
		if !t.IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown event type: %s", v))
		}
		filter.Type = t
	}
	if v := c.Query("emotion"); v != "" {
		e, ok := entities.ParseEmotion(v)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown emotion: %s", v))
		}
		filter.Emotion = e
	}

	result := s.journal.HandleTimeline(filter)
	items := handlers.NewEventViews(result.Events)
	return c.JSON(fiber.Map{
		"data": items,
		"meta": fiber.Map{"count": len(items), "total": result.Total},
	})
}

func (s *Server) handleCreateEvent(c *fiber.Ctx) error {
	var payload handlers.EventInput
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ev, err := s.journal.HandleAdd(c.UserContext(), payload.Draft())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ev})
}

func (s *Server) handleGetEvent(c *fiber.Ctx) error {
	ev, err := s.journal.HandleGet(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": handlers.NewEventView(ev)})
}

func (s *Server) handleUpdateEvent(c *fiber.Ctx) error {
	var payload handlers.EventInput
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ev, err := s.journal.HandleEdit(c.UserContext(), c.Params("id"), payload.Apply)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ev})
}

func (s *Server) handleDeleteEvent(c *fiber.Ctx) error {
	if err := s.journal.HandleDelete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleToggleEmotion(c *fiber.Ctx) error {
	ev, err := s.journal.HandleToggleEmotion(c.UserContext(), c.Params("id"), c.Params("emotion"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ev})
}

func (s *Server) handleRelated(c *fiber.Ctx) error {
	result, err := s.links.HandleList(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

func (s *Server) handleLink(c *fiber.Ctx) error {
	ev, err := s.links.HandleLink(c.UserContext(), c.Params("id"), c.Params("target"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ev})
}

func (s *Server) handleUnlink(c *fiber.Ctx) error {
	ev, err := s.links.HandleUnlink(c.UserContext(), c.Params("id"), c.Params("target"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ev})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": s.journal.HandleStats()})
}

func (s *Server) handleEmotions(c *fiber.Ctx) error {
	groups := s.emotions.HandleList()
	return c.JSON(fiber.Map{"data": groups, "meta": fiber.Map{"count": len(entities.EmotionOptions)}})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	if s.recall == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "recall is not configured")
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	result, err := s.recall.Handle(c.UserContext(), query, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result.Hits, "meta": fiber.Map{"count": len(result.Hits), "query": result.Query}})
}

// errorHandler maps domain errors to status codes and renders every error as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	var fe *fiber.Error
	var verr *entities.ValidationError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		body["error"] = fe.Message
	case errors.As(err, &verr):
		code = fiber.StatusBadRequest
		body["code"] = verr.Code
		body["field"] = verr.Field
	case errors.Is(err, services.ErrEventNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, handlers.ErrSelfLink):
		code = fiber.StatusBadRequest
	case errors.Is(err, services.ErrWriteInProgress):
		code = fiber.StatusConflict
	}
	return c.Status(code).JSON(body)
}
