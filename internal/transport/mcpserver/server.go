// Package mcpserver exposes the journal as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

const (
	serverName = "life-story"
	// DefaultListLimit caps list_events when no limit is given.
	DefaultListLimit = 50
)

// Server registers journal tools on an MCP server.
type Server struct {
	mcp     *server.MCPServer
	journal *handlers.JournalHandler
	links   *handlers.LinkHandler
	recall  *handlers.RecallHandler
	logger  *log.Logger
}

// NewServer builds the tool set. recall may be nil, in which case
// search_events is not registered.
func NewServer(version string, journal *handlers.JournalHandler, links *handlers.LinkHandler, recall *handlers.RecallHandler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Server{
		mcp:     server.NewMCPServer(serverName, version),
		journal: journal,
		links:   links,
		recall:  recall,
		logger:  logger,
	}
	s.registerTools()
	return s
}

// ServeStdio blocks serving MCP requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("Lists life events newest first, optionally filtered by type, year, tag or emotion."),
		mcp.WithString("type", mcp.Description("achievement, wish or event")),
		mcp.WithNumber("year", mcp.Description("Only events dated in this year")),
		mcp.WithString("tag", mcp.Description("Only events carrying this tag")),
		mcp.WithString("emotion", mcp.Description("Only events with this emotion (value or label)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of events to return")),
	), s.listEventsHandler)

	s.mcp.AddTool(mcp.NewTool("get_event",
		mcp.WithDescription("Returns one life event with its related events and backlinks."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Event ID")),
	), s.getEventHandler)

	s.mcp.AddTool(mcp.NewTool("add_event",
		mcp.WithDescription("Records a new life event."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short title")),
		mcp.WithString("description", mcp.Description("What happened")),
		mcp.WithString("type", mcp.Description("achievement, wish or event (default event)")),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD or RFC 3339 (default now)")),
		mcp.WithString("importance", mcp.Description("major, minor or normal (default normal)")),
		mcp.WithString("emotions", mcp.Description("Comma-separated emotion values or labels")),
		mcp.WithString("participants", mcp.Description("Comma-separated names")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("location", mcp.Description("Place name")),
	), s.addEventHandler)

	s.mcp.AddTool(mcp.NewTool("delete_event",
		mcp.WithDescription("Deletes a life event."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Event ID")),
	), s.deleteEventHandler)

	s.mcp.AddTool(mcp.NewTool("event_stats",
		mcp.WithDescription("Summarizes the journal: totals, recent activity, importance and emotion polarity."),
	), s.statsHandler)

	s.mcp.AddTool(mcp.NewTool("related_events",
		mcp.WithDescription("Lists the events linked from and to an event."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Event ID")),
	), s.relatedHandler)

	if s.recall != nil {
		s.mcp.AddTool(mcp.NewTool("search_events",
			mcp.WithDescription("Finds life events by meaning rather than exact words."),
			mcp.WithString("query", mcp.Required(), mcp.Description("What to look for")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
		), s.searchHandler)
	}
}

func (s *Server) listEventsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)

	filter := handlers.TimelineFilter{Limit: DefaultListLimit}
	if v := stringArg(args, "type"); v != "" {
		t := entities.EventType(strings.ToLower(v))
		if !t.IsValid() {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown event type: %s", v)), nil
		}
		filter.Type = t
	}
	if v := stringArg(args, "emotion"); v != "" {
		e, ok := entities.ParseEmotion(v)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown emotion: %s", v)), nil
		}
		filter.Emotion = e
	}
	filter.Year = intArg(args, "year", 0)
	filter.Tag = stringArg(args, "tag")
	filter.Limit = intArg(args, "limit", DefaultListLimit)

	result := s.journal.HandleTimeline(filter)
	return jsonResult(map[string]any{
		"events": handlers.NewEventViews(result.Events),
		"total":  result.Total,
	})
}

func (s *Server) getEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	id := stringArg(args, "id")
	if id == "" {
		return mcp.NewToolResultError("Event ID cannot be empty"), nil
	}

	ev, err := s.journal.HandleGet(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Event '%s' not found", id)), nil
	}
	return jsonResult(handlers.NewEventView(ev))
}

func (s *Server) addEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments"), nil
	}

	draft := entities.Draft{
		Title:        stringArg(args, "title"),
		Description:  stringArg(args, "description"),
		Type:         stringArg(args, "type"),
		Importance:   stringArg(args, "importance"),
		Emotions:     splitList(stringArg(args, "emotions")),
		Participants: stringArg(args, "participants"),
		Tags:         splitList(stringArg(args, "tags")),
	}
	if date := stringArg(args, "date"); date != "" {
		draft.Date = date
	}
	if name := stringArg(args, "location"); name != "" {
		draft.Location = &entities.LocationInput{Name: name}
	}

	ev, err := s.journal.HandleAdd(ctx, draft)
	if err != nil {
		var verr *entities.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(verr.Message), nil
		}
		s.logger.Printf("add_event failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event '%s' saved with ID %s.", ev.Title, ev.ID)), nil
}

func (s *Server) deleteEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	id := stringArg(args, "id")
	if id == "" {
		return mcp.NewToolResultError("Event ID cannot be empty"), nil
	}

	if err := s.journal.HandleDelete(ctx, id); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Event '%s' not found", id)), nil
		}
		s.logger.Printf("delete_event %s failed: %v", id, err)
		return mcp.NewToolResultError(fmt.Sprintf("Delete failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event '%s' deleted.", id)), nil
}

func (s *Server) statsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.journal.HandleStats())
}

func (s *Server) relatedHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	id := stringArg(args, "id")
	if id == "" {
		return mcp.NewToolResultError("Event ID cannot be empty"), nil
	}

	result, err := s.links.HandleList(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Event '%s' not found", id)), nil
	}
	return jsonResult(result)
}

func (s *Server) searchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	query := stringArg(args, "query")
	if query == "" {
		return mcp.NewToolResultError("Search query cannot be empty"), nil
	}

	result, err := s.recall.Handle(ctx, query, intArg(args, "limit", 0))
	if err != nil {
		s.logger.Printf("search_events failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// intArg reads a JSON number, which arrives as float64.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
