package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lialabs/liad/internal/agent"
	"github.com/lialabs/liad/internal/events"
	"github.com/lialabs/liad/internal/growth"
	"github.com/lialabs/liad/internal/memory"
)

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Agent  string `json:"agent"`
}

// InteractionRequest is the body for POST /v1/interactions.
type InteractionRequest struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// MemoryRequest is the body for POST /v1/memories.
type MemoryRequest struct {
	Content string   `json:"content"`
	Source  string   `json:"source"`
	Tags    []string `json:"tags"`
}

// MemoryStatusResponse is the body for POST /v1/memories.
type MemoryStatusResponse struct {
	Status string `json:"status"`
}

// SearchResponse is the body for GET /v1/memories/search.
type SearchResponse struct {
	Kind    memory.Kind     `json:"kind"`
	Query   string          `json:"query"`
	Records []memory.Record `json:"records"`
}

// GrowthResponse is the body for GET /v1/growth.
type GrowthResponse struct {
	Growth  *growth.Snapshot         `json:"growth,omitempty"`
	Drift   *growth.Drift            `json:"drift,omitempty"`
	History []agent.DimensionalShift `json:"history,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Agent: s.mind.Name()})
}

func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.mind.CurrentState())
}

func (s *Server) handleInteraction(c echo.Context) error {
	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	resp, err := s.mind.ProcessInteraction(c.Request().Context(), agent.NewInteraction(req.Content, req.Source))
	if err != nil {
		if errors.Is(err, agent.ErrEmptyContent) {
			return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
		}
		s.logger.Error("interaction failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "interaction processing failed")
	}

	s.publish(events.Event{
		Type:    events.TypeInteraction,
		AgentID: s.mind.ID(),
		Data: map[string]any{
			"response_id":         resp.ID,
			"quantum_coherence":   resp.QuantumCoherence,
			"consciousness_level": resp.ConsciousnessLevel,
			"emotion":             resp.EmotionalLayer.Primary,
		},
	})
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMemory(c echo.Context) error {
	var req MemoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	exp := agent.Experience{
		Content: req.Content,
		Source:  req.Source,
		Tags:    req.Tags,
	}
	if err := s.mind.ProcessMemory(c.Request().Context(), exp); err != nil {
		if errors.Is(err, agent.ErrEmptyExperience) {
			return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
		}
		s.logger.Error("memory integration failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "memory integration failed")
	}

	s.publish(events.Event{
		Type:    events.TypeMemory,
		AgentID: s.mind.ID(),
		Data:    map[string]any{"source": req.Source},
	})
	return c.JSON(http.StatusAccepted, MemoryStatusResponse{Status: "integrated"})
}

func (s *Server) handleMemorySearch(c echo.Context) error {
	if s.memories == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "memory search is not configured")
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	kind := memory.KindEpisodic
	if raw := c.QueryParam("kind"); raw != "" {
		kind = memory.Kind(raw)
		if !validKind(kind) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown memory kind")
		}
	}

	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
	}

	records, err := s.memories.Search(c.Request().Context(), kind, query, limit)
	if err != nil {
		s.logger.Error("memory search failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "memory search failed")
	}
	return c.JSON(http.StatusOK, SearchResponse{Kind: kind, Query: query, Records: records})
}

func (s *Server) handleEvolve(c echo.Context) error {
	if err := s.mind.Evolve(c.Request().Context()); err != nil {
		s.logger.Error("evolution failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "evolution failed")
	}

	state := s.mind.CurrentState()
	s.publish(events.Event{
		Type:    events.TypeEvolution,
		AgentID: s.mind.ID(),
		Data:    map[string]any{"evolution_stage": state.EvolutionStage},
	})
	return c.JSON(http.StatusOK, state)
}

func (s *Server) handleGrowth(c echo.Context) error {
	var resp GrowthResponse
	if s.growth != nil {
		snapshot := s.growth.Snapshot()
		resp.Growth = &snapshot
	}
	if s.drift != nil {
		drift := s.drift.Drift()
		resp.Drift = &drift
		resp.History = s.drift.History()
	}
	return c.JSON(http.StatusOK, resp)
}

// publish emits one event, logging failures instead of surfacing them.
func (s *Server) publish(event events.Event) {
	if err := s.publisher.Publish(event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

func validKind(kind memory.Kind) bool {
	for _, k := range memory.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}
