package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shahriar404/newsblog/backend/internal/ai"
)

// AIHandler handles AI-assist HTTP requests
type AIHandler struct {
	aiService *ai.Service
}

// NewAIHandler creates a new AIHandler. aiService may be nil when no API key
// is configured.
func NewAIHandler(aiService *ai.Service) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// RegisterAIRoutes registers AI routes
func (h *AIHandler) RegisterAIRoutes(g *echo.Group) {
	g.POST("/ask", h.Ask)
}

// AskRequest defines the request body for the AI assistant
type AskRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=4000"`
}

// Ask forwards a prompt to the model and returns the generated answer
func (h *AIHandler) Ask(c echo.Context) error {
	if h.aiService == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "AI assistant is not configured")
	}

	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	answer, err := h.aiService.Ask(c.Request().Context(), req.Prompt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate a response")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "answer": answer})
}
