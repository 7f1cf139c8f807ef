package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	capsuledto "github.com/Ashutosh26l/samay-capsule/internal/capsule/dto"
	"github.com/Ashutosh26l/samay-capsule/internal/capsule/usecase"
)

// ProcessAIHandler exposes capsule enrichment as a standalone endpoint meant
// to be callable from any front-end origin, hence its own permissive CORS
// handling. It authenticates with a shared service token, not a user session.
type ProcessAIHandler struct {
	enrichUsecase usecase.EnrichUsecase
	serviceToken  string
	aiConfigured  bool
}

func NewProcessAIHandler(enrichUsecase usecase.EnrichUsecase, serviceToken string, aiConfigured bool) *ProcessAIHandler {
	return &ProcessAIHandler{
		enrichUsecase: enrichUsecase,
		serviceToken:  serviceToken,
		aiConfigured:  aiConfigured,
	}
}

func corsHeaders(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// Handle serves every verb on the process-ai path: OPTIONS preflight, POST
// submissions, 405 for the rest.
func (h *ProcessAIHandler) Handle(c *gin.Context) {
	corsHeaders(c)

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
	case http.MethodPost:
		h.process(c)
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	}
}

func (h *ProcessAIHandler) process(c *gin.Context) {
	if h.serviceToken != "" {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") || strings.TrimPrefix(authHeader, "Bearer ") != h.serviceToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid service credential"})
			return
		}
	}

	var req capsuledto.ProcessAIRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CapsuleID == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	// An unconfigured AI backend is our misconfiguration, not the client's.
	if !h.aiConfigured {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI API key not configured"})
		return
	}

	summary, futureReply, err := h.enrichUsecase.Process(c.Request.Context(), req.CapsuleID, req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process capsule with AI",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, capsuledto.ProcessAIResponse{
		Success:       true,
		AISummary:     summary,
		AIFutureReply: futureReply,
	})
}
