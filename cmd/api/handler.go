package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	authrepo "github.com/Ashutosh26l/samay-capsule/internal/auth/repository"
	authusecase "github.com/Ashutosh26l/samay-capsule/internal/auth/usecase"
	capsulerepo "github.com/Ashutosh26l/samay-capsule/internal/capsule/repository"
	capsuleusecase "github.com/Ashutosh26l/samay-capsule/internal/capsule/usecase"
	"github.com/Ashutosh26l/samay-capsule/pkg/ai"
	"github.com/Ashutosh26l/samay-capsule/pkg/config"
)

type Handler struct {
	authUsecase    authusecase.AuthUsecase
	capsuleUsecase capsuleusecase.CapsuleUsecase
	enrichUsecase  capsuleusecase.EnrichUsecase
	enrichWorker   *capsuleusecase.EnrichWorker
	deviceRepo     authrepo.DeviceTokenRepository
	config         *config.Config
	aiConfigured   bool
}

// NewHandler wires the AI provider, enrichment pipeline and capsule usecase
// on top of the already-constructed repositories.
func NewHandler(
	cfg *config.Config,
	authUsecase authusecase.AuthUsecase,
	capsuleRepo capsulerepo.CapsuleRepository,
	enrichmentWriter capsulerepo.EnrichmentWriter,
	media capsuleusecase.MediaStore,
	deviceRepo authrepo.DeviceTokenRepository,
) *Handler {
	aiService, err := ai.NewEnrichmentService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Warn().Err(err).Msg("AI service unavailable, capsules will not be enriched")
	} else {
		log.Info().Str("provider", cfg.AIProvider).Msg("AI service initialized")
	}

	enrichUsecase := capsuleusecase.NewEnrichUsecase(aiService, enrichmentWriter)

	enrichWorker := capsuleusecase.NewEnrichWorker(enrichUsecase, enrichmentWriter, cfg.EnrichWorkers)
	enrichWorker.Start()

	capsuleUsecase := capsuleusecase.NewCapsuleUsecase(capsuleRepo, media, enrichWorker, cfg.SignedURLTTL)

	return &Handler{
		authUsecase:    authUsecase,
		capsuleUsecase: capsuleUsecase,
		enrichUsecase:  enrichUsecase,
		enrichWorker:   enrichWorker,
		deviceRepo:     deviceRepo,
		config:         cfg,
		aiConfigured:   aiService != nil,
	}
}

// Stop drains the enrichment workers.
func (h *Handler) Stop() {
	h.enrichWorker.Stop()
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// The process-ai endpoint answers its own preflight.
		if c.Request.Method == "OPTIONS" && c.FullPath() != "/api/capsules/process-ai" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.capsuleUsecase, h.enrichUsecase, h.deviceRepo, h.config, h.aiConfigured)

	return r.Run(addr)
}
