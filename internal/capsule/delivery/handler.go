package delivery

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authdelivery "github.com/Ashutosh26l/samay-capsule/internal/auth/delivery"
	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
	capsuledto "github.com/Ashutosh26l/samay-capsule/internal/capsule/dto"
	"github.com/Ashutosh26l/samay-capsule/internal/capsule/usecase"
)

// CapsuleHandler handles the authenticated capsule API endpoints
type CapsuleHandler struct {
	capsuleUsecase usecase.CapsuleUsecase
}

func NewCapsuleHandler(capsuleUsecase usecase.CapsuleUsecase) *CapsuleHandler {
	return &CapsuleHandler{capsuleUsecase: capsuleUsecase}
}

// GET /api/capsules
func (h *CapsuleHandler) List(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	capsules, err := h.capsuleUsecase.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch capsules"})
		return
	}

	now := time.Now()
	out := make([]capsuledto.CapsuleResponse, 0, len(capsules))
	for _, capsule := range capsules {
		out = append(out, capsuledto.NewCapsuleResponse(capsule, now))
	}
	c.JSON(http.StatusOK, gin.H{"capsules": out})
}

// POST /api/capsules (multipart form: title, content, release_date, file?)
func (h *CapsuleHandler) Create(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	releaseAt, err := time.Parse(time.RFC3339, c.PostForm("release_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid release_date, expected RFC3339"})
		return
	}

	in := usecase.CreateInput{
		Title:     c.PostForm("title"),
		Content:   c.PostForm("content"),
		ReleaseAt: releaseAt,
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer file.Close()

		in.Media = &usecase.MediaInput{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      file,
		}
	}

	capsule, err := h.capsuleUsecase.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		switch {
		case errors.Is(err, capsuledomain.ErrValidation), errors.Is(err, capsuledomain.ErrUpload):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create capsule"})
		}
		return
	}

	c.JSON(http.StatusCreated, capsuledto.NewCapsuleResponse(capsule, time.Now()))
}

// GET /api/capsules/:id
func (h *CapsuleHandler) Get(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	capsule, err := h.capsuleUsecase.Get(user.ID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch capsule"})
		return
	}
	if capsule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "capsule not found"})
		return
	}

	c.JSON(http.StatusOK, capsuledto.NewCapsuleResponse(capsule, time.Now()))
}

// POST /api/capsules/:id/unlock
func (h *CapsuleHandler) Unlock(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	capsule, err := h.capsuleUsecase.Unlock(user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, capsuledomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "capsule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlock capsule"})
		return
	}

	c.JSON(http.StatusOK, capsuledto.NewCapsuleResponse(capsule, time.Now()))
}
