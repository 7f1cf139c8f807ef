package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/Ashutosh26l/samay-capsule/internal/auth/domain"
	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
	"github.com/Ashutosh26l/samay-capsule/internal/capsule/usecase"
)

type fakeCapsuleUsecase struct {
	capsules   map[string]*capsuledomain.Capsule
	lastInput  usecase.CreateInput
	listErr    error
	createErr  error
	unlockCall string
}

func newFakeCapsuleUsecase() *fakeCapsuleUsecase {
	return &fakeCapsuleUsecase{capsules: map[string]*capsuledomain.Capsule{}}
}

func (f *fakeCapsuleUsecase) List(ownerID string) ([]*capsuledomain.Capsule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*capsuledomain.Capsule{}
	for _, c := range f.capsules {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCapsuleUsecase) Create(ctx context.Context, ownerID string, in usecase.CreateInput) (*capsuledomain.Capsule, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastInput = in
	capsule := &capsuledomain.Capsule{
		ID:        "cap-1",
		UserID:    ownerID,
		Title:     in.Title,
		Content:   in.Content,
		ReleaseAt: in.ReleaseAt,
		AIStatus:  capsuledomain.AIStatusPending,
	}
	f.capsules[capsule.ID] = capsule
	return capsule, nil
}

func (f *fakeCapsuleUsecase) Get(ownerID, id string) (*capsuledomain.Capsule, error) {
	c := f.capsules[id]
	if c == nil || c.UserID != ownerID {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCapsuleUsecase) Unlock(ownerID, id string) (*capsuledomain.Capsule, error) {
	f.unlockCall = id
	c := f.capsules[id]
	if c == nil || c.UserID != ownerID {
		return nil, capsuledomain.ErrNotFound
	}
	c.IsUnlocked = true
	return c, nil
}

func newCapsuleTestRouter(uc usecase.CapsuleUsecase, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user", &authdomain.User{ID: userID, Email: userID + "@example.com"})
		}
	})
	h := NewCapsuleHandler(uc)
	r.GET("/api/capsules", h.List)
	r.POST("/api/capsules", h.Create)
	r.GET("/api/capsules/:id", h.Get)
	r.POST("/api/capsules/:id/unlock", h.Unlock)
	return r
}

func multipartCapsule(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreateCapsuleMultipart(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	r := newCapsuleTestRouter(uc, "user-1")

	release := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	body, contentType := multipartCapsule(t, map[string]string{
		"title":        "Dear future me",
		"content":      "Remember this moment.",
		"release_date": release,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/capsules", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dear future me", uc.lastInput.Title)
	assert.Equal(t, true, resp["is_locked"], "a capsule releasing in 48h starts locked")
	assert.Equal(t, "pending", resp["ai_status"])
}

func TestCreateCapsuleWithFilePart(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	r := newCapsuleTestRouter(uc, "user-1")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "photo"))
	require.NoError(t, w.WriteField("content", "a picture"))
	require.NoError(t, w.WriteField("release_date", time.Now().Add(time.Hour).UTC().Format(time.RFC3339)))
	part, err := w.CreateFormFile("file", "beach.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/capsules", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, uc.lastInput.Media)
	assert.Equal(t, "beach.jpg", uc.lastInput.Media.Filename)
	assert.Equal(t, int64(len("jpeg-bytes")), uc.lastInput.Media.Size)
}

func TestCreateCapsuleBadReleaseDate(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	r := newCapsuleTestRouter(uc, "user-1")

	body, contentType := multipartCapsule(t, map[string]string{
		"title":        "x",
		"content":      "y",
		"release_date": "tomorrow-ish",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/capsules", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCapsuleValidationErrorIs400(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	uc.createErr = fmt.Errorf("%w: title is required", capsuledomain.ErrValidation)
	r := newCapsuleTestRouter(uc, "user-1")

	body, contentType := multipartCapsule(t, map[string]string{
		"title":        "",
		"content":      "y",
		"release_date": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/capsules", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMasksLockedContent(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	uc.capsules["cap-locked"] = &capsuledomain.Capsule{
		ID:        "cap-locked",
		UserID:    "user-1",
		Title:     "sealed",
		Content:   "secret text",
		AISummary: "secret summary",
		ReleaseAt: time.Now().Add(72 * time.Hour),
	}
	r := newCapsuleTestRouter(uc, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/capsules", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Capsules []map[string]interface{} `json:"capsules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Capsules, 1)
	got := resp.Capsules[0]
	assert.Equal(t, "sealed", got["title"], "title stays visible while sealed")
	assert.Empty(t, got["content"], "sealed content must not leave the server")
	assert.Empty(t, got["ai_summary"])
	assert.Equal(t, true, got["is_locked"])
	assert.NotEmpty(t, got["time_remaining"])
}

func TestListErrorSurfacesAs500(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	uc.listErr = errors.New("db down")
	r := newCapsuleTestRouter(uc, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/capsules", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetUnknownCapsuleIs404(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	r := newCapsuleTestRouter(uc, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/capsules/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnlockReturnsOpenCapsule(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	uc.capsules["cap-1"] = &capsuledomain.Capsule{
		ID:        "cap-1",
		UserID:    "user-1",
		Title:     "sealed",
		Content:   "secret text",
		ReleaseAt: time.Now().Add(72 * time.Hour),
	}
	r := newCapsuleTestRouter(uc, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/capsules/cap-1/unlock", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["is_locked"])
	assert.Equal(t, "secret text", got["content"], "manual unlock reveals the content")
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	uc := newFakeCapsuleUsecase()
	r := newCapsuleTestRouter(uc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/capsules", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
