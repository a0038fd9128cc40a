package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ido-nevo/mylinkshortenerproject/internal/errors"
	"github.com/ido-nevo/mylinkshortenerproject/internal/middleware"
	"github.com/ido-nevo/mylinkshortenerproject/internal/model"
)

type mockLinkService struct {
	createErr  error
	updateErr  error
	deleteErr  error
	resolveErr error
	links      []model.Link
	resolveURL string
}

func (m *mockLinkService) Create(ctx context.Context, ownerID string, req *model.CreateLinkRequest) (*model.Link, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &model.Link{
		ID:        1,
		OwnerID:   ownerID,
		URL:       req.URL,
		ShortCode: req.ShortCode,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (m *mockLinkService) Update(ctx context.Context, ownerID string, id int64, req *model.UpdateLinkRequest) (*model.Link, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &model.Link{ID: id, OwnerID: ownerID, URL: req.URL, ShortCode: req.ShortCode}, nil
}

func (m *mockLinkService) Delete(ctx context.Context, ownerID string, id int64) (*model.Link, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &model.Link{ID: id, OwnerID: ownerID}, nil
}

func (m *mockLinkService) List(ctx context.Context, ownerID string) ([]model.Link, error) {
	return m.links, nil
}

func (m *mockLinkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	if m.resolveErr != nil {
		return "", m.resolveErr
	}
	return m.resolveURL, nil
}

func setupRouter(svc LinkService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLinkHandler(svc)

	router := gin.New()
	api := router.Group("/api", func(c *gin.Context) {
		c.Set(middleware.CtxOwner, "owner-1")
	})
	api.POST("/links", h.CreateLink)
	api.GET("/links", h.ListLinks)
	api.PUT("/links/:id", h.UpdateLink)
	api.DELETE("/links/:id", h.DeleteLink)
	router.GET("/:shortCode", h.Redirect)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateLink_Success(t *testing.T) {
	router := setupRouter(&mockLinkService{})

	w := doJSON(t, router, http.MethodPost, "/api/links", model.CreateLinkRequest{
		URL:       "https://example.com/x",
		ShortCode: "ex1",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var res model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.OK)
	assert.NotNil(t, res.Data)
}

func TestCreateLink_ValidationErrorEnvelope(t *testing.T) {
	ve := apperrors.NewValidationError()
	ve.Add("short_code", "short code must be between 3 and 20 characters")
	router := setupRouter(&mockLinkService{createErr: ve})

	w := doJSON(t, router, http.MethodPost, "/api/links", model.CreateLinkRequest{
		URL:       "https://example.com",
		ShortCode: "ab",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var res model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.OK)
	assert.Contains(t, res.FieldErrors["short_code"], "short code must be between 3 and 20 characters")
}

func TestCreateLink_Collision(t *testing.T) {
	router := setupRouter(&mockLinkService{createErr: apperrors.ErrShortCodeTaken})

	w := doJSON(t, router, http.MethodPost, "/api/links", model.CreateLinkRequest{
		URL:       "https://example.com",
		ShortCode: "taken",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateLink_AllocationExhausted(t *testing.T) {
	router := setupRouter(&mockLinkService{createErr: apperrors.ErrAllocationExhausted})

	w := doJSON(t, router, http.MethodPost, "/api/links", model.CreateLinkRequest{
		URL: "https://example.com",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateLink_BadJSON(t *testing.T) {
	router := setupRouter(&mockLinkService{})

	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateLink_NotFoundOrForbidden(t *testing.T) {
	router := setupRouter(&mockLinkService{updateErr: apperrors.ErrNotFound})

	w := doJSON(t, router, http.MethodPut, "/api/links/42", model.UpdateLinkRequest{
		URL:       "https://example.com",
		ShortCode: "mycode",
	})

	require.Equal(t, http.StatusNotFound, w.Code)

	var res model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.OK)
	assert.Equal(t, "link not found", res.Error)
}

func TestUpdateLink_InvalidID(t *testing.T) {
	router := setupRouter(&mockLinkService{})

	w := doJSON(t, router, http.MethodPut, "/api/links/notanumber", model.UpdateLinkRequest{
		URL:       "https://example.com",
		ShortCode: "mycode",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteLink_Success(t *testing.T) {
	router := setupRouter(&mockLinkService{})

	w := doJSON(t, router, http.MethodDelete, "/api/links/7", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var res model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.OK)
}

func TestListLinks(t *testing.T) {
	router := setupRouter(&mockLinkService{links: []model.Link{
		{ID: 2, ShortCode: "bbb"},
		{ID: 1, ShortCode: "aaa"},
	}})

	w := doJSON(t, router, http.MethodGet, "/api/links", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var res model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.OK)
}

func TestRedirect_PreservesMethodWith307(t *testing.T) {
	router := setupRouter(&mockLinkService{resolveURL: "https://example.com/x"})

	req := httptest.NewRequest(http.MethodGet, "/ex1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://example.com/x", w.Header().Get("Location"))
}

func TestRedirect_UnknownCodeIs404(t *testing.T) {
	router := setupRouter(&mockLinkService{resolveErr: apperrors.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/nevermade", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestRedirect_StorageFaultIsGeneric500(t *testing.T) {
	router := setupRouter(&mockLinkService{
		resolveErr: apperrors.NewPersistenceError("resolve", context.DeadlineExceeded),
	})

	req := httptest.NewRequest(http.MethodGet, "/ex1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadline")
}

func TestMutationWithoutIdentityIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewLinkHandler(&mockLinkService{})
	router := gin.New()
	// Маршрут без auth middleware: владелец отсутствует в контексте
	router.POST("/api/links", h.CreateLink)

	w := doJSON(t, router, http.MethodPost, "/api/links", model.CreateLinkRequest{
		URL: "https://example.com",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
