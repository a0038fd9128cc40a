package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ido-nevo/mylinkshortenerproject/internal/errors"
	"github.com/ido-nevo/mylinkshortenerproject/internal/middleware"
	"github.com/ido-nevo/mylinkshortenerproject/internal/model"
)

// LinkService - операции оркестратора, нужные HTTP слою
type LinkService interface {
	Create(ctx context.Context, ownerID string, req *model.CreateLinkRequest) (*model.Link, error)
	Update(ctx context.Context, ownerID string, id int64, req *model.UpdateLinkRequest) (*model.Link, error)
	Delete(ctx context.Context, ownerID string, id int64) (*model.Link, error)
	List(ctx context.Context, ownerID string) ([]model.Link, error)
	Resolve(ctx context.Context, shortCode string) (string, error)
}

type LinkHandler struct {
	linkService LinkService
}

func NewLinkHandler(linkService LinkService) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
	}
}

func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req model.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Failure("invalid JSON body"))
		return
	}

	link, err := h.linkService.Create(c.Request.Context(), middleware.OwnerID(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.Success(link))
}

func (h *LinkHandler) ListLinks(c *gin.Context) {
	links, err := h.linkService.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(links))
}

func (h *LinkHandler) UpdateLink(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Failure("invalid link id"))
		return
	}

	var req model.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Failure("invalid JSON body"))
		return
	}

	link, err := h.linkService.Update(c.Request.Context(), middleware.OwnerID(c), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(link))
}

func (h *LinkHandler) DeleteLink(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Failure("invalid link id"))
		return
	}

	link, err := h.linkService.Delete(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(link))
}

// Redirect - публичный маршрут перенаправления, аутентификация не вызывается
func (h *LinkHandler) Redirect(c *gin.Context) {
	shortCode := c.Param("shortCode")
	if shortCode == "" {
		c.String(http.StatusBadRequest, "short code is required")
		return
	}

	destination, err := h.linkService.Resolve(c.Request.Context(), shortCode)
	if errors.Is(err, apperrors.ErrNotFound) {
		c.String(http.StatusNotFound, "short link not found")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "an unexpected error occurred, please retry")
		return
	}

	// 307 сохраняет метод исходного запроса
	c.Redirect(http.StatusTemporaryRedirect, destination)
}

// handleError переводит типизированные ошибки оркестратора в HTTP коды
// и единый конверт ответа
func (h *LinkHandler) handleError(c *gin.Context, err error) {
	if apperrors.IsValidationError(err) {
		ve := apperrors.GetValidationError(err)
		c.JSON(http.StatusBadRequest, model.FailureWithFields("validation failed", ve.Fields))
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.Failure(apperrors.ErrUnauthorized.Error()))
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, model.Failure(apperrors.ErrNotFound.Error()))
	case errors.Is(err, apperrors.ErrShortCodeTaken):
		c.JSON(http.StatusConflict, model.Failure(apperrors.ErrShortCodeTaken.Error()))
	case errors.Is(err, apperrors.ErrAllocationExhausted):
		c.JSON(http.StatusUnprocessableEntity, model.Failure(apperrors.ErrAllocationExhausted.Error()))
	default:
		// PersistenceError и все неожиданное: наружу только generic сообщение
		c.JSON(http.StatusInternalServerError, model.Failure("an unexpected error occurred, please retry"))
	}
}
