package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookapi-backend/internal/domains/book/model"
	"bookapi-backend/internal/domains/book/service"
	"bookapi-backend/internal/shared/hateoas"
	"bookapi-backend/internal/shared/middleware"
	"bookapi-backend/internal/shared/pagination"
	"bookapi-backend/internal/shared/response"
	"bookapi-backend/internal/shared/validation"
	"bookapi-backend/internal/shared/versioning"
)

// HeaderAPIVersion echoes the negotiated version on the detail endpoint.
const HeaderAPIVersion = "X-API-Version"

// Messages returned to authenticated non-admin callers.
const (
	ForbiddenCreate = "You do not have sufficient rights to create a book"
	ForbiddenUpdate = "You do not have sufficient rights to update a book"
	ForbiddenDelete = "You do not have sufficient rights to delete a book"
)

// Handler - HTTP Handler for books
type Handler struct {
	service    service.ServiceInterface
	negotiator *versioning.Negotiator
	paging     pagination.Config
	urls       hateoas.URLBuilder
}

// NewHandler - Constructor with DI
func NewHandler(svc service.ServiceInterface, negotiator *versioning.Negotiator, paging pagination.Config, urls hateoas.URLBuilder) *Handler {
	return &Handler{
		service:    svc,
		negotiator: negotiator,
		paging:     paging,
		urls:       urls,
	}
}

// ListBooks - GET /api/books?page=1&limit=3
// The list is not versioned and always carries the comment.
func (h *Handler) ListBooks(c *gin.Context) {
	page, err := h.paging.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		h.fail(c, err)
		return
	}

	books, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]model.BookResponse, len(books))
	for i, b := range books {
		out[i] = h.render(c, b, true)
	}
	response.Resource(c, http.StatusOK, out)
}

// GetBookDetail - GET /api/books/:id
// Accept: application/json; version=2.0 exposes the comment.
func (h *Handler) GetBookDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	version := h.negotiator.Version(c.GetHeader("Accept"))
	c.Header(HeaderAPIVersion, version)
	response.Resource(c, http.StatusOK, h.render(c, *b, versioning.AtLeast(version, model.CommentSinceVersion)))
}

// CreateBook - POST /api/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Malformed JSON body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Created(c, h.urls.Absolute(c, path(created.ID)), h.render(c, *created, true))
}

// UpdateBook - PUT /api/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Malformed JSON body")
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, &req); err != nil {
		h.fail(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteBook - DELETE /api/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	response.NoContent(c)
}

func (h *Handler) render(c *gin.Context, b model.Book, withComment bool) model.BookResponse {
	return b.ToResponse(withComment, h.urls.Resource(c, path(b.ID), middleware.IsAdmin(c)))
}

func (h *Handler) fail(c *gin.Context, err error) {
	if violations, ok := validation.Violations(err); ok {
		response.Violations(c, violations)
		return
	}

	status := model.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("book request failed")
		response.InternalServerError(c)
		return
	}
	response.ErrorResponse(c, status, model.ToErrorCode(err), err.Error())
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, model.ErrBookNotFound.Error())
		return 0, false
	}
	return id, true
}

func path(id int64) string {
	return fmt.Sprintf("/api/books/%d", id)
}
