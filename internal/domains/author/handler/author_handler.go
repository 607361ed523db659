package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookapi-backend/internal/domains/author/model"
	"bookapi-backend/internal/domains/author/service"
	"bookapi-backend/internal/shared/hateoas"
	"bookapi-backend/internal/shared/middleware"
	"bookapi-backend/internal/shared/pagination"
	"bookapi-backend/internal/shared/response"
	"bookapi-backend/internal/shared/validation"
)

// Messages returned to authenticated non-admin callers.
const (
	ForbiddenCreate = "You do not have sufficient rights to create an author"
	ForbiddenUpdate = "You do not have sufficient rights to update an author"
	ForbiddenDelete = "You do not have sufficient rights to delete an author"
)

type AuthorHandler struct {
	service service.ServiceInterface
	paging  pagination.Config
	urls    hateoas.URLBuilder
}

func NewAuthorHandler(svc service.ServiceInterface, paging pagination.Config, urls hateoas.URLBuilder) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
		paging:  paging,
		urls:    urls,
	}
}

// ════════════════════════════════════════════════════════════════
// READ: List - GET /api/authors?page=1&limit=3
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	page, err := h.paging.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		h.fail(c, err)
		return
	}

	authors, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]model.AuthorResponse, len(authors))
	for i, a := range authors {
		out[i] = h.render(c, a)
	}
	response.Resource(c, http.StatusOK, out)
}

// ════════════════════════════════════════════════════════════════
// READ: GetByID - GET /api/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Resource(c, http.StatusOK, h.render(c, *a))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Malformed JSON body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Created(c, h.urls.Absolute(c, path(created.ID)), h.render(c, *created))
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /api/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req model.UpdateAuthorRequest
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

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	response.NoContent(c)
}

func (h *AuthorHandler) render(c *gin.Context, a model.Author) model.AuthorResponse {
	return a.ToResponse(h.urls.Resource(c, path(a.ID), middleware.IsAdmin(c)))
}

// parseID writes a 404 for ids that cannot name an author.
func (h *AuthorHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, model.ErrAuthorNotFound.Error())
		return 0, false
	}
	return id, true
}

func (h *AuthorHandler) fail(c *gin.Context, err error) {
	if violations, ok := validation.Violations(err); ok {
		response.Violations(c, violations)
		return
	}

	status := model.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("author request failed")
		response.InternalServerError(c)
		return
	}
	response.ErrorResponse(c, status, model.ToErrorCode(err), err.Error())
}

func path(id int64) string {
	return fmt.Sprintf("/api/authors/%d", id)
}
