package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookapi-backend/internal/domains/user"
	"bookapi-backend/internal/shared/response"
	"bookapi-backend/internal/shared/validation"
)

type UserHandler struct {
	service user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{service: svc}
}

// Login - POST /api/login_check
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Malformed JSON body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if violations, ok := validation.Violations(err); ok {
			response.Violations(c, violations)
			return
		}
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials.")
			return
		}
		log.Error().Err(err).Msg("login failed")
		response.InternalServerError(c)
		return
	}

	response.Resource(c, http.StatusOK, resp)
}
