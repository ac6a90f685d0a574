package controllers

import (
	"errors"
	"net/http"

	"autoshop-backend/services"
	"autoshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// respondServiceError maps service errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without details.
func respondServiceError(c *gin.Context, log zerolog.Logger, err error) {
	var invalid services.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		utils.RespondWithErrors(c, http.StatusUnprocessableEntity, invalid)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrNumberExhausted):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("document numbering exhausted")
		utils.RespondWithError(c, http.StatusInternalServerError, "Could not allocate a document number")
	default:
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// bindJSON decodes the body into dst. Field level checks happen in the
// services, so only undecodable payloads are rejected here.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return false
	}
	return true
}

// parseID reads a uuid path parameter. A malformed id cannot name any
// record, so it is reported as not found.
func parseID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, services.NotFound(resource, raw).Error())
		return uuid.Nil, false
	}
	return id, true
}
