package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// respondServiceError maps the shared authorization errors to their
// status codes; everything else is a 400.
func respondServiceError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, services.ErrNotAMember):
    RespondError(c, http.StatusForbidden, "not_a_member", err)
  case errors.Is(err, services.ErrInsufficientRole):
    RespondError(c, http.StatusForbidden, "insufficient_role", err)
  default:
    RespondError(c, http.StatusBadRequest, "bad_request", err)
  }
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return uuid.Nil, false
  }
  return id, true
}
