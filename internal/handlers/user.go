package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
)

type UserHandler struct {
  userService   services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  user, err := uh.userService.GetMe(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
  var req struct {
    FirstName   string   `json:"first_name"`
    LastName    string   `json:"last_name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user, err := uh.userService.UpdateName(c.Request.Context(), req.FirstName, req.LastName)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  RespondOK(c, user)
}
