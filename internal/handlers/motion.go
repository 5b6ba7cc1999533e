package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type MotionHandler struct {
  motionService   services.MotionService
}

func NewMotionHandler(motionService services.MotionService) *MotionHandler {
  return &MotionHandler{motionService: motionService}
}

func (mh *MotionHandler) Create(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req struct {
    Title       string       `json:"title"`
    Body        string       `json:"body"`
    Threshold   string       `json:"threshold"`
    MeetingID   *uuid.UUID   `json:"meeting_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  motion := types.Motion{
    OrganizationID: orgID,
    MeetingID:      req.MeetingID,
    Title:          req.Title,
    Body:           req.Body,
    Threshold:      req.Threshold,
  }
  created, err := mh.motionService.CreateMotion(c.Request.Context(), &motion)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, created)
}

func (mh *MotionHandler) Get(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  motionID, ok := parseUUIDParam(c, "motionID")
  if !ok {
    return
  }
  motion, err := mh.motionService.GetMotion(c.Request.Context(), orgID, motionID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, motion)
}

func (mh *MotionHandler) List(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  motions, err := mh.motionService.ListMotions(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, motions)
}

func (mh *MotionHandler) Update(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  motionID, ok := parseUUIDParam(c, "motionID")
  if !ok {
    return
  }
  var req services.UpdateMotionInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  motion, err := mh.motionService.UpdateMotion(c.Request.Context(), orgID, motionID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, motion)
}

func (mh *MotionHandler) Open(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  motionID, ok := parseUUIDParam(c, "motionID")
  if !ok {
    return
  }
  motion, err := mh.motionService.OpenMotion(c.Request.Context(), orgID, motionID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, motion)
}

func (mh *MotionHandler) Withdraw(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  motionID, ok := parseUUIDParam(c, "motionID")
  if !ok {
    return
  }
  motion, err := mh.motionService.WithdrawMotion(c.Request.Context(), orgID, motionID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, motion)
}
