package handlers

import (
  "context"
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type MeetingHandler struct {
  meetingService   services.MeetingService
}

func NewMeetingHandler(meetingService services.MeetingService) *MeetingHandler {
  return &MeetingHandler{meetingService: meetingService}
}

func (mh *MeetingHandler) Create(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req struct {
    Title         string      `json:"title"`
    Location      string      `json:"location"`
    ScheduledAt   time.Time   `json:"scheduled_at"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  meeting := types.Meeting{
    OrganizationID: orgID,
    Title:          req.Title,
    Location:       req.Location,
    ScheduledAt:    req.ScheduledAt,
  }
  created, err := mh.meetingService.CreateMeeting(c.Request.Context(), &meeting)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, created)
}

func (mh *MeetingHandler) Get(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  meeting, err := mh.meetingService.GetMeeting(c.Request.Context(), orgID, meetingID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, meeting)
}

func (mh *MeetingHandler) Update(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  var req services.UpdateMeetingInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  meeting, err := mh.meetingService.UpdateMeeting(c.Request.Context(), orgID, meetingID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, meeting)
}

func (mh *MeetingHandler) List(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetings, err := mh.meetingService.ListMeetings(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, meetings)
}

func (mh *MeetingHandler) Open(c *gin.Context) {
  mh.transition(c, mh.meetingService.OpenMeeting)
}

func (mh *MeetingHandler) Adjourn(c *gin.Context) {
  mh.transition(c, mh.meetingService.AdjournMeeting)
}

func (mh *MeetingHandler) Cancel(c *gin.Context) {
  mh.transition(c, mh.meetingService.CancelMeeting)
}

func (mh *MeetingHandler) RecordAttendance(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  var req struct {
    Records   []services.AttendanceInput   `json:"records"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := mh.meetingService.RecordAttendance(c.Request.Context(), orgID, meetingID, req.Records); err != nil {
    respondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "attendance recorded"})
}

func (mh *MeetingHandler) ListAttendance(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  rows, err := mh.meetingService.ListAttendance(c.Request.Context(), orgID, meetingID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, rows)
}

func (mh *MeetingHandler) SaveMinutes(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  var req struct {
    Body   string   `json:"body"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  minutes, err := mh.meetingService.SaveMinutes(c.Request.Context(), orgID, meetingID, req.Body)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, minutes)
}

func (mh *MeetingHandler) GetMinutes(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  minutes, err := mh.meetingService.GetMinutes(c.Request.Context(), orgID, meetingID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, minutes)
}

func (mh *MeetingHandler) ApproveMinutes(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  minutes, err := mh.meetingService.ApproveMinutes(c.Request.Context(), orgID, meetingID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, minutes)
}

func (mh *MeetingHandler) transition(c *gin.Context, fn func(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error)) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  meetingID, ok := parseUUIDParam(c, "meetingID")
  if !ok {
    return
  }
  meeting, err := fn(c.Request.Context(), orgID, meetingID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, meeting)
}
