package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
)

type PollHandler struct {
  pollService   services.PollService
}

func NewPollHandler(pollService services.PollService) *PollHandler {
  return &PollHandler{pollService: pollService}
}

func (ph *PollHandler) Create(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req services.CreatePollInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  poll, err := ph.pollService.CreatePoll(c.Request.Context(), orgID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, poll)
}

func (ph *PollHandler) Get(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  pollID, ok := parseUUIDParam(c, "pollID")
  if !ok {
    return
  }
  poll, tally, err := ph.pollService.GetPoll(c.Request.Context(), orgID, pollID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"poll": poll, "tally": tally})
}

func (ph *PollHandler) List(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  polls, err := ph.pollService.ListPolls(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, polls)
}

func (ph *PollHandler) CastVote(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  pollID, ok := parseUUIDParam(c, "pollID")
  if !ok {
    return
  }
  var req services.CastVoteInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  tally, err := ph.pollService.CastVote(c.Request.Context(), orgID, pollID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, tally)
}

func (ph *PollHandler) Close(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  pollID, ok := parseUUIDParam(c, "pollID")
  if !ok {
    return
  }
  poll, tally, err := ph.pollService.ClosePoll(c.Request.Context(), orgID, pollID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"poll": poll, "tally": tally})
}
