package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
)

type RevenueHandler struct {
  revenueService   services.RevenueService
}

func NewRevenueHandler(revenueService services.RevenueService) *RevenueHandler {
  return &RevenueHandler{revenueService: revenueService}
}

func (rh *RevenueHandler) CreateContract(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req services.CreateContractInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  contract, err := rh.revenueService.CreateContract(c.Request.Context(), orgID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contract)
}

func (rh *RevenueHandler) GetContract(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contractID, ok := parseUUIDParam(c, "contractID")
  if !ok {
    return
  }
  contract, err := rh.revenueService.GetContract(c.Request.Context(), orgID, contractID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contract)
}

func (rh *RevenueHandler) ListContracts(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contracts, err := rh.revenueService.ListContracts(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contracts)
}

func (rh *RevenueHandler) ActivateContract(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contractID, ok := parseUUIDParam(c, "contractID")
  if !ok {
    return
  }
  contract, err := rh.revenueService.ActivateContract(c.Request.Context(), orgID, contractID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contract)
}

func (rh *RevenueHandler) CancelContract(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contractID, ok := parseUUIDParam(c, "contractID")
  if !ok {
    return
  }
  contract, err := rh.revenueService.CancelContract(c.Request.Context(), orgID, contractID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contract)
}

func (rh *RevenueHandler) Recognize(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contractID, ok := parseUUIDParam(c, "contractID")
  if !ok {
    return
  }
  var req services.RecognizeInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  schedule, err := rh.revenueService.RecognizeSchedule(c.Request.Context(), orgID, contractID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, schedule)
}
