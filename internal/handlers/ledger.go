package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
)

type LedgerHandler struct {
  ledgerService   services.LedgerService
}

func NewLedgerHandler(ledgerService services.LedgerService) *LedgerHandler {
  return &LedgerHandler{ledgerService: ledgerService}
}

func (lh *LedgerHandler) CreateAccount(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req services.CreateAccountInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  account, err := lh.ledgerService.CreateAccount(c.Request.Context(), orgID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, account)
}

func (lh *LedgerHandler) ListAccounts(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  accounts, err := lh.ledgerService.ListAccounts(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, accounts)
}

func (lh *LedgerHandler) UpdateAccount(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  accountID, ok := parseUUIDParam(c, "accountID")
  if !ok {
    return
  }
  var req services.UpdateAccountInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  account, err := lh.ledgerService.UpdateAccount(c.Request.Context(), orgID, accountID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, account)
}

func (lh *LedgerHandler) DeleteAccount(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  accountID, ok := parseUUIDParam(c, "accountID")
  if !ok {
    return
  }
  if err := lh.ledgerService.DeleteAccount(c.Request.Context(), orgID, accountID); err != nil {
    respondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "account removed"})
}

func (lh *LedgerHandler) PostEntry(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req services.PostEntryInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  entry, err := lh.ledgerService.PostEntry(c.Request.Context(), orgID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, entry)
}

func (lh *LedgerHandler) GetEntry(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  entryID, ok := parseUUIDParam(c, "entryID")
  if !ok {
    return
  }
  entry, err := lh.ledgerService.GetEntry(c.Request.Context(), orgID, entryID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, entry)
}

func (lh *LedgerHandler) ListEntries(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  entries, err := lh.ledgerService.ListEntries(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, entries)
}

func (lh *LedgerHandler) VoidEntry(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  entryID, ok := parseUUIDParam(c, "entryID")
  if !ok {
    return
  }
  entry, err := lh.ledgerService.VoidEntry(c.Request.Context(), orgID, entryID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, entry)
}

func (lh *LedgerHandler) TrialBalance(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  report, err := lh.ledgerService.TrialBalance(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, report)
}
