package handlers

import (
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type ContactHandler struct {
  contactService   services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
  return &ContactHandler{contactService: contactService}
}

func (ch *ContactHandler) Create(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req struct {
    Kind        string   `json:"kind"`
    FirstName   string   `json:"first_name"`
    LastName    string   `json:"last_name"`
    Email       string   `json:"email"`
    Phone       string   `json:"phone"`
    Notes       string   `json:"notes"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  contact := types.Contact{
    OrganizationID: orgID,
    Kind:           req.Kind,
    FirstName:      req.FirstName,
    LastName:       req.LastName,
    Email:          req.Email,
    Phone:          req.Phone,
    Notes:          req.Notes,
  }
  created, err := ch.contactService.CreateContact(c.Request.Context(), &contact)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, created)
}

func (ch *ContactHandler) Get(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contactID, ok := parseUUIDParam(c, "contactID")
  if !ok {
    return
  }
  contact, err := ch.contactService.GetContact(c.Request.Context(), orgID, contactID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contact)
}

func (ch *ContactHandler) List(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contacts, err := ch.contactService.ListContacts(c.Request.Context(), orgID, c.Query("kind"))
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contacts)
}

func (ch *ContactHandler) Update(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contactID, ok := parseUUIDParam(c, "contactID")
  if !ok {
    return
  }
  var req services.UpdateContactInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  contact, err := ch.contactService.UpdateContact(c.Request.Context(), orgID, contactID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, contact)
}

func (ch *ContactHandler) Delete(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contactID, ok := parseUUIDParam(c, "contactID")
  if !ok {
    return
  }
  if err := ch.contactService.DeleteContact(c.Request.Context(), orgID, contactID); err != nil {
    respondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "contact deleted"})
}

func (ch *ContactHandler) RecordInteraction(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contactID, ok := parseUUIDParam(c, "contactID")
  if !ok {
    return
  }
  var req struct {
    Kind         string      `json:"kind"`
    OccurredAt   time.Time   `json:"occurred_at"`
    Notes        string      `json:"notes"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  interaction := types.Interaction{
    ContactID:  contactID,
    Kind:       req.Kind,
    OccurredAt: req.OccurredAt,
    Notes:      req.Notes,
  }
  created, err := ch.contactService.RecordInteraction(c.Request.Context(), orgID, &interaction)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, created)
}

func (ch *ContactHandler) ListInteractions(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  contactID, ok := parseUUIDParam(c, "contactID")
  if !ok {
    return
  }
  interactions, err := ch.contactService.ListInteractions(c.Request.Context(), orgID, contactID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, interactions)
}

func (ch *ContactHandler) RecordDonation(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req services.RecordDonationInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  donation, err := ch.contactService.RecordDonation(c.Request.Context(), orgID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, donation)
}

func (ch *ContactHandler) ListDonations(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  donations, err := ch.contactService.ListDonations(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, donations)
}
