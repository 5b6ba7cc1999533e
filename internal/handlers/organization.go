package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type OrganizationHandler struct {
  orgService   services.OrganizationService
}

func NewOrganizationHandler(orgService services.OrganizationService) *OrganizationHandler {
  return &OrganizationHandler{orgService: orgService}
}

func (oh *OrganizationHandler) Create(c *gin.Context) {
  var req struct {
    Name        string   `json:"name"`
    Slug        string   `json:"slug"`
    Kind        string   `json:"kind"`
    QuorumBps   int      `json:"quorum_bps"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  org := types.Organization{
    Name:      req.Name,
    Slug:      req.Slug,
    Kind:      req.Kind,
    QuorumBps: req.QuorumBps,
  }
  created, err := oh.orgService.CreateOrganization(c.Request.Context(), &org)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, created)
}

func (oh *OrganizationHandler) Get(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  org, err := oh.orgService.GetOrganization(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, org)
}

func (oh *OrganizationHandler) ListMine(c *gin.Context) {
  orgs, err := oh.orgService.ListMyOrganizations(c.Request.Context())
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, orgs)
}

func (oh *OrganizationHandler) Update(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req services.UpdateOrganizationInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  org, err := oh.orgService.UpdateOrganization(c.Request.Context(), orgID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, org)
}

func (oh *OrganizationHandler) Delete(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  if err := oh.orgService.DeleteOrganization(c.Request.Context(), orgID); err != nil {
    respondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "organization deleted"})
}
