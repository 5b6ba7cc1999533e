package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
)

type MembershipHandler struct {
  membershipService   services.MembershipService
}

func NewMembershipHandler(membershipService services.MembershipService) *MembershipHandler {
  return &MembershipHandler{membershipService: membershipService}
}

func (mh *MembershipHandler) List(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  members, err := mh.membershipService.ListMembers(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, members)
}

func (mh *MembershipHandler) Add(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  var req services.AddMemberInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  membership, err := mh.membershipService.AddMember(c.Request.Context(), orgID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, membership)
}

func (mh *MembershipHandler) Update(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  membershipID, ok := parseUUIDParam(c, "membershipID")
  if !ok {
    return
  }
  var req services.UpdateMemberInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  membership, err := mh.membershipService.UpdateMember(c.Request.Context(), orgID, membershipID, req)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, membership)
}

func (mh *MembershipHandler) Remove(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  membershipID, ok := parseUUIDParam(c, "membershipID")
  if !ok {
    return
  }
  if err := mh.membershipService.RemoveMember(c.Request.Context(), orgID, membershipID); err != nil {
    respondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
