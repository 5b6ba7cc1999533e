package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/requestdata"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

var (
  ErrNotAMember     = fmt.Errorf("Not an active member of this organization")
  ErrInsufficientRole = fmt.Errorf("Insufficient role for this operation")
)

// requireMembership loads the caller's active membership in the org. All
// org-scoped operations start here.
func requireMembership(ctx context.Context, tx *gorm.DB, membershipRepo repos.MembershipRepo, orgID uuid.UUID) (*types.Membership, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  membership, err := membershipRepo.GetByOrgAndUser(ctx, tx, orgID, rd.UserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load membership: %w", err)
  }
  if membership == nil || membership.Status != types.MembershipStatusActive {
    return nil, ErrNotAMember
  }
  return membership, nil
}

// requireRank is requireMembership plus a minimum-role check.
func requireRank(ctx context.Context, tx *gorm.DB, membershipRepo repos.MembershipRepo, orgID uuid.UUID, minRole string) (*types.Membership, error) {
  membership, err := requireMembership(ctx, tx, membershipRepo, orgID)
  if err != nil {
    return nil, err
  }
  if types.RoleRank(membership.Role) < types.RoleRank(minRole) {
    return nil, ErrInsufficientRole
  }
  return membership, nil
}
