package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type AddMemberInput struct {
  Email    string   `json:"email"`
  Role     string   `json:"role"`
  Status   string   `json:"status"`
}

type UpdateMemberInput struct {
  Role     *string   `json:"role"`
  Status   *string   `json:"status"`
}

type MembershipService interface {
  ListMembers(ctx context.Context, orgID uuid.UUID) ([]*types.Membership, error)
  AddMember(ctx context.Context, orgID uuid.UUID, input AddMemberInput) (*types.Membership, error)
  UpdateMember(ctx context.Context, orgID, membershipID uuid.UUID, input UpdateMemberInput) (*types.Membership, error)
  RemoveMember(ctx context.Context, orgID, membershipID uuid.UUID) error
}

type membershipService struct {
  db               *gorm.DB
  log              *logger.Logger
  membershipRepo   repos.MembershipRepo
  userRepo         repos.UserRepo
}

func NewMembershipService(db *gorm.DB, log *logger.Logger, membershipRepo repos.MembershipRepo, userRepo repos.UserRepo) MembershipService {
  serviceLog := log.With("service", "MembershipService")
  return &membershipService{db: db, log: serviceLog, membershipRepo: membershipRepo, userRepo: userRepo}
}

func (ms *membershipService) ListMembers(ctx context.Context, orgID uuid.UUID) ([]*types.Membership, error) {
  if _, err := requireMembership(ctx, nil, ms.membershipRepo, orgID); err != nil {
    return nil, err
  }
  members, err := ms.membershipRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list members: %w", err)
  }
  return members, nil
}

func (ms *membershipService) AddMember(ctx context.Context, orgID uuid.UUID, input AddMemberInput) (*types.Membership, error) {
  actor, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleAdmin)
  if err != nil {
    return nil, err
  }
  email := normalization.ParseInputString(input.Email)
  if email == "" {
    return nil, fmt.Errorf("Email is required to add a member")
  }
  role := input.Role
  if role == "" {
    role = types.RoleMember
  }
  if types.RoleRank(role) == 0 {
    return nil, fmt.Errorf("Unknown role %q", role)
  }
  // A grantor cannot hand out a role above their own.
  if types.RoleRank(role) > types.RoleRank(actor.Role) {
    return nil, ErrInsufficientRole
  }
  status := input.Status
  if status == "" {
    status = types.MembershipStatusInvited
  }

  users, uErr := ms.userRepo.GetByEmails(ctx, nil, []string{email})
  if uErr != nil {
    return nil, fmt.Errorf("Failed to look up user by email: %w", uErr)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("No registered user with that email")
  }
  user := users[0]

  existing, eErr := ms.membershipRepo.GetByOrgAndUser(ctx, nil, orgID, user.ID)
  if eErr != nil {
    return nil, fmt.Errorf("Failed to check existing membership: %w", eErr)
  }
  if existing != nil {
    return nil, fmt.Errorf("User is already a member of this organization")
  }

  membership := &types.Membership{
    ID:             uuid.New(),
    OrganizationID: orgID,
    UserID:         user.ID,
    Role:           role,
    Status:         status,
  }
  if _, cErr := ms.membershipRepo.Create(ctx, nil, []*types.Membership{membership}); cErr != nil {
    return nil, fmt.Errorf("Failed to create membership: %w", cErr)
  }
  return membership, nil
}

func (ms *membershipService) UpdateMember(ctx context.Context, orgID, membershipID uuid.UUID, input UpdateMemberInput) (*types.Membership, error) {
  actor, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleAdmin)
  if err != nil {
    return nil, err
  }
  target, tErr := ms.loadOrgMembership(ctx, orgID, membershipID)
  if tErr != nil {
    return nil, tErr
  }
  // Admins cannot modify peers or superiors; owners can modify anyone
  // but themselves out of the owner seat via this path.
  if target.ID != actor.ID && types.RoleRank(target.Role) >= types.RoleRank(actor.Role) {
    return nil, ErrInsufficientRole
  }
  if input.Role != nil {
    newRole := *input.Role
    if types.RoleRank(newRole) == 0 {
      return nil, fmt.Errorf("Unknown role %q", newRole)
    }
    if types.RoleRank(newRole) > types.RoleRank(actor.Role) {
      return nil, ErrInsufficientRole
    }
    target.Role = newRole
  }
  if input.Status != nil {
    switch *input.Status {
    case types.MembershipStatusActive, types.MembershipStatusInvited, types.MembershipStatusLapsed:
      target.Status = *input.Status
    default:
      return nil, fmt.Errorf("Unknown membership status %q", *input.Status)
    }
  }
  if uErr := ms.membershipRepo.Update(ctx, nil, target); uErr != nil {
    return nil, fmt.Errorf("Failed to update membership: %w", uErr)
  }
  return target, nil
}

func (ms *membershipService) RemoveMember(ctx context.Context, orgID, membershipID uuid.UUID) error {
  actor, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleAdmin)
  if err != nil {
    return err
  }
  target, tErr := ms.loadOrgMembership(ctx, orgID, membershipID)
  if tErr != nil {
    return tErr
  }
  if target.Role == types.RoleOwner {
    return fmt.Errorf("The owner cannot be removed")
  }
  if target.ID != actor.ID && types.RoleRank(target.Role) >= types.RoleRank(actor.Role) {
    return ErrInsufficientRole
  }
  if dErr := ms.membershipRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{membershipID}); dErr != nil {
    return fmt.Errorf("Failed to remove member: %w", dErr)
  }
  return nil
}

func (ms *membershipService) loadOrgMembership(ctx context.Context, orgID, membershipID uuid.UUID) (*types.Membership, error) {
  targets, err := ms.membershipRepo.GetByIDs(ctx, nil, []uuid.UUID{membershipID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch membership: %w", err)
  }
  if len(targets) == 0 || targets[0].OrganizationID != orgID {
    return nil, fmt.Errorf("Membership not found in this organization")
  }
  return targets[0], nil
}
