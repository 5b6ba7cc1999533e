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

type UpdateMotionInput struct {
  Title       *string   `json:"title"`
  Body        *string   `json:"body"`
  Threshold   *string   `json:"threshold"`
}

type MotionService interface {
  CreateMotion(ctx context.Context, motion *types.Motion) (*types.Motion, error)
  GetMotion(ctx context.Context, orgID, motionID uuid.UUID) (*types.Motion, error)
  ListMotions(ctx context.Context, orgID uuid.UUID) ([]*types.Motion, error)
  UpdateMotion(ctx context.Context, orgID, motionID uuid.UUID, input UpdateMotionInput) (*types.Motion, error)
  OpenMotion(ctx context.Context, orgID, motionID uuid.UUID) (*types.Motion, error)
  WithdrawMotion(ctx context.Context, orgID, motionID uuid.UUID) (*types.Motion, error)
}

type motionService struct {
  db               *gorm.DB
  log              *logger.Logger
  motionRepo       repos.MotionRepo
  meetingRepo      repos.MeetingRepo
  membershipRepo   repos.MembershipRepo
}

func NewMotionService(
  db *gorm.DB,
  log *logger.Logger,
  motionRepo repos.MotionRepo,
  meetingRepo repos.MeetingRepo,
  membershipRepo repos.MembershipRepo,
) MotionService {
  serviceLog := log.With("service", "MotionService")
  return &motionService{
    db:             db,
    log:            serviceLog,
    motionRepo:     motionRepo,
    meetingRepo:    meetingRepo,
    membershipRepo: membershipRepo,
  }
}

func validThreshold(threshold string) bool {
  return threshold == types.ThresholdMajority || threshold == types.ThresholdTwoThirds
}

func (ms *motionService) CreateMotion(ctx context.Context, motion *types.Motion) (*types.Motion, error) {
  // Any active member may move a motion.
  actor, err := requireMembership(ctx, nil, ms.membershipRepo, motion.OrganizationID)
  if err != nil {
    return nil, err
  }
  motion.Title = normalization.TrimInputString(motion.Title)
  if motion.Title == "" {
    return nil, fmt.Errorf("Motion title is required")
  }
  if motion.Threshold == "" {
    motion.Threshold = types.ThresholdMajority
  }
  if !validThreshold(motion.Threshold) {
    return nil, fmt.Errorf("Unknown threshold %q", motion.Threshold)
  }
  if motion.MeetingID != nil {
    meetings, mErr := ms.meetingRepo.GetByIDs(ctx, nil, []uuid.UUID{*motion.MeetingID})
    if mErr != nil {
      return nil, fmt.Errorf("Failed to fetch meeting: %w", mErr)
    }
    if len(meetings) == 0 || meetings[0].OrganizationID != motion.OrganizationID {
      return nil, fmt.Errorf("Meeting not found in this organization")
    }
  }
  motion.ID = uuid.New()
  motion.MoverID = actor.ID
  motion.Status = types.MotionStatusDraft
  if _, cErr := ms.motionRepo.Create(ctx, nil, []*types.Motion{motion}); cErr != nil {
    return nil, fmt.Errorf("Failed to create motion: %w", cErr)
  }
  return motion, nil
}

func (ms *motionService) GetMotion(ctx context.Context, orgID, motionID uuid.UUID) (*types.Motion, error) {
  if _, err := requireMembership(ctx, nil, ms.membershipRepo, orgID); err != nil {
    return nil, err
  }
  return ms.loadOrgMotion(ctx, orgID, motionID)
}

func (ms *motionService) ListMotions(ctx context.Context, orgID uuid.UUID) ([]*types.Motion, error) {
  if _, err := requireMembership(ctx, nil, ms.membershipRepo, orgID); err != nil {
    return nil, err
  }
  motions, err := ms.motionRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list motions: %w", err)
  }
  return motions, nil
}

func (ms *motionService) UpdateMotion(ctx context.Context, orgID, motionID uuid.UUID, input UpdateMotionInput) (*types.Motion, error) {
  actor, err := requireMembership(ctx, nil, ms.membershipRepo, orgID)
  if err != nil {
    return nil, err
  }
  motion, mErr := ms.loadOrgMotion(ctx, orgID, motionID)
  if mErr != nil {
    return nil, mErr
  }
  if motion.Status != types.MotionStatusDraft {
    return nil, fmt.Errorf("Only draft motions can be edited")
  }
  if !ms.canManage(actor, motion) {
    return nil, ErrInsufficientRole
  }
  if input.Title != nil {
    title := normalization.TrimInputString(*input.Title)
    if title == "" {
      return nil, fmt.Errorf("Motion title cannot be empty")
    }
    motion.Title = title
  }
  if input.Body != nil {
    motion.Body = *input.Body
  }
  if input.Threshold != nil {
    if !validThreshold(*input.Threshold) {
      return nil, fmt.Errorf("Unknown threshold %q", *input.Threshold)
    }
    motion.Threshold = *input.Threshold
  }
  if uErr := ms.motionRepo.Update(ctx, nil, motion); uErr != nil {
    return nil, fmt.Errorf("Failed to update motion: %w", uErr)
  }
  return motion, nil
}

func (ms *motionService) OpenMotion(ctx context.Context, orgID, motionID uuid.UUID) (*types.Motion, error) {
  if _, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  motion, mErr := ms.loadOrgMotion(ctx, orgID, motionID)
  if mErr != nil {
    return nil, mErr
  }
  if motion.Status != types.MotionStatusDraft {
    return nil, fmt.Errorf("Motion is %s, expected %s", motion.Status, types.MotionStatusDraft)
  }
  motion.Status = types.MotionStatusOpen
  if uErr := ms.motionRepo.Update(ctx, nil, motion); uErr != nil {
    return nil, fmt.Errorf("Failed to update motion: %w", uErr)
  }
  return motion, nil
}

func (ms *motionService) WithdrawMotion(ctx context.Context, orgID, motionID uuid.UUID) (*types.Motion, error) {
  actor, err := requireMembership(ctx, nil, ms.membershipRepo, orgID)
  if err != nil {
    return nil, err
  }
  motion, mErr := ms.loadOrgMotion(ctx, orgID, motionID)
  if mErr != nil {
    return nil, mErr
  }
  if motion.Status != types.MotionStatusDraft && motion.Status != types.MotionStatusOpen {
    return nil, fmt.Errorf("Only draft or open motions can be withdrawn")
  }
  if !ms.canManage(actor, motion) {
    return nil, ErrInsufficientRole
  }
  motion.Status = types.MotionStatusWithdrawn
  if uErr := ms.motionRepo.Update(ctx, nil, motion); uErr != nil {
    return nil, fmt.Errorf("Failed to withdraw motion: %w", uErr)
  }
  return motion, nil
}

// canManage allows the mover and officers to edit or withdraw.
func (ms *motionService) canManage(actor *types.Membership, motion *types.Motion) bool {
  if actor.ID == motion.MoverID {
    return true
  }
  return types.RoleRank(actor.Role) >= types.RoleRank(types.RoleOfficer)
}

func (ms *motionService) loadOrgMotion(ctx context.Context, orgID, motionID uuid.UUID) (*types.Motion, error) {
  motions, err := ms.motionRepo.GetByIDs(ctx, nil, []uuid.UUID{motionID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch motion: %w", err)
  }
  if len(motions) == 0 || motions[0].OrganizationID != orgID {
    return nil, fmt.Errorf("Motion not found in this organization")
  }
  return motions[0], nil
}
