package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type MeetingRepo interface {
  Create(ctx context.Context, tx *gorm.DB, meetings []*types.Meeting) ([]*types.Meeting, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, meetingIDs []uuid.UUID) ([]*types.Meeting, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Meeting, error)
  Update(ctx context.Context, tx *gorm.DB, meeting *types.Meeting) error
}

type meetingRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
  repoLog := baseLog.With("repo", "MeetingRepo")
  return &meetingRepo{db: db, log: repoLog}
}

func (mr *meetingRepo) Create(ctx context.Context, tx *gorm.DB, meetings []*types.Meeting) ([]*types.Meeting, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(meetings) == 0 {
    return []*types.Meeting{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&meetings).Error; err != nil {
    return nil, err
  }
  return meetings, nil
}

func (mr *meetingRepo) GetByIDs(ctx context.Context, tx *gorm.DB, meetingIDs []uuid.UUID) ([]*types.Meeting, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Meeting
  if len(meetingIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", meetingIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *meetingRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Meeting, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Meeting
  if err := transaction.WithContext(ctx).
    Where("organization_id = ?", orgID).
    Order("scheduled_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *meetingRepo) Update(ctx context.Context, tx *gorm.DB, meeting *types.Meeting) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(meeting).Error
}
