package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type MinutesRepo interface {
  Create(ctx context.Context, tx *gorm.DB, minutes []*types.Minutes) ([]*types.Minutes, error)
  GetByMeeting(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) (*types.Minutes, error)
  Update(ctx context.Context, tx *gorm.DB, minutes *types.Minutes) error
}

type minutesRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMinutesRepo(db *gorm.DB, baseLog *logger.Logger) MinutesRepo {
  repoLog := baseLog.With("repo", "MinutesRepo")
  return &minutesRepo{db: db, log: repoLog}
}

func (mr *minutesRepo) Create(ctx context.Context, tx *gorm.DB, minutes []*types.Minutes) ([]*types.Minutes, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(minutes) == 0 {
    return []*types.Minutes{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&minutes).Error; err != nil {
    return nil, err
  }
  return minutes, nil
}

func (mr *minutesRepo) GetByMeeting(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) (*types.Minutes, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var result types.Minutes
  err := transaction.WithContext(ctx).
    Where("meeting_id = ?", meetingID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (mr *minutesRepo) Update(ctx context.Context, tx *gorm.DB, minutes *types.Minutes) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(minutes).Error
}
