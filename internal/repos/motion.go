package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type MotionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, motions []*types.Motion) ([]*types.Motion, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, motionIDs []uuid.UUID) ([]*types.Motion, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Motion, error)
  Update(ctx context.Context, tx *gorm.DB, motion *types.Motion) error
}

type motionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMotionRepo(db *gorm.DB, baseLog *logger.Logger) MotionRepo {
  repoLog := baseLog.With("repo", "MotionRepo")
  return &motionRepo{db: db, log: repoLog}
}

func (mr *motionRepo) Create(ctx context.Context, tx *gorm.DB, motions []*types.Motion) ([]*types.Motion, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(motions) == 0 {
    return []*types.Motion{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&motions).Error; err != nil {
    return nil, err
  }
  return motions, nil
}

func (mr *motionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, motionIDs []uuid.UUID) ([]*types.Motion, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Motion
  if len(motionIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", motionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *motionRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Motion, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Motion
  if err := transaction.WithContext(ctx).
    Where("organization_id = ?", orgID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *motionRepo) Update(ctx context.Context, tx *gorm.DB, motion *types.Motion) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(motion).Error
}
