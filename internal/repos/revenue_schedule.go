package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type RevenueScheduleRepo interface {
  Create(ctx context.Context, tx *gorm.DB, schedules []*types.RevenueSchedule) ([]*types.RevenueSchedule, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, scheduleIDs []uuid.UUID) ([]*types.RevenueSchedule, error)
  ListByContractLine(ctx context.Context, tx *gorm.DB, lineID uuid.UUID) ([]*types.RevenueSchedule, error)
  Update(ctx context.Context, tx *gorm.DB, schedule *types.RevenueSchedule) error
}

type revenueScheduleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRevenueScheduleRepo(db *gorm.DB, baseLog *logger.Logger) RevenueScheduleRepo {
  repoLog := baseLog.With("repo", "RevenueScheduleRepo")
  return &revenueScheduleRepo{db: db, log: repoLog}
}

func (rr *revenueScheduleRepo) Create(ctx context.Context, tx *gorm.DB, schedules []*types.RevenueSchedule) ([]*types.RevenueSchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(schedules) == 0 {
    return []*types.RevenueSchedule{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&schedules).Error; err != nil {
    return nil, err
  }
  return schedules, nil
}

func (rr *revenueScheduleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, scheduleIDs []uuid.UUID) ([]*types.RevenueSchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.RevenueSchedule
  if len(scheduleIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", scheduleIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *revenueScheduleRepo) ListByContractLine(ctx context.Context, tx *gorm.DB, lineID uuid.UUID) ([]*types.RevenueSchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.RevenueSchedule
  if err := transaction.WithContext(ctx).
    Where("contract_line_id = ?", lineID).
    Order("period_start ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *revenueScheduleRepo) Update(ctx context.Context, tx *gorm.DB, schedule *types.RevenueSchedule) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  return transaction.WithContext(ctx).Save(schedule).Error
}
