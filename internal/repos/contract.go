package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type ContractRepo interface {
  Create(ctx context.Context, tx *gorm.DB, contracts []*types.Contract) ([]*types.Contract, error)
  GetWithLines(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Contract, error)
  Update(ctx context.Context, tx *gorm.DB, contract *types.Contract) error
  CreateLines(ctx context.Context, tx *gorm.DB, lines []*types.ContractLine) ([]*types.ContractLine, error)
  UpdateLine(ctx context.Context, tx *gorm.DB, line *types.ContractLine) error
}

type contractRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
  repoLog := baseLog.With("repo", "ContractRepo")
  return &contractRepo{db: db, log: repoLog}
}

func (cr *contractRepo) Create(ctx context.Context, tx *gorm.DB, contracts []*types.Contract) ([]*types.Contract, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(contracts) == 0 {
    return []*types.Contract{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&contracts).Error; err != nil {
    return nil, err
  }
  return contracts, nil
}

func (cr *contractRepo) GetWithLines(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var result types.Contract
  err := transaction.WithContext(ctx).
    Preload("Lines").
    Preload("Lines.Schedules", func(db *gorm.DB) *gorm.DB {
      return db.Order("revenue_schedule.period_start ASC")
    }).
    Where("id = ?", contractID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (cr *contractRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Contract, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.Contract
  if err := transaction.WithContext(ctx).
    Preload("Lines").
    Where("organization_id = ?", orgID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *contractRepo) Update(ctx context.Context, tx *gorm.DB, contract *types.Contract) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).Save(contract).Error
}

func (cr *contractRepo) CreateLines(ctx context.Context, tx *gorm.DB, lines []*types.ContractLine) ([]*types.ContractLine, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(lines) == 0 {
    return []*types.ContractLine{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
    return nil, err
  }
  return lines, nil
}

func (cr *contractRepo) UpdateLine(ctx context.Context, tx *gorm.DB, line *types.ContractLine) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).Save(line).Error
}
