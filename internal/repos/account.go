package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type AccountRepo interface {
  Create(ctx context.Context, tx *gorm.DB, accounts []*types.Account) ([]*types.Account, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) ([]*types.Account, error)
  GetByOrgAndCode(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, code string) (*types.Account, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Account, error)
  Update(ctx context.Context, tx *gorm.DB, account *types.Account) error
  ReferencedByLines(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (bool, error)
}

type accountRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
  repoLog := baseLog.With("repo", "AccountRepo")
  return &accountRepo{db: db, log: repoLog}
}

func (ar *accountRepo) Create(ctx context.Context, tx *gorm.DB, accounts []*types.Account) ([]*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  if len(accounts) == 0 {
    return []*types.Account{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&accounts).Error; err != nil {
    return nil, err
  }
  return accounts, nil
}

func (ar *accountRepo) GetByIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) ([]*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var results []*types.Account
  if len(accountIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", accountIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *accountRepo) GetByOrgAndCode(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, code string) (*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var result types.Account
  err := transaction.WithContext(ctx).
    Where("organization_id = ? AND code = ?", orgID, code).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (ar *accountRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var results []*types.Account
  if err := transaction.WithContext(ctx).
    Where("organization_id = ?", orgID).
    Order("code ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *accountRepo) Update(ctx context.Context, tx *gorm.DB, account *types.Account) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  return transaction.WithContext(ctx).Save(account).Error
}

func (ar *accountRepo) ReferencedByLines(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.JournalLine{}).
    Where("account_id = ?", accountID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
