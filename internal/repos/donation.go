package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type DonationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, donations []*types.Donation) ([]*types.Donation, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, donationIDs []uuid.UUID) ([]*types.Donation, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Donation, error)
  ListByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) ([]*types.Donation, error)
  Update(ctx context.Context, tx *gorm.DB, donation *types.Donation) error
}

type donationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDonationRepo(db *gorm.DB, baseLog *logger.Logger) DonationRepo {
  repoLog := baseLog.With("repo", "DonationRepo")
  return &donationRepo{db: db, log: repoLog}
}

func (dr *donationRepo) Create(ctx context.Context, tx *gorm.DB, donations []*types.Donation) ([]*types.Donation, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }
  if len(donations) == 0 {
    return []*types.Donation{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&donations).Error; err != nil {
    return nil, err
  }
  return donations, nil
}

func (dr *donationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, donationIDs []uuid.UUID) ([]*types.Donation, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }
  var results []*types.Donation
  if len(donationIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", donationIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *donationRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Donation, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }
  var results []*types.Donation
  if err := transaction.WithContext(ctx).
    Preload("Contact").
    Where("organization_id = ?", orgID).
    Order("received_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *donationRepo) ListByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) ([]*types.Donation, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }
  var results []*types.Donation
  if err := transaction.WithContext(ctx).
    Where("contact_id = ?", contactID).
    Order("received_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *donationRepo) Update(ctx context.Context, tx *gorm.DB, donation *types.Donation) error {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }
  return transaction.WithContext(ctx).Save(donation).Error
}
