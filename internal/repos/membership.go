package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type MembershipRepo interface {
  Create(ctx context.Context, tx *gorm.DB, memberships []*types.Membership) ([]*types.Membership, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, membershipIDs []uuid.UUID) ([]*types.Membership, error)
  GetByOrgAndUser(ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID) (*types.Membership, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Membership, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Membership, error)
  CountActiveByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) (int64, error)
  Update(ctx context.Context, tx *gorm.DB, membership *types.Membership) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, membershipIDs []uuid.UUID) error
}

type membershipRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
  repoLog := baseLog.With("repo", "MembershipRepo")
  return &membershipRepo{db: db, log: repoLog}
}

func (mr *membershipRepo) Create(ctx context.Context, tx *gorm.DB, memberships []*types.Membership) ([]*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(memberships) == 0 {
    return []*types.Membership{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&memberships).Error; err != nil {
    return nil, err
  }
  return memberships, nil
}

func (mr *membershipRepo) GetByIDs(ctx context.Context, tx *gorm.DB, membershipIDs []uuid.UUID) ([]*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Membership
  if len(membershipIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", membershipIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *membershipRepo) GetByOrgAndUser(ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID) (*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var result types.Membership
  err := transaction.WithContext(ctx).
    Where("organization_id = ? AND user_id = ?", orgID, userID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (mr *membershipRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Membership
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("organization_id = ?", orgID).
    Order("joined_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *membershipRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Membership
  if err := transaction.WithContext(ctx).
    Preload("Organization").
    Where("user_id = ?", userID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *membershipRepo) CountActiveByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Membership{}).
    Where("organization_id = ? AND status = ?", orgID, types.MembershipStatusActive).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (mr *membershipRepo) Update(ctx context.Context, tx *gorm.DB, membership *types.Membership) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(membership).Error
}

func (mr *membershipRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, membershipIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(membershipIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", membershipIDs).
    Delete(&types.Membership{}).Error
}
