package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type InteractionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, interactions []*types.Interaction) ([]*types.Interaction, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, interactionIDs []uuid.UUID) ([]*types.Interaction, error)
  ListByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) ([]*types.Interaction, error)
  Update(ctx context.Context, tx *gorm.DB, interaction *types.Interaction) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, interactionIDs []uuid.UUID) error
}

type interactionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
  repoLog := baseLog.With("repo", "InteractionRepo")
  return &interactionRepo{db: db, log: repoLog}
}

func (ir *interactionRepo) Create(ctx context.Context, tx *gorm.DB, interactions []*types.Interaction) ([]*types.Interaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }
  if len(interactions) == 0 {
    return []*types.Interaction{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&interactions).Error; err != nil {
    return nil, err
  }
  return interactions, nil
}

func (ir *interactionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, interactionIDs []uuid.UUID) ([]*types.Interaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }
  var results []*types.Interaction
  if len(interactionIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", interactionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ir *interactionRepo) ListByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) ([]*types.Interaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }
  var results []*types.Interaction
  if err := transaction.WithContext(ctx).
    Where("contact_id = ?", contactID).
    Order("occurred_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ir *interactionRepo) Update(ctx context.Context, tx *gorm.DB, interaction *types.Interaction) error {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }
  return transaction.WithContext(ctx).Save(interaction).Error
}

func (ir *interactionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, interactionIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }
  if len(interactionIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", interactionIDs).
    Delete(&types.Interaction{}).Error
}
