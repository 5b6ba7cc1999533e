package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type ContactRepo interface {
  Create(ctx context.Context, tx *gorm.DB, contacts []*types.Contact) ([]*types.Contact, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) ([]*types.Contact, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, kind string) ([]*types.Contact, error)
  Update(ctx context.Context, tx *gorm.DB, contact *types.Contact) error
  Delete(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) error
}

type contactRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
  repoLog := baseLog.With("repo", "ContactRepo")
  return &contactRepo{db: db, log: repoLog}
}

func (cr *contactRepo) Create(ctx context.Context, tx *gorm.DB, contacts []*types.Contact) ([]*types.Contact, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(contacts) == 0 {
    return []*types.Contact{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&contacts).Error; err != nil {
    return nil, err
  }
  return contacts, nil
}

func (cr *contactRepo) GetByIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) ([]*types.Contact, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.Contact
  if len(contactIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", contactIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *contactRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, kind string) ([]*types.Contact, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  query := transaction.WithContext(ctx).
    Where("organization_id = ?", orgID)
  if kind != "" {
    query = query.Where("kind = ?", kind)
  }
  var results []*types.Contact
  if err := query.Order("last_name ASC, first_name ASC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *contactRepo) Update(ctx context.Context, tx *gorm.DB, contact *types.Contact) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).Save(contact).Error
}

func (cr *contactRepo) Delete(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).
    Where("id = ?", contactID).
    Delete(&types.Contact{}).Error
}
