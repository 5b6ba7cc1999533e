package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type PollRepo interface {
  Create(ctx context.Context, tx *gorm.DB, polls []*types.Poll) ([]*types.Poll, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, pollIDs []uuid.UUID) ([]*types.Poll, error)
  GetWithOptions(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (*types.Poll, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Poll, error)
  Update(ctx context.Context, tx *gorm.DB, poll *types.Poll) error
  CreateOptions(ctx context.Context, tx *gorm.DB, options []*types.PollOption) ([]*types.PollOption, error)
}

type pollRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPollRepo(db *gorm.DB, baseLog *logger.Logger) PollRepo {
  repoLog := baseLog.With("repo", "PollRepo")
  return &pollRepo{db: db, log: repoLog}
}

func (pr *pollRepo) Create(ctx context.Context, tx *gorm.DB, polls []*types.Poll) ([]*types.Poll, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  if len(polls) == 0 {
    return []*types.Poll{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&polls).Error; err != nil {
    return nil, err
  }
  return polls, nil
}

func (pr *pollRepo) GetByIDs(ctx context.Context, tx *gorm.DB, pollIDs []uuid.UUID) ([]*types.Poll, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var results []*types.Poll
  if len(pollIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", pollIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (pr *pollRepo) GetWithOptions(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (*types.Poll, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var result types.Poll
  err := transaction.WithContext(ctx).
    Preload("Options", func(db *gorm.DB) *gorm.DB {
      return db.Order("poll_option.position ASC")
    }).
    Where("id = ?", pollID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (pr *pollRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Poll, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var results []*types.Poll
  if err := transaction.WithContext(ctx).
    Preload("Options").
    Where("organization_id = ?", orgID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (pr *pollRepo) Update(ctx context.Context, tx *gorm.DB, poll *types.Poll) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).Save(poll).Error
}

func (pr *pollRepo) CreateOptions(ctx context.Context, tx *gorm.DB, options []*types.PollOption) ([]*types.PollOption, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  if len(options) == 0 {
    return []*types.PollOption{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&options).Error; err != nil {
    return nil, err
  }
  return options, nil
}
