package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type TrialBalanceRow struct {
  AccountID     uuid.UUID   `json:"account_id"`
  DebitCents    int64       `json:"debit_cents"`
  CreditCents   int64       `json:"credit_cents"`
}

type JournalEntryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.JournalEntry) ([]*types.JournalEntry, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, entryIDs []uuid.UUID) ([]*types.JournalEntry, error)
  GetWithLines(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (*types.JournalEntry, error)
  ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.JournalEntry, error)
  Update(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) error
  CreateLines(ctx context.Context, tx *gorm.DB, lines []*types.JournalLine) ([]*types.JournalLine, error)
  SumPostedByAccount(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*TrialBalanceRow, error)
}

type journalEntryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewJournalEntryRepo(db *gorm.DB, baseLog *logger.Logger) JournalEntryRepo {
  repoLog := baseLog.With("repo", "JournalEntryRepo")
  return &journalEntryRepo{db: db, log: repoLog}
}

func (jr *journalEntryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.JournalEntry) ([]*types.JournalEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }
  if len(entries) == 0 {
    return []*types.JournalEntry{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, err
  }
  return entries, nil
}

func (jr *journalEntryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, entryIDs []uuid.UUID) ([]*types.JournalEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }
  var results []*types.JournalEntry
  if len(entryIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", entryIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (jr *journalEntryRepo) GetWithLines(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (*types.JournalEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }
  var result types.JournalEntry
  err := transaction.WithContext(ctx).
    Preload("Lines").
    Preload("Lines.Account").
    Where("id = ?", entryID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (jr *journalEntryRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.JournalEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }
  var results []*types.JournalEntry
  if err := transaction.WithContext(ctx).
    Preload("Lines").
    Where("organization_id = ?", orgID).
    Order("entry_date DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (jr *journalEntryRepo) Update(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) error {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }
  return transaction.WithContext(ctx).Save(entry).Error
}

func (jr *journalEntryRepo) CreateLines(ctx context.Context, tx *gorm.DB, lines []*types.JournalLine) ([]*types.JournalLine, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }
  if len(lines) == 0 {
    return []*types.JournalLine{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
    return nil, err
  }
  return lines, nil
}

func (jr *journalEntryRepo) SumPostedByAccount(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*TrialBalanceRow, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }
  var rows []*TrialBalanceRow
  err := transaction.WithContext(ctx).
    Model(&types.JournalLine{}).
    Select(`journal_line.account_id AS account_id,
      COALESCE(SUM(CASE WHEN journal_line.side = 'debit' THEN journal_line.amount_cents ELSE 0 END), 0) AS debit_cents,
      COALESCE(SUM(CASE WHEN journal_line.side = 'credit' THEN journal_line.amount_cents ELSE 0 END), 0) AS credit_cents`).
    Joins(`JOIN journal_entry ON journal_entry.id = journal_line.entry_id`).
    Where("journal_entry.organization_id = ? AND journal_entry.status = ?", orgID, types.JournalEntryStatusPosted).
    Group("journal_line.account_id").
    Scan(&rows).Error
  if err != nil {
    return nil, err
  }
  return rows, nil
}
