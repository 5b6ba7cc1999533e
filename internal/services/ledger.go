package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type CreateAccountInput struct {
  Code   string   `json:"code"`
  Name   string   `json:"name"`
  Type   string   `json:"type"`
}

type UpdateAccountInput struct {
  Name     *string   `json:"name"`
  Active   *bool     `json:"active"`
}

type JournalLineInput struct {
  AccountID     uuid.UUID   `json:"account_id"`
  Side          string      `json:"side"`
  AmountCents   int64       `json:"amount_cents"`
  Description   string      `json:"description"`
}

type PostEntryInput struct {
  EntryDate   time.Time           `json:"entry_date"`
  Memo        string              `json:"memo"`
  Source      string              `json:"source"`
  Lines       []JournalLineInput  `json:"lines"`
}

type TrialBalanceLine struct {
  AccountID      uuid.UUID   `json:"account_id"`
  Code           string      `json:"code"`
  Name           string      `json:"name"`
  Type           string      `json:"type"`
  DebitCents     int64       `json:"debit_cents"`
  CreditCents    int64       `json:"credit_cents"`
  // BalanceCents is signed toward the account's normal side.
  BalanceCents   int64       `json:"balance_cents"`
}

type TrialBalance struct {
  OrganizationID     uuid.UUID           `json:"organization_id"`
  Lines              []TrialBalanceLine  `json:"lines"`
  TotalDebitCents    int64               `json:"total_debit_cents"`
  TotalCreditCents   int64               `json:"total_credit_cents"`
}

type LedgerService interface {
  CreateAccount(ctx context.Context, orgID uuid.UUID, input CreateAccountInput) (*types.Account, error)
  ListAccounts(ctx context.Context, orgID uuid.UUID) ([]*types.Account, error)
  UpdateAccount(ctx context.Context, orgID, accountID uuid.UUID, input UpdateAccountInput) (*types.Account, error)
  DeleteAccount(ctx context.Context, orgID, accountID uuid.UUID) error
  PostEntry(ctx context.Context, orgID uuid.UUID, input PostEntryInput) (*types.JournalEntry, error)
  // PostEntryInTx lets other services attach a ledger entry to their
  // own transaction. Membership checks are the caller's job.
  PostEntryInTx(ctx context.Context, tx *gorm.DB, orgID, postedBy uuid.UUID, input PostEntryInput) (*types.JournalEntry, error)
  GetEntry(ctx context.Context, orgID, entryID uuid.UUID) (*types.JournalEntry, error)
  ListEntries(ctx context.Context, orgID uuid.UUID) ([]*types.JournalEntry, error)
  VoidEntry(ctx context.Context, orgID, entryID uuid.UUID) (*types.JournalEntry, error)
  TrialBalance(ctx context.Context, orgID uuid.UUID) (*TrialBalance, error)
}

type ledgerService struct {
  db               *gorm.DB
  log              *logger.Logger
  accountRepo      repos.AccountRepo
  entryRepo        repos.JournalEntryRepo
  membershipRepo   repos.MembershipRepo
}

func NewLedgerService(
  db *gorm.DB,
  log *logger.Logger,
  accountRepo repos.AccountRepo,
  entryRepo repos.JournalEntryRepo,
  membershipRepo repos.MembershipRepo,
) LedgerService {
  serviceLog := log.With("service", "LedgerService")
  return &ledgerService{
    db:             db,
    log:            serviceLog,
    accountRepo:    accountRepo,
    entryRepo:      entryRepo,
    membershipRepo: membershipRepo,
  }
}

func (ls *ledgerService) CreateAccount(ctx context.Context, orgID uuid.UUID, input CreateAccountInput) (*types.Account, error) {
  if _, err := requireRank(ctx, nil, ls.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  code := normalization.TrimInputString(input.Code)
  name := normalization.TrimInputString(input.Name)
  if code == "" || name == "" {
    return nil, fmt.Errorf("Account code and name are required")
  }
  if !types.ValidAccountType(input.Type) {
    return nil, fmt.Errorf("Unknown account type %q", input.Type)
  }
  existing, err := ls.accountRepo.GetByOrgAndCode(ctx, nil, orgID, code)
  if err != nil {
    return nil, fmt.Errorf("Failed to check account code: %w", err)
  }
  if existing != nil {
    return nil, fmt.Errorf("Account code %s is already in use", code)
  }
  account := &types.Account{
    ID:             uuid.New(),
    OrganizationID: orgID,
    Code:           code,
    Name:           name,
    Type:           input.Type,
    Active:         true,
  }
  if _, cErr := ls.accountRepo.Create(ctx, nil, []*types.Account{account}); cErr != nil {
    return nil, fmt.Errorf("Failed to create account: %w", cErr)
  }
  return account, nil
}

func (ls *ledgerService) ListAccounts(ctx context.Context, orgID uuid.UUID) ([]*types.Account, error) {
  if _, err := requireMembership(ctx, nil, ls.membershipRepo, orgID); err != nil {
    return nil, err
  }
  accounts, err := ls.accountRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list accounts: %w", err)
  }
  return accounts, nil
}

func (ls *ledgerService) UpdateAccount(ctx context.Context, orgID, accountID uuid.UUID, input UpdateAccountInput) (*types.Account, error) {
  if _, err := requireRank(ctx, nil, ls.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  account, err := ls.loadOrgAccount(ctx, nil, orgID, accountID)
  if err != nil {
    return nil, err
  }
  if input.Name != nil {
    name := normalization.TrimInputString(*input.Name)
    if name == "" {
      return nil, fmt.Errorf("Account name cannot be empty")
    }
    account.Name = name
  }
  if input.Active != nil {
    account.Active = *input.Active
  }
  if uErr := ls.accountRepo.Update(ctx, nil, account); uErr != nil {
    return nil, fmt.Errorf("Failed to update account: %w", uErr)
  }
  return account, nil
}

// DeleteAccount deactivates instead of deleting when the account is
// already referenced by journal lines, so posted history stays intact.
func (ls *ledgerService) DeleteAccount(ctx context.Context, orgID, accountID uuid.UUID) error {
  if _, err := requireRank(ctx, nil, ls.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return err
  }
  account, err := ls.loadOrgAccount(ctx, nil, orgID, accountID)
  if err != nil {
    return err
  }
  referenced, rErr := ls.accountRepo.ReferencedByLines(ctx, nil, accountID)
  if rErr != nil {
    return fmt.Errorf("Failed to check account references: %w", rErr)
  }
  if referenced {
    account.Active = false
    if uErr := ls.accountRepo.Update(ctx, nil, account); uErr != nil {
      return fmt.Errorf("Failed to deactivate account: %w", uErr)
    }
    return nil
  }
  return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := tx.Where("id = ?", accountID).Delete(&types.Account{}).Error; dErr != nil {
      return fmt.Errorf("Failed to delete account: %w", dErr)
    }
    return nil
  })
}

func (ls *ledgerService) PostEntry(ctx context.Context, orgID uuid.UUID, input PostEntryInput) (*types.JournalEntry, error) {
  actor, err := requireRank(ctx, nil, ls.membershipRepo, orgID, types.RoleOfficer)
  if err != nil {
    return nil, err
  }
  source := input.Source
  if source == "" {
    source = types.JournalSourceManual
  }
  entryDate := input.EntryDate
  if entryDate.IsZero() {
    entryDate = time.Now()
  }

  var entry *types.JournalEntry
  txErr := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    var bErr error
    entry, bErr = ls.buildEntry(ctx, tx, orgID, actor.ID, entryDate, input.Memo, source, input.Lines)
    if bErr != nil {
      return bErr
    }
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return entry, nil
}

func (ls *ledgerService) PostEntryInTx(ctx context.Context, tx *gorm.DB, orgID, postedBy uuid.UUID, input PostEntryInput) (*types.JournalEntry, error) {
  source := input.Source
  if source == "" {
    source = types.JournalSourceManual
  }
  entryDate := input.EntryDate
  if entryDate.IsZero() {
    entryDate = time.Now()
  }
  return ls.buildEntry(ctx, tx, orgID, postedBy, entryDate, input.Memo, source, input.Lines)
}

// buildEntry validates and persists a balanced entry inside the
// caller's transaction. The revenue and donation paths reuse it so a
// schedule recognition and its ledger entry commit together.
func (ls *ledgerService) buildEntry(
  ctx context.Context,
  tx *gorm.DB,
  orgID, postedBy uuid.UUID,
  entryDate time.Time,
  memo, source string,
  lines []JournalLineInput,
) (*types.JournalEntry, error) {
  if len(lines) < 2 {
    return nil, fmt.Errorf("A journal entry needs at least two lines")
  }
  accountIDs := make([]uuid.UUID, 0, len(lines))
  for _, l := range lines {
    accountIDs = append(accountIDs, l.AccountID)
  }
  accounts, aErr := ls.accountRepo.GetByIDs(ctx, tx, accountIDs)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to fetch accounts: %w", aErr)
  }
  byID := make(map[uuid.UUID]*types.Account, len(accounts))
  for _, a := range accounts {
    byID[a.ID] = a
  }

  var debits, credits int64
  entryID := uuid.New()
  rows := make([]*types.JournalLine, 0, len(lines))
  for _, l := range lines {
    account, ok := byID[l.AccountID]
    if !ok || account.OrganizationID != orgID {
      return nil, fmt.Errorf("Account %s not found in this organization", l.AccountID)
    }
    if !account.Active {
      return nil, fmt.Errorf("Account %s is inactive", account.Code)
    }
    if l.AmountCents <= 0 {
      return nil, fmt.Errorf("Line amounts must be positive")
    }
    switch l.Side {
    case types.LineSideDebit:
      debits += l.AmountCents
    case types.LineSideCredit:
      credits += l.AmountCents
    default:
      return nil, fmt.Errorf("Unknown line side %q", l.Side)
    }
    rows = append(rows, &types.JournalLine{
      ID:          uuid.New(),
      EntryID:     entryID,
      AccountID:   l.AccountID,
      Side:        l.Side,
      AmountCents: l.AmountCents,
      Description: l.Description,
    })
  }
  if debits != credits {
    return nil, fmt.Errorf("Entry does not balance: debits=%d credits=%d", debits, credits)
  }

  entry := &types.JournalEntry{
    ID:             entryID,
    OrganizationID: orgID,
    EntryDate:      entryDate,
    Memo:           memo,
    Status:         types.JournalEntryStatusPosted,
    Source:         source,
    PostedBy:       postedBy,
  }
  if _, cErr := ls.entryRepo.Create(ctx, tx, []*types.JournalEntry{entry}); cErr != nil {
    return nil, fmt.Errorf("Failed to create journal entry: %w", cErr)
  }
  if _, lErr := ls.entryRepo.CreateLines(ctx, tx, rows); lErr != nil {
    return nil, fmt.Errorf("Failed to create journal lines: %w", lErr)
  }
  entry.Lines = rows
  return entry, nil
}

func (ls *ledgerService) GetEntry(ctx context.Context, orgID, entryID uuid.UUID) (*types.JournalEntry, error) {
  if _, err := requireMembership(ctx, nil, ls.membershipRepo, orgID); err != nil {
    return nil, err
  }
  entry, err := ls.entryRepo.GetWithLines(ctx, nil, entryID)
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch journal entry: %w", err)
  }
  if entry == nil || entry.OrganizationID != orgID {
    return nil, fmt.Errorf("Journal entry not found in this organization")
  }
  return entry, nil
}

func (ls *ledgerService) ListEntries(ctx context.Context, orgID uuid.UUID) ([]*types.JournalEntry, error) {
  if _, err := requireMembership(ctx, nil, ls.membershipRepo, orgID); err != nil {
    return nil, err
  }
  entries, err := ls.entryRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list journal entries: %w", err)
  }
  return entries, nil
}

// VoidEntry marks the entry void; posted entries are never deleted.
func (ls *ledgerService) VoidEntry(ctx context.Context, orgID, entryID uuid.UUID) (*types.JournalEntry, error) {
  if _, err := requireRank(ctx, nil, ls.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  entry, err := ls.entryRepo.GetWithLines(ctx, nil, entryID)
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch journal entry: %w", err)
  }
  if entry == nil || entry.OrganizationID != orgID {
    return nil, fmt.Errorf("Journal entry not found in this organization")
  }
  if entry.Status == types.JournalEntryStatusVoid {
    return nil, fmt.Errorf("Journal entry is already void")
  }
  entry.Status = types.JournalEntryStatusVoid
  if uErr := ls.entryRepo.Update(ctx, nil, entry); uErr != nil {
    return nil, fmt.Errorf("Failed to void journal entry: %w", uErr)
  }
  return entry, nil
}

func (ls *ledgerService) TrialBalance(ctx context.Context, orgID uuid.UUID) (*TrialBalance, error) {
  if _, err := requireMembership(ctx, nil, ls.membershipRepo, orgID); err != nil {
    return nil, err
  }
  rows, err := ls.entryRepo.SumPostedByAccount(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to aggregate journal lines: %w", err)
  }
  accounts, aErr := ls.accountRepo.ListByOrg(ctx, nil, orgID)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to list accounts: %w", aErr)
  }
  sums := make(map[uuid.UUID]*repos.TrialBalanceRow, len(rows))
  for _, r := range rows {
    sums[r.AccountID] = r
  }

  tb := &TrialBalance{OrganizationID: orgID, Lines: make([]TrialBalanceLine, 0, len(accounts))}
  for _, account := range accounts {
    line := TrialBalanceLine{
      AccountID: account.ID,
      Code:      account.Code,
      Name:      account.Name,
      Type:      account.Type,
    }
    if r, ok := sums[account.ID]; ok {
      line.DebitCents = r.DebitCents
      line.CreditCents = r.CreditCents
    }
    if types.DebitNormal(account.Type) {
      line.BalanceCents = line.DebitCents - line.CreditCents
    } else {
      line.BalanceCents = line.CreditCents - line.DebitCents
    }
    tb.TotalDebitCents += line.DebitCents
    tb.TotalCreditCents += line.CreditCents
    tb.Lines = append(tb.Lines, line)
  }
  return tb, nil
}

func (ls *ledgerService) loadOrgAccount(ctx context.Context, tx *gorm.DB, orgID, accountID uuid.UUID) (*types.Account, error) {
  accounts, err := ls.accountRepo.GetByIDs(ctx, tx, []uuid.UUID{accountID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch account: %w", err)
  }
  if len(accounts) == 0 || accounts[0].OrganizationID != orgID {
    return nil, fmt.Errorf("Account not found in this organization")
  }
  return accounts[0], nil
}
