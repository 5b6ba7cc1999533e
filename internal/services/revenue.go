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

type ContractLineInput struct {
  Description     string   `json:"description"`
  SSPCents        int64    `json:"ssp_cents"`
  ServiceMonths   int      `json:"service_months"`
}

type CreateContractInput struct {
  Name              string               `json:"name"`
  ContactID         *uuid.UUID           `json:"contact_id"`
  TotalPriceCents   int64                `json:"total_price_cents"`
  StartDate         time.Time            `json:"start_date"`
  Lines             []ContractLineInput  `json:"lines"`
}

type RecognizeInput struct {
  ScheduleID          uuid.UUID   `json:"schedule_id"`
  DeferredAccountID   uuid.UUID   `json:"deferred_account_id"`
  RevenueAccountID    uuid.UUID   `json:"revenue_account_id"`
}

type RevenueService interface {
  CreateContract(ctx context.Context, orgID uuid.UUID, input CreateContractInput) (*types.Contract, error)
  GetContract(ctx context.Context, orgID, contractID uuid.UUID) (*types.Contract, error)
  ListContracts(ctx context.Context, orgID uuid.UUID) ([]*types.Contract, error)
  ActivateContract(ctx context.Context, orgID, contractID uuid.UUID) (*types.Contract, error)
  CancelContract(ctx context.Context, orgID, contractID uuid.UUID) (*types.Contract, error)
  RecognizeSchedule(ctx context.Context, orgID, contractID uuid.UUID, input RecognizeInput) (*types.RevenueSchedule, error)
}

type revenueService struct {
  db               *gorm.DB
  log              *logger.Logger
  contractRepo     repos.ContractRepo
  scheduleRepo     repos.RevenueScheduleRepo
  contactRepo      repos.ContactRepo
  membershipRepo   repos.MembershipRepo
  ledger           LedgerService
}

func NewRevenueService(
  db *gorm.DB,
  log *logger.Logger,
  contractRepo repos.ContractRepo,
  scheduleRepo repos.RevenueScheduleRepo,
  contactRepo repos.ContactRepo,
  membershipRepo repos.MembershipRepo,
  ledger LedgerService,
) RevenueService {
  serviceLog := log.With("service", "RevenueService")
  return &revenueService{
    db:             db,
    log:            serviceLog,
    contractRepo:   contractRepo,
    scheduleRepo:   scheduleRepo,
    contactRepo:    contactRepo,
    membershipRepo: membershipRepo,
    ledger:         ledger,
  }
}

// AllocateTransactionPrice splits the contract total across lines in
// proportion to each line's standalone selling price. Amounts are
// floored and the leftover cents land on the final line so the
// allocations always sum to the total.
func AllocateTransactionPrice(totalCents int64, sspCents []int64) ([]int64, error) {
  if totalCents <= 0 {
    return nil, fmt.Errorf("Contract total must be positive")
  }
  if len(sspCents) == 0 {
    return nil, fmt.Errorf("A contract needs at least one line")
  }
  var sspSum int64
  for _, ssp := range sspCents {
    if ssp <= 0 {
      return nil, fmt.Errorf("Standalone selling prices must be positive")
    }
    sspSum += ssp
  }
  allocated := make([]int64, len(sspCents))
  var running int64
  for i, ssp := range sspCents {
    if i == len(sspCents)-1 {
      allocated[i] = totalCents - running
      break
    }
    // Split the multiplication so large contract totals cannot
    // overflow int64 before the division.
    allocated[i] = (totalCents/sspSum)*ssp + (totalCents%sspSum)*ssp/sspSum
    running += allocated[i]
  }
  return allocated, nil
}

// BuildSchedules spreads a line's allocation straight-line across its
// service months, one period per month, remainder cents on the final
// period.
func BuildSchedules(lineID uuid.UUID, allocatedCents int64, months int, start time.Time) []*types.RevenueSchedule {
  if months < 1 {
    months = 1
  }
  per := allocatedCents / int64(months)
  schedules := make([]*types.RevenueSchedule, 0, months)
  var running int64
  for i := 0; i < months; i++ {
    amount := per
    if i == months-1 {
      amount = allocatedCents - running
    }
    running += amount
    schedules = append(schedules, &types.RevenueSchedule{
      ID:             uuid.New(),
      ContractLineID: lineID,
      PeriodStart:    start.AddDate(0, i, 0),
      AmountCents:    amount,
    })
  }
  return schedules
}

func (rs *revenueService) CreateContract(ctx context.Context, orgID uuid.UUID, input CreateContractInput) (*types.Contract, error) {
  if _, err := requireRank(ctx, nil, rs.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  name := normalization.TrimInputString(input.Name)
  if name == "" {
    return nil, fmt.Errorf("Contract name is required")
  }
  if input.StartDate.IsZero() {
    return nil, fmt.Errorf("Contract start date is required")
  }
  if len(input.Lines) == 0 {
    return nil, fmt.Errorf("A contract needs at least one line")
  }
  if input.ContactID != nil {
    contacts, cErr := rs.contactRepo.GetByIDs(ctx, nil, []uuid.UUID{*input.ContactID})
    if cErr != nil {
      return nil, fmt.Errorf("Failed to fetch contact: %w", cErr)
    }
    if len(contacts) == 0 || contacts[0].OrganizationID != orgID {
      return nil, fmt.Errorf("Contact not found in this organization")
    }
  }

  sspCents := make([]int64, 0, len(input.Lines))
  for _, l := range input.Lines {
    if normalization.TrimInputString(l.Description) == "" {
      return nil, fmt.Errorf("Contract line descriptions cannot be empty")
    }
    if l.ServiceMonths < 1 {
      return nil, fmt.Errorf("Service months must be at least one")
    }
    sspCents = append(sspCents, l.SSPCents)
  }
  allocated, aErr := AllocateTransactionPrice(input.TotalPriceCents, sspCents)
  if aErr != nil {
    return nil, aErr
  }

  contract := &types.Contract{
    ID:              uuid.New(),
    OrganizationID:  orgID,
    ContactID:       input.ContactID,
    Name:            name,
    Status:          types.ContractStatusDraft,
    TotalPriceCents: input.TotalPriceCents,
    StartDate:       input.StartDate,
  }
  lines := make([]*types.ContractLine, 0, len(input.Lines))
  for i, l := range input.Lines {
    lines = append(lines, &types.ContractLine{
      ID:             uuid.New(),
      ContractID:     contract.ID,
      Description:    normalization.TrimInputString(l.Description),
      SSPCents:       l.SSPCents,
      AllocatedCents: allocated[i],
      ServiceMonths:  l.ServiceMonths,
    })
  }

  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := rs.contractRepo.Create(ctx, tx, []*types.Contract{contract}); cErr != nil {
      return fmt.Errorf("Failed to create contract: %w", cErr)
    }
    if _, lErr := rs.contractRepo.CreateLines(ctx, tx, lines); lErr != nil {
      return fmt.Errorf("Failed to create contract lines: %w", lErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  contract.Lines = lines
  return contract, nil
}

func (rs *revenueService) GetContract(ctx context.Context, orgID, contractID uuid.UUID) (*types.Contract, error) {
  if _, err := requireMembership(ctx, nil, rs.membershipRepo, orgID); err != nil {
    return nil, err
  }
  return rs.loadOrgContract(ctx, nil, orgID, contractID)
}

func (rs *revenueService) ListContracts(ctx context.Context, orgID uuid.UUID) ([]*types.Contract, error) {
  if _, err := requireMembership(ctx, nil, rs.membershipRepo, orgID); err != nil {
    return nil, err
  }
  contracts, err := rs.contractRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list contracts: %w", err)
  }
  return contracts, nil
}

// ActivateContract moves a draft contract to active and generates the
// per-line recognition schedules.
func (rs *revenueService) ActivateContract(ctx context.Context, orgID, contractID uuid.UUID) (*types.Contract, error) {
  if _, err := requireRank(ctx, nil, rs.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  contract, cErr := rs.loadOrgContract(ctx, nil, orgID, contractID)
  if cErr != nil {
    return nil, cErr
  }
  if contract.Status != types.ContractStatusDraft {
    return nil, fmt.Errorf("Contract is %s, expected %s", contract.Status, types.ContractStatusDraft)
  }
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, line := range contract.Lines {
      schedules := BuildSchedules(line.ID, line.AllocatedCents, line.ServiceMonths, contract.StartDate)
      if _, sErr := rs.scheduleRepo.Create(ctx, tx, schedules); sErr != nil {
        return fmt.Errorf("Failed to create revenue schedules: %w", sErr)
      }
      line.Schedules = schedules
    }
    contract.Status = types.ContractStatusActive
    if uErr := rs.contractRepo.Update(ctx, tx, contract); uErr != nil {
      return fmt.Errorf("Failed to activate contract: %w", uErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return contract, nil
}

func (rs *revenueService) CancelContract(ctx context.Context, orgID, contractID uuid.UUID) (*types.Contract, error) {
  if _, err := requireRank(ctx, nil, rs.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  contract, cErr := rs.loadOrgContract(ctx, nil, orgID, contractID)
  if cErr != nil {
    return nil, cErr
  }
  if contract.Status == types.ContractStatusCompleted || contract.Status == types.ContractStatusCanceled {
    return nil, fmt.Errorf("Contract is already %s", contract.Status)
  }
  contract.Status = types.ContractStatusCanceled
  if uErr := rs.contractRepo.Update(ctx, nil, contract); uErr != nil {
    return nil, fmt.Errorf("Failed to cancel contract: %w", uErr)
  }
  return contract, nil
}

// RecognizeSchedule posts the deferred-to-earned journal entry for one
// period and marks the schedule recognized. The entry and the schedule
// update commit in one transaction.
func (rs *revenueService) RecognizeSchedule(ctx context.Context, orgID, contractID uuid.UUID, input RecognizeInput) (*types.RevenueSchedule, error) {
  actor, err := requireRank(ctx, nil, rs.membershipRepo, orgID, types.RoleOfficer)
  if err != nil {
    return nil, err
  }
  contract, cErr := rs.loadOrgContract(ctx, nil, orgID, contractID)
  if cErr != nil {
    return nil, cErr
  }
  if contract.Status != types.ContractStatusActive {
    return nil, fmt.Errorf("Revenue can only be recognized on active contracts")
  }

  var schedule *types.RevenueSchedule
  remaining := 0
  for _, line := range contract.Lines {
    for _, s := range line.Schedules {
      if s.ID == input.ScheduleID {
        schedule = s
      }
      if !s.Recognized {
        remaining++
      }
    }
  }
  if schedule == nil {
    return nil, fmt.Errorf("Schedule not found on this contract")
  }
  if schedule.Recognized {
    return nil, fmt.Errorf("Schedule period is already recognized")
  }

  txErr := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    entry, eErr := rs.ledger.PostEntryInTx(ctx, tx, orgID, actor.ID, PostEntryInput{
      EntryDate: schedule.PeriodStart,
      Memo:      fmt.Sprintf("Revenue recognition: %s", contract.Name),
      Source:    types.JournalSourceRevenue,
      Lines: []JournalLineInput{
        {AccountID: input.DeferredAccountID, Side: types.LineSideDebit, AmountCents: schedule.AmountCents},
        {AccountID: input.RevenueAccountID, Side: types.LineSideCredit, AmountCents: schedule.AmountCents},
      },
    })
    if eErr != nil {
      return eErr
    }
    now := time.Now()
    schedule.Recognized = true
    schedule.RecognizedAt = &now
    schedule.JournalEntryID = &entry.ID
    if uErr := rs.scheduleRepo.Update(ctx, tx, schedule); uErr != nil {
      return fmt.Errorf("Failed to update revenue schedule: %w", uErr)
    }
    // Last unrecognized period closes out the contract.
    if remaining == 1 {
      contract.Status = types.ContractStatusCompleted
      if uErr := rs.contractRepo.Update(ctx, tx, contract); uErr != nil {
        return fmt.Errorf("Failed to complete contract: %w", uErr)
      }
    }
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return schedule, nil
}

func (rs *revenueService) loadOrgContract(ctx context.Context, tx *gorm.DB, orgID, contractID uuid.UUID) (*types.Contract, error) {
  contract, err := rs.contractRepo.GetWithLines(ctx, tx, contractID)
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch contract: %w", err)
  }
  if contract == nil || contract.OrganizationID != orgID {
    return nil, fmt.Errorf("Contract not found in this organization")
  }
  return contract, nil
}
