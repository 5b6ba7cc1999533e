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

type UpdateContactInput struct {
  Kind        *string   `json:"kind"`
  FirstName   *string   `json:"first_name"`
  LastName    *string   `json:"last_name"`
  Email       *string   `json:"email"`
  Phone       *string   `json:"phone"`
  Notes       *string   `json:"notes"`
}

type RecordDonationInput struct {
  ContactID     uuid.UUID    `json:"contact_id"`
  AmountCents   int64        `json:"amount_cents"`
  Method        string       `json:"method"`
  ReceivedAt    time.Time    `json:"received_at"`
  // When both accounts are set the donation also posts a ledger entry.
  CashAccountID       *uuid.UUID   `json:"cash_account_id"`
  RevenueAccountID    *uuid.UUID   `json:"revenue_account_id"`
}

type ContactService interface {
  CreateContact(ctx context.Context, contact *types.Contact) (*types.Contact, error)
  GetContact(ctx context.Context, orgID, contactID uuid.UUID) (*types.Contact, error)
  ListContacts(ctx context.Context, orgID uuid.UUID, kind string) ([]*types.Contact, error)
  UpdateContact(ctx context.Context, orgID, contactID uuid.UUID, input UpdateContactInput) (*types.Contact, error)
  DeleteContact(ctx context.Context, orgID, contactID uuid.UUID) error
  RecordInteraction(ctx context.Context, orgID uuid.UUID, interaction *types.Interaction) (*types.Interaction, error)
  ListInteractions(ctx context.Context, orgID, contactID uuid.UUID) ([]*types.Interaction, error)
  RecordDonation(ctx context.Context, orgID uuid.UUID, input RecordDonationInput) (*types.Donation, error)
  ListDonations(ctx context.Context, orgID uuid.UUID) ([]*types.Donation, error)
}

type contactService struct {
  db                *gorm.DB
  log               *logger.Logger
  contactRepo       repos.ContactRepo
  interactionRepo   repos.InteractionRepo
  donationRepo      repos.DonationRepo
  membershipRepo    repos.MembershipRepo
  ledger            LedgerService
}

func NewContactService(
  db *gorm.DB,
  log *logger.Logger,
  contactRepo repos.ContactRepo,
  interactionRepo repos.InteractionRepo,
  donationRepo repos.DonationRepo,
  membershipRepo repos.MembershipRepo,
  ledger LedgerService,
) ContactService {
  serviceLog := log.With("service", "ContactService")
  return &contactService{
    db:              db,
    log:             serviceLog,
    contactRepo:     contactRepo,
    interactionRepo: interactionRepo,
    donationRepo:    donationRepo,
    membershipRepo:  membershipRepo,
    ledger:          ledger,
  }
}

func validContactKind(kind string) bool {
  switch kind {
  case types.ContactKindDonor, types.ContactKindVendor, types.ContactKindProspect, types.ContactKindOther:
    return true
  }
  return false
}

func (cs *contactService) CreateContact(ctx context.Context, contact *types.Contact) (*types.Contact, error) {
  if _, err := requireMembership(ctx, nil, cs.membershipRepo, contact.OrganizationID); err != nil {
    return nil, err
  }
  contact.FirstName = normalization.TrimInputString(contact.FirstName)
  contact.LastName = normalization.TrimInputString(contact.LastName)
  contact.Email = normalization.ParseInputString(contact.Email)
  if contact.FirstName == "" {
    return nil, fmt.Errorf("Contact first name is required")
  }
  if contact.Kind == "" {
    contact.Kind = types.ContactKindOther
  }
  if !validContactKind(contact.Kind) {
    return nil, fmt.Errorf("Unknown contact kind %q", contact.Kind)
  }
  contact.ID = uuid.New()
  if _, err := cs.contactRepo.Create(ctx, nil, []*types.Contact{contact}); err != nil {
    return nil, fmt.Errorf("Failed to create contact: %w", err)
  }
  return contact, nil
}

func (cs *contactService) GetContact(ctx context.Context, orgID, contactID uuid.UUID) (*types.Contact, error) {
  if _, err := requireMembership(ctx, nil, cs.membershipRepo, orgID); err != nil {
    return nil, err
  }
  return cs.loadOrgContact(ctx, orgID, contactID)
}

func (cs *contactService) ListContacts(ctx context.Context, orgID uuid.UUID, kind string) ([]*types.Contact, error) {
  if _, err := requireMembership(ctx, nil, cs.membershipRepo, orgID); err != nil {
    return nil, err
  }
  if kind != "" && !validContactKind(kind) {
    return nil, fmt.Errorf("Unknown contact kind %q", kind)
  }
  contacts, err := cs.contactRepo.ListByOrg(ctx, nil, orgID, kind)
  if err != nil {
    return nil, fmt.Errorf("Failed to list contacts: %w", err)
  }
  return contacts, nil
}

func (cs *contactService) UpdateContact(ctx context.Context, orgID, contactID uuid.UUID, input UpdateContactInput) (*types.Contact, error) {
  if _, err := requireMembership(ctx, nil, cs.membershipRepo, orgID); err != nil {
    return nil, err
  }
  contact, cErr := cs.loadOrgContact(ctx, orgID, contactID)
  if cErr != nil {
    return nil, cErr
  }
  if input.Kind != nil {
    if !validContactKind(*input.Kind) {
      return nil, fmt.Errorf("Unknown contact kind %q", *input.Kind)
    }
    contact.Kind = *input.Kind
  }
  if input.FirstName != nil {
    firstName := normalization.TrimInputString(*input.FirstName)
    if firstName == "" {
      return nil, fmt.Errorf("Contact first name cannot be empty")
    }
    contact.FirstName = firstName
  }
  if input.LastName != nil {
    contact.LastName = normalization.TrimInputString(*input.LastName)
  }
  if input.Email != nil {
    contact.Email = normalization.ParseInputString(*input.Email)
  }
  if input.Phone != nil {
    contact.Phone = normalization.TrimInputString(*input.Phone)
  }
  if input.Notes != nil {
    contact.Notes = *input.Notes
  }
  if uErr := cs.contactRepo.Update(ctx, nil, contact); uErr != nil {
    return nil, fmt.Errorf("Failed to update contact: %w", uErr)
  }
  return contact, nil
}

func (cs *contactService) DeleteContact(ctx context.Context, orgID, contactID uuid.UUID) error {
  if _, err := requireRank(ctx, nil, cs.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return err
  }
  if _, err := cs.loadOrgContact(ctx, orgID, contactID); err != nil {
    return err
  }
  if dErr := cs.contactRepo.Delete(ctx, nil, contactID); dErr != nil {
    return fmt.Errorf("Failed to delete contact: %w", dErr)
  }
  return nil
}

func (cs *contactService) RecordInteraction(ctx context.Context, orgID uuid.UUID, interaction *types.Interaction) (*types.Interaction, error) {
  actor, err := requireMembership(ctx, nil, cs.membershipRepo, orgID)
  if err != nil {
    return nil, err
  }
  if _, cErr := cs.loadOrgContact(ctx, orgID, interaction.ContactID); cErr != nil {
    return nil, cErr
  }
  if interaction.Kind == "" {
    interaction.Kind = types.InteractionKindNote
  }
  switch interaction.Kind {
  case types.InteractionKindCall, types.InteractionKindEmail, types.InteractionKindMeeting, types.InteractionKindNote:
  default:
    return nil, fmt.Errorf("Unknown interaction kind %q", interaction.Kind)
  }
  if interaction.OccurredAt.IsZero() {
    interaction.OccurredAt = time.Now()
  }
  interaction.ID = uuid.New()
  interaction.MembershipID = &actor.ID
  if _, iErr := cs.interactionRepo.Create(ctx, nil, []*types.Interaction{interaction}); iErr != nil {
    return nil, fmt.Errorf("Failed to record interaction: %w", iErr)
  }
  return interaction, nil
}

func (cs *contactService) ListInteractions(ctx context.Context, orgID, contactID uuid.UUID) ([]*types.Interaction, error) {
  if _, err := requireMembership(ctx, nil, cs.membershipRepo, orgID); err != nil {
    return nil, err
  }
  if _, err := cs.loadOrgContact(ctx, orgID, contactID); err != nil {
    return nil, err
  }
  interactions, err := cs.interactionRepo.ListByContact(ctx, nil, contactID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list interactions: %w", err)
  }
  return interactions, nil
}

// RecordDonation stores the gift and, when cash and revenue accounts
// are supplied, posts the matching ledger entry in the same
// transaction.
func (cs *contactService) RecordDonation(ctx context.Context, orgID uuid.UUID, input RecordDonationInput) (*types.Donation, error) {
  actor, err := requireRank(ctx, nil, cs.membershipRepo, orgID, types.RoleOfficer)
  if err != nil {
    return nil, err
  }
  if _, cErr := cs.loadOrgContact(ctx, orgID, input.ContactID); cErr != nil {
    return nil, cErr
  }
  if input.AmountCents <= 0 {
    return nil, fmt.Errorf("Donation amount must be positive")
  }
  method := input.Method
  if method == "" {
    method = types.DonationMethodCash
  }
  switch method {
  case types.DonationMethodCash, types.DonationMethodCheck, types.DonationMethodCard, types.DonationMethodInKind:
  default:
    return nil, fmt.Errorf("Unknown donation method %q", method)
  }
  receivedAt := input.ReceivedAt
  if receivedAt.IsZero() {
    receivedAt = time.Now()
  }
  if (input.CashAccountID == nil) != (input.RevenueAccountID == nil) {
    return nil, fmt.Errorf("Posting a donation needs both a cash and a revenue account")
  }

  donation := &types.Donation{
    ID:             uuid.New(),
    OrganizationID: orgID,
    ContactID:      input.ContactID,
    AmountCents:    input.AmountCents,
    Method:         method,
    ReceivedAt:     receivedAt,
  }
  txErr := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if input.CashAccountID != nil {
      entry, eErr := cs.ledger.PostEntryInTx(ctx, tx, orgID, actor.ID, PostEntryInput{
        EntryDate: receivedAt,
        Memo:      "Donation received",
        Source:    types.JournalSourceDonation,
        Lines: []JournalLineInput{
          {AccountID: *input.CashAccountID, Side: types.LineSideDebit, AmountCents: input.AmountCents},
          {AccountID: *input.RevenueAccountID, Side: types.LineSideCredit, AmountCents: input.AmountCents},
        },
      })
      if eErr != nil {
        return eErr
      }
      donation.JournalEntryID = &entry.ID
    }
    if _, dErr := cs.donationRepo.Create(ctx, tx, []*types.Donation{donation}); dErr != nil {
      return fmt.Errorf("Failed to record donation: %w", dErr)
    }
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return donation, nil
}

func (cs *contactService) ListDonations(ctx context.Context, orgID uuid.UUID) ([]*types.Donation, error) {
  if _, err := requireMembership(ctx, nil, cs.membershipRepo, orgID); err != nil {
    return nil, err
  }
  donations, err := cs.donationRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list donations: %w", err)
  }
  return donations, nil
}

func (cs *contactService) loadOrgContact(ctx context.Context, orgID, contactID uuid.UUID) (*types.Contact, error) {
  contacts, err := cs.contactRepo.GetByIDs(ctx, nil, []uuid.UUID{contactID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch contact: %w", err)
  }
  if len(contacts) == 0 || contacts[0].OrganizationID != orgID {
    return nil, fmt.Errorf("Contact not found in this organization")
  }
  return contacts[0], nil
}
