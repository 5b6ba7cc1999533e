package services

import (
  "context"
  "fmt"
  "regexp"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/requestdata"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type UpdateOrganizationInput struct {
  Name        *string   `json:"name"`
  Kind        *string   `json:"kind"`
  QuorumBps   *int      `json:"quorum_bps"`
}

type OrganizationService interface {
  CreateOrganization(ctx context.Context, org *types.Organization) (*types.Organization, error)
  GetOrganization(ctx context.Context, orgID uuid.UUID) (*types.Organization, error)
  ListMyOrganizations(ctx context.Context) ([]*types.Organization, error)
  UpdateOrganization(ctx context.Context, orgID uuid.UUID, input UpdateOrganizationInput) (*types.Organization, error)
  DeleteOrganization(ctx context.Context, orgID uuid.UUID) error
}

type organizationService struct {
  db               *gorm.DB
  log              *logger.Logger
  orgRepo          repos.OrganizationRepo
  membershipRepo   repos.MembershipRepo
}

func NewOrganizationService(db *gorm.DB, log *logger.Logger, orgRepo repos.OrganizationRepo, membershipRepo repos.MembershipRepo) OrganizationService {
  serviceLog := log.With("service", "OrganizationService")
  return &organizationService{db: db, log: serviceLog, orgRepo: orgRepo, membershipRepo: membershipRepo}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func (os *organizationService) CreateOrganization(ctx context.Context, org *types.Organization) (*types.Organization, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  org.Name = normalization.TrimInputString(org.Name)
  org.Slug = normalization.ParseInputString(org.Slug)
  if org.Name == "" {
    return nil, fmt.Errorf("Organization name is required")
  }
  if !slugPattern.MatchString(org.Slug) {
    return nil, fmt.Errorf("Organization slug must be lowercase alphanumeric with dashes")
  }
  if org.Kind == "" {
    org.Kind = types.OrgKindOther
  }
  if org.QuorumBps <= 0 || org.QuorumBps > 10000 {
    org.QuorumBps = 5000
  }
  exists, err := os.orgRepo.SlugExists(ctx, nil, org.Slug)
  if err != nil {
    return nil, fmt.Errorf("Failed to check organization slug: %w", err)
  }
  if exists {
    return nil, fmt.Errorf("Organization slug is already in use")
  }

  err = os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    org.ID = uuid.New()
    if _, cErr := os.orgRepo.Create(ctx, tx, []*types.Organization{org}); cErr != nil {
      return fmt.Errorf("Failed to create organization: %w", cErr)
    }
    // The creator becomes the owner.
    ownerMembership := &types.Membership{
      ID:             uuid.New(),
      OrganizationID: org.ID,
      UserID:         rd.UserID,
      Role:           types.RoleOwner,
      Status:         types.MembershipStatusActive,
    }
    if _, mErr := os.membershipRepo.Create(ctx, tx, []*types.Membership{ownerMembership}); mErr != nil {
      return fmt.Errorf("Failed to create owner membership: %w", mErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return org, nil
}

func (os *organizationService) GetOrganization(ctx context.Context, orgID uuid.UUID) (*types.Organization, error) {
  if _, err := requireMembership(ctx, nil, os.membershipRepo, orgID); err != nil {
    return nil, err
  }
  orgs, err := os.orgRepo.GetByIDs(ctx, nil, []uuid.UUID{orgID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch organization: %w", err)
  }
  if len(orgs) == 0 {
    return nil, fmt.Errorf("Organization not found")
  }
  return orgs[0], nil
}

func (os *organizationService) ListMyOrganizations(ctx context.Context) ([]*types.Organization, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  memberships, err := os.membershipRepo.ListByUser(ctx, nil, rd.UserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list memberships: %w", err)
  }
  orgs := make([]*types.Organization, 0, len(memberships))
  for _, m := range memberships {
    if m.Status != types.MembershipStatusActive || m.Organization == nil {
      continue
    }
    orgs = append(orgs, m.Organization)
  }
  return orgs, nil
}

func (os *organizationService) UpdateOrganization(ctx context.Context, orgID uuid.UUID, input UpdateOrganizationInput) (*types.Organization, error) {
  if _, err := requireRank(ctx, nil, os.membershipRepo, orgID, types.RoleAdmin); err != nil {
    return nil, err
  }
  orgs, err := os.orgRepo.GetByIDs(ctx, nil, []uuid.UUID{orgID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch organization: %w", err)
  }
  if len(orgs) == 0 {
    return nil, fmt.Errorf("Organization not found")
  }
  org := orgs[0]
  if input.Name != nil {
    name := normalization.TrimInputString(*input.Name)
    if name == "" {
      return nil, fmt.Errorf("Organization name cannot be empty")
    }
    org.Name = name
  }
  if input.Kind != nil {
    org.Kind = *input.Kind
  }
  if input.QuorumBps != nil {
    if *input.QuorumBps <= 0 || *input.QuorumBps > 10000 {
      return nil, fmt.Errorf("Quorum must be between 1 and 10000 basis points")
    }
    org.QuorumBps = *input.QuorumBps
  }
  if err := os.orgRepo.Update(ctx, nil, org); err != nil {
    return nil, fmt.Errorf("Failed to update organization: %w", err)
  }
  return org, nil
}

func (os *organizationService) DeleteOrganization(ctx context.Context, orgID uuid.UUID) error {
  if _, err := requireRank(ctx, nil, os.membershipRepo, orgID, types.RoleOwner); err != nil {
    return err
  }
  return os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := os.orgRepo.Delete(ctx, tx, orgID); dErr != nil {
      return fmt.Errorf("Failed to delete organization: %w", dErr)
    }
    return nil
  })
}
