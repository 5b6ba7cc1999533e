package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedOrganization(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Organization {
	tb.Helper()
	id := uuid.New()
	o := &types.Organization{
		ID:        id,
		Name:      "Test Lodge",
		Slug:      fmt.Sprintf("test-lodge-%s", id),
		Kind:      types.OrgKindClub,
		QuorumBps: 5000,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed organization: %v", err)
	}
	return o
}

func SeedMembership(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID, role string) *types.Membership {
	tb.Helper()
	m := &types.Membership{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		Status:         types.MembershipStatusActive,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed membership: %v", err)
	}
	return m
}

func SeedAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, code, accountType string) *types.Account {
	tb.Helper()
	a := &types.Account{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Code:           code,
		Name:           code,
		Type:           accountType,
		Active:         true,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return a
}

func SeedPoll(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, labels ...string) *types.Poll {
	tb.Helper()
	p := &types.Poll{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Question:       "Approve?",
		Threshold:      types.ThresholdMajority,
		Status:         types.PollStatusOpen,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed poll: %v", err)
	}
	for i, label := range labels {
		opt := &types.PollOption{
			ID:       uuid.New(),
			PollID:   p.ID,
			Label:    label,
			Position: i,
		}
		if err := tx.WithContext(ctx).Create(opt).Error; err != nil {
			tb.Fatalf("seed poll option: %v", err)
		}
		p.Options = append(p.Options, opt)
	}
	return p
}
