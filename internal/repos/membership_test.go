package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/repos/testutil"
	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func TestMembershipRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewMembershipRepo(db, testutil.Logger(t))
	ctx := context.Background()

	org := testutil.SeedOrganization(t, ctx, tx)
	owner := testutil.SeedUser(t, ctx, tx, "owner@example.com")
	joiner := testutil.SeedUser(t, ctx, tx, "joiner@example.com")
	testutil.SeedMembership(t, ctx, tx, org.ID, owner.ID, types.RoleOwner)

	created, err := repo.Create(ctx, tx, []*types.Membership{
		{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			UserID:         joiner.ID,
			Role:           types.RoleMember,
			Status:         types.MembershipStatusActive,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 membership, got %d", len(created))
	}

	got, err := repo.GetByOrgAndUser(ctx, tx, org.ID, joiner.ID)
	if err != nil {
		t.Fatalf("GetByOrgAndUser: %v", err)
	}
	if got == nil || got.ID != created[0].ID {
		t.Fatalf("GetByOrgAndUser: unexpected result: %+v", got)
	}

	missing, err := repo.GetByOrgAndUser(ctx, tx, org.ID, uuid.New())
	if err != nil {
		t.Fatalf("GetByOrgAndUser (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByOrgAndUser (missing): expected nil, got %+v", missing)
	}

	count, err := repo.CountActiveByOrg(ctx, tx, org.ID)
	if err != nil {
		t.Fatalf("CountActiveByOrg: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountActiveByOrg: want=2 got=%d", count)
	}

	created[0].Status = types.MembershipStatusLapsed
	if err := repo.Update(ctx, tx, created[0]); err != nil {
		t.Fatalf("Update: %v", err)
	}
	count, err = repo.CountActiveByOrg(ctx, tx, org.ID)
	if err != nil {
		t.Fatalf("CountActiveByOrg (after lapse): %v", err)
	}
	if count != 1 {
		t.Fatalf("CountActiveByOrg (after lapse): want=1 got=%d", count)
	}

	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{created[0].ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	gone, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs (after delete): %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("GetByIDs (after delete): expected none, got %d", len(gone))
	}
}
