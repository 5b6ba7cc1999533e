package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/repos/testutil"
	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func TestVoteRepoUpsertReplacesBallot(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewVoteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	org := testutil.SeedOrganization(t, ctx, tx)
	voter := testutil.SeedUser(t, ctx, tx, "voter@example.com")
	membership := testutil.SeedMembership(t, ctx, tx, org.ID, voter.ID, types.RoleMember)
	poll := testutil.SeedPoll(t, ctx, tx, org.ID, "Yes", "No")
	yes := poll.Options[0].ID
	no := poll.Options[1].ID

	if err := repo.Upsert(ctx, tx, &types.Vote{
		ID:           uuid.New(),
		PollID:       poll.ID,
		MembershipID: membership.ID,
		OptionID:     &yes,
		CastAt:       time.Now(),
	}); err != nil {
		t.Fatalf("Upsert (first): %v", err)
	}

	// Same member voting again replaces the ballot instead of adding one.
	if err := repo.Upsert(ctx, tx, &types.Vote{
		ID:           uuid.New(),
		PollID:       poll.ID,
		MembershipID: membership.ID,
		OptionID:     &no,
		CastAt:       time.Now(),
	}); err != nil {
		t.Fatalf("Upsert (second): %v", err)
	}

	votes, err := repo.ListByPoll(ctx, tx, poll.ID)
	if err != nil {
		t.Fatalf("ListByPoll: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("ListByPoll: want=1 got=%d", len(votes))
	}
	if votes[0].OptionID == nil || *votes[0].OptionID != no {
		t.Fatalf("ballot should carry the latest option: %+v", votes[0])
	}

	count, err := repo.CountByPoll(ctx, tx, poll.ID)
	if err != nil {
		t.Fatalf("CountByPoll: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountByPoll: want=1 got=%d", count)
	}
}

func TestVoteRepoAbstainClearsOption(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewVoteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	org := testutil.SeedOrganization(t, ctx, tx)
	voter := testutil.SeedUser(t, ctx, tx, "abstainer@example.com")
	membership := testutil.SeedMembership(t, ctx, tx, org.ID, voter.ID, types.RoleMember)
	poll := testutil.SeedPoll(t, ctx, tx, org.ID, "Yes", "No")
	yes := poll.Options[0].ID

	if err := repo.Upsert(ctx, tx, &types.Vote{
		ID:           uuid.New(),
		PollID:       poll.ID,
		MembershipID: membership.ID,
		OptionID:     &yes,
		CastAt:       time.Now(),
	}); err != nil {
		t.Fatalf("Upsert (option): %v", err)
	}
	if err := repo.Upsert(ctx, tx, &types.Vote{
		ID:           uuid.New(),
		PollID:       poll.ID,
		MembershipID: membership.ID,
		Abstain:      true,
		CastAt:       time.Now(),
	}); err != nil {
		t.Fatalf("Upsert (abstain): %v", err)
	}

	votes, err := repo.ListByPoll(ctx, tx, poll.ID)
	if err != nil {
		t.Fatalf("ListByPoll: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("ListByPoll: want=1 got=%d", len(votes))
	}
	if !votes[0].Abstain || votes[0].OptionID != nil {
		t.Fatalf("abstaining should clear the prior option: %+v", votes[0])
	}
}
