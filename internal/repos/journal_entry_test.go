package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/repos/testutil"
	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func TestJournalEntryRepoSumPostedByAccount(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewJournalEntryRepo(db, testutil.Logger(t))
	ctx := context.Background()

	org := testutil.SeedOrganization(t, ctx, tx)
	bookkeeper := testutil.SeedUser(t, ctx, tx, "books@example.com")
	cash := testutil.SeedAccount(t, ctx, tx, org.ID, "1000", types.AccountTypeAsset)
	dues := testutil.SeedAccount(t, ctx, tx, org.ID, "4000", types.AccountTypeRevenue)

	post := func(status string, amount int64) {
		entry := &types.JournalEntry{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			EntryDate:      time.Now(),
			Status:         status,
			Source:         types.JournalSourceManual,
			PostedBy:       bookkeeper.ID,
		}
		if _, err := repo.Create(ctx, tx, []*types.JournalEntry{entry}); err != nil {
			t.Fatalf("Create entry: %v", err)
		}
		lines := []*types.JournalLine{
			{ID: uuid.New(), EntryID: entry.ID, AccountID: cash.ID, Side: types.LineSideDebit, AmountCents: amount},
			{ID: uuid.New(), EntryID: entry.ID, AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: amount},
		}
		if _, err := repo.CreateLines(ctx, tx, lines); err != nil {
			t.Fatalf("CreateLines: %v", err)
		}
	}

	post(types.JournalEntryStatusPosted, 2500)
	post(types.JournalEntryStatusPosted, 1500)
	// Voided entries stay on record but drop out of the aggregation.
	post(types.JournalEntryStatusVoid, 9000)

	rows, err := repo.SumPostedByAccount(ctx, tx, org.ID)
	if err != nil {
		t.Fatalf("SumPostedByAccount: %v", err)
	}
	byAccount := make(map[uuid.UUID]*TrialBalanceRow, len(rows))
	for _, r := range rows {
		byAccount[r.AccountID] = r
	}

	cashRow := byAccount[cash.ID]
	if cashRow == nil || cashRow.DebitCents != 4000 || cashRow.CreditCents != 0 {
		t.Fatalf("cash row: want debit=4000 credit=0, got %+v", cashRow)
	}
	duesRow := byAccount[dues.ID]
	if duesRow == nil || duesRow.DebitCents != 0 || duesRow.CreditCents != 4000 {
		t.Fatalf("dues row: want debit=0 credit=4000, got %+v", duesRow)
	}
}

func TestJournalEntryRepoGetWithLines(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewJournalEntryRepo(db, testutil.Logger(t))
	ctx := context.Background()

	org := testutil.SeedOrganization(t, ctx, tx)
	bookkeeper := testutil.SeedUser(t, ctx, tx, "books2@example.com")
	cash := testutil.SeedAccount(t, ctx, tx, org.ID, "1000", types.AccountTypeAsset)
	dues := testutil.SeedAccount(t, ctx, tx, org.ID, "4000", types.AccountTypeRevenue)

	entry := &types.JournalEntry{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		EntryDate:      time.Now(),
		Memo:           "Dues receipt",
		Status:         types.JournalEntryStatusPosted,
		Source:         types.JournalSourceManual,
		PostedBy:       bookkeeper.ID,
	}
	if _, err := repo.Create(ctx, tx, []*types.JournalEntry{entry}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.CreateLines(ctx, tx, []*types.JournalLine{
		{ID: uuid.New(), EntryID: entry.ID, AccountID: cash.ID, Side: types.LineSideDebit, AmountCents: 100},
		{ID: uuid.New(), EntryID: entry.ID, AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: 100},
	}); err != nil {
		t.Fatalf("CreateLines: %v", err)
	}

	got, err := repo.GetWithLines(ctx, tx, entry.ID)
	if err != nil {
		t.Fatalf("GetWithLines: %v", err)
	}
	if got == nil || got.ID != entry.ID {
		t.Fatalf("GetWithLines: unexpected entry: %+v", got)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("GetWithLines: want=2 lines got=%d", len(got.Lines))
	}
}
