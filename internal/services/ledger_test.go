package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/repos"
	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func testAccount(orgID uuid.UUID, code, accountType string, active bool) *types.Account {
	return &types.Account{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Code:           code,
		Name:           code,
		Type:           accountType,
		Active:         active,
	}
}

func TestPostEntryInTxValidation(t *testing.T) {
	orgID := uuid.New()
	postedBy := uuid.New()
	cash := testAccount(orgID, "1000", types.AccountTypeAsset, true)
	dues := testAccount(orgID, "4000", types.AccountTypeRevenue, true)
	dormant := testAccount(orgID, "1900", types.AccountTypeAsset, false)
	foreign := testAccount(uuid.New(), "1000", types.AccountTypeAsset, true)

	accountRepo := &fakeAccountRepo{accounts: []*types.Account{cash, dues, dormant, foreign}}

	cases := []struct {
		name  string
		lines []JournalLineInput
	}{
		{
			name:  "single_line_rejected",
			lines: []JournalLineInput{{AccountID: cash.ID, Side: types.LineSideDebit, AmountCents: 100}},
		},
		{
			name: "unbalanced_rejected",
			lines: []JournalLineInput{
				{AccountID: cash.ID, Side: types.LineSideDebit, AmountCents: 100},
				{AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: 90},
			},
		},
		{
			name: "nonpositive_amount_rejected",
			lines: []JournalLineInput{
				{AccountID: cash.ID, Side: types.LineSideDebit, AmountCents: 0},
				{AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: 0},
			},
		},
		{
			name: "inactive_account_rejected",
			lines: []JournalLineInput{
				{AccountID: dormant.ID, Side: types.LineSideDebit, AmountCents: 100},
				{AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: 100},
			},
		},
		{
			name: "foreign_account_rejected",
			lines: []JournalLineInput{
				{AccountID: foreign.ID, Side: types.LineSideDebit, AmountCents: 100},
				{AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: 100},
			},
		},
		{
			name: "unknown_side_rejected",
			lines: []JournalLineInput{
				{AccountID: cash.ID, Side: "left", AmountCents: 100},
				{AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: 100},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entryRepo := &fakeJournalEntryRepo{}
			ls := &ledgerService{log: testLogger(t), accountRepo: accountRepo, entryRepo: entryRepo}
			if _, err := ls.PostEntryInTx(context.Background(), nil, orgID, postedBy, PostEntryInput{Lines: tc.lines}); err == nil {
				t.Fatalf("expected a validation error")
			}
			if len(entryRepo.entries) != 0 || len(entryRepo.lines) != 0 {
				t.Fatalf("rejected entries must not persist anything")
			}
		})
	}
}

func TestPostEntryInTxPostsBalancedEntry(t *testing.T) {
	orgID := uuid.New()
	postedBy := uuid.New()
	cash := testAccount(orgID, "1000", types.AccountTypeAsset, true)
	dues := testAccount(orgID, "4000", types.AccountTypeRevenue, true)

	entryRepo := &fakeJournalEntryRepo{}
	ls := &ledgerService{
		log:         testLogger(t),
		accountRepo: &fakeAccountRepo{accounts: []*types.Account{cash, dues}},
		entryRepo:   entryRepo,
	}

	entryDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	entry, err := ls.PostEntryInTx(context.Background(), nil, orgID, postedBy, PostEntryInput{
		EntryDate: entryDate,
		Memo:      "March dues",
		Lines: []JournalLineInput{
			{AccountID: cash.ID, Side: types.LineSideDebit, AmountCents: 2500},
			{AccountID: dues.ID, Side: types.LineSideCredit, AmountCents: 2500},
		},
	})
	if err != nil {
		t.Fatalf("PostEntryInTx: %v", err)
	}
	if entry.Status != types.JournalEntryStatusPosted {
		t.Fatalf("entry status: want=%s got=%s", types.JournalEntryStatusPosted, entry.Status)
	}
	if entry.Source != types.JournalSourceManual {
		t.Fatalf("entry source should default to manual, got %s", entry.Source)
	}
	if entry.PostedBy != postedBy {
		t.Fatalf("entry posted by: want=%s got=%s", postedBy, entry.PostedBy)
	}
	if len(entryRepo.entries) != 1 || len(entryRepo.lines) != 2 {
		t.Fatalf("persisted rows: want 1 entry and 2 lines, got %d/%d", len(entryRepo.entries), len(entryRepo.lines))
	}
	for _, line := range entryRepo.lines {
		if line.EntryID != entry.ID {
			t.Fatalf("line entry id: want=%s got=%s", entry.ID, line.EntryID)
		}
	}
}

func TestTrialBalanceSignsBalancesByNormalSide(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()
	member := &types.Membership{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         userID,
		Role:           types.RoleMember,
		Status:         types.MembershipStatusActive,
	}

	cash := testAccount(orgID, "1000", types.AccountTypeAsset, true)
	dues := testAccount(orgID, "4000", types.AccountTypeRevenue, true)
	unused := testAccount(orgID, "5000", types.AccountTypeExpense, true)

	ls := &ledgerService{
		log:         testLogger(t),
		accountRepo: &fakeAccountRepo{accounts: []*types.Account{cash, dues, unused}},
		entryRepo: &fakeJournalEntryRepo{
			sums: []*repos.TrialBalanceRow{
				{AccountID: cash.ID, DebitCents: 5000, CreditCents: 1000},
				{AccountID: dues.ID, DebitCents: 1000, CreditCents: 5000},
			},
		},
		membershipRepo: &fakeMembershipRepo{memberships: []*types.Membership{member}},
	}

	tb, err := ls.TrialBalance(authedCtx(userID), orgID)
	if err != nil {
		t.Fatalf("TrialBalance: %v", err)
	}
	if tb.TotalDebitCents != tb.TotalCreditCents {
		t.Fatalf("trial balance must balance: debits=%d credits=%d", tb.TotalDebitCents, tb.TotalCreditCents)
	}
	if len(tb.Lines) != 3 {
		t.Fatalf("line count: want=3 got=%d", len(tb.Lines))
	}

	byCode := make(map[string]TrialBalanceLine, len(tb.Lines))
	for _, line := range tb.Lines {
		byCode[line.Code] = line
	}
	if got := byCode["1000"].BalanceCents; got != 4000 {
		t.Fatalf("asset balance (debit normal): want=4000 got=%d", got)
	}
	if got := byCode["4000"].BalanceCents; got != 4000 {
		t.Fatalf("revenue balance (credit normal): want=4000 got=%d", got)
	}
	if got := byCode["5000"].BalanceCents; got != 0 {
		t.Fatalf("unposted account balance: want=0 got=%d", got)
	}
}
