package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func TestAllocateTransactionPrice(t *testing.T) {
	cases := []struct {
		name     string
		total    int64
		ssp      []int64
		want     []int64
		wantErr  bool
	}{
		{
			name:  "even_split",
			total: 12000,
			ssp:   []int64{5000, 5000},
			want:  []int64{6000, 6000},
		},
		{
			name:  "remainder_lands_on_final_line",
			total: 10000,
			ssp:   []int64{3333, 3333, 3333},
			want:  []int64{3333, 3333, 3334},
		},
		{
			name:  "proportional_to_ssp",
			total: 9000,
			ssp:   []int64{6000, 3000},
			want:  []int64{6000, 3000},
		},
		{
			name:  "discounted_bundle",
			total: 8000,
			ssp:   []int64{6000, 4000},
			want:  []int64{4800, 3200},
		},
		{
			// total * ssp would overflow int64 here; the split formula
			// must still allocate exactly.
			name:  "large_contract_allocates_exactly",
			total: 10_000_000_000,
			ssp:   []int64{1_500_000_000, 1_500_000_000},
			want:  []int64{5_000_000_000, 5_000_000_000},
		},
		{
			name:    "zero_total_rejected",
			total:   0,
			ssp:     []int64{100},
			wantErr: true,
		},
		{
			name:    "empty_lines_rejected",
			total:   100,
			ssp:     nil,
			wantErr: true,
		},
		{
			name:    "nonpositive_ssp_rejected",
			total:   100,
			ssp:     []int64{50, 0},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AllocateTransactionPrice(tc.total, tc.ssp)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("AllocateTransactionPrice: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("allocation length: want=%d got=%d", len(tc.want), len(got))
			}
			var sum int64
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("allocation[%d]: want=%d got=%d", i, tc.want[i], got[i])
				}
				sum += got[i]
			}
			if sum != tc.total {
				t.Fatalf("allocations must sum to the total: want=%d got=%d", tc.total, sum)
			}
		})
	}
}

func TestBuildSchedules(t *testing.T) {
	lineID := uuid.New()
	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	schedules := BuildSchedules(lineID, 10000, 3, start)
	if len(schedules) != 3 {
		t.Fatalf("schedule count: want=3 got=%d", len(schedules))
	}

	var sum int64
	for i, s := range schedules {
		if s.ContractLineID != lineID {
			t.Fatalf("schedule[%d] line: want=%s got=%s", i, lineID, s.ContractLineID)
		}
		wantStart := start.AddDate(0, i, 0)
		if !s.PeriodStart.Equal(wantStart) {
			t.Fatalf("schedule[%d] period start: want=%s got=%s", i, wantStart, s.PeriodStart)
		}
		if s.Recognized {
			t.Fatalf("schedule[%d] should start unrecognized", i)
		}
		sum += s.AmountCents
	}
	if sum != 10000 {
		t.Fatalf("schedule amounts must sum to the allocation: want=10000 got=%d", sum)
	}
	if schedules[0].AmountCents != 3333 || schedules[1].AmountCents != 3333 || schedules[2].AmountCents != 3334 {
		t.Fatalf("remainder cents belong on the final period: got %d/%d/%d",
			schedules[0].AmountCents, schedules[1].AmountCents, schedules[2].AmountCents)
	}
}

type recognitionFixture struct {
	orgID        uuid.UUID
	officer      *types.Membership
	deferred     *types.Account
	revenue      *types.Account
	contract     *types.Contract
	schedules    []*types.RevenueSchedule
	contractRepo *fakeContractRepo
	scheduleRepo *fakeScheduleRepo
	entryRepo    *fakeJournalEntryRepo
}

func newRecognitionFixture(t *testing.T) *recognitionFixture {
	orgID := uuid.New()
	f := &recognitionFixture{
		orgID: orgID,
		officer: &types.Membership{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         uuid.New(),
			Role:           types.RoleOfficer,
			Status:         types.MembershipStatusActive,
		},
		deferred:     testAccount(orgID, "2400", types.AccountTypeLiability, true),
		revenue:      testAccount(orgID, "4100", types.AccountTypeRevenue, true),
		scheduleRepo: &fakeScheduleRepo{},
		entryRepo:    &fakeJournalEntryRepo{},
	}

	start := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	line := &types.ContractLine{
		ID:             uuid.New(),
		Description:    "Hall rental",
		SSPCents:       1000,
		AllocatedCents: 1000,
		ServiceMonths:  2,
	}
	f.schedules = []*types.RevenueSchedule{
		{ID: uuid.New(), ContractLineID: line.ID, PeriodStart: start, AmountCents: 500},
		{ID: uuid.New(), ContractLineID: line.ID, PeriodStart: start.AddDate(0, 1, 0), AmountCents: 500},
	}
	line.Schedules = f.schedules
	f.contract = &types.Contract{
		ID:              uuid.New(),
		OrganizationID:  orgID,
		Name:            "Hall rental",
		Status:          types.ContractStatusActive,
		TotalPriceCents: 1000,
		StartDate:       start,
		Lines:           []*types.ContractLine{line},
	}
	line.ContractID = f.contract.ID
	f.contractRepo = &fakeContractRepo{contracts: []*types.Contract{f.contract}}
	return f
}

func (f *recognitionFixture) service(t *testing.T, db *gorm.DB) *revenueService {
	return &revenueService{
		db:             db,
		log:            testLogger(t),
		contractRepo:   f.contractRepo,
		scheduleRepo:   f.scheduleRepo,
		membershipRepo: &fakeMembershipRepo{memberships: []*types.Membership{f.officer}},
		ledger: &ledgerService{
			log:         testLogger(t),
			accountRepo: &fakeAccountRepo{accounts: []*types.Account{f.deferred, f.revenue}},
			entryRepo:   f.entryRepo,
		},
	}
}

func (f *recognitionFixture) recognizeInput(scheduleID uuid.UUID) RecognizeInput {
	return RecognizeInput{
		ScheduleID:        scheduleID,
		DeferredAccountID: f.deferred.ID,
		RevenueAccountID:  f.revenue.ID,
	}
}

func TestRecognizeSchedulePostsDeferredToRevenue(t *testing.T) {
	f := newRecognitionFixture(t)
	rs := f.service(t, txDB(t))

	got, err := rs.RecognizeSchedule(authedCtx(f.officer.UserID), f.orgID, f.contract.ID, f.recognizeInput(f.schedules[0].ID))
	if err != nil {
		t.Fatalf("RecognizeSchedule: %v", err)
	}
	if !got.Recognized || got.RecognizedAt == nil {
		t.Fatalf("schedule should be marked recognized")
	}
	if got.JournalEntryID == nil {
		t.Fatalf("schedule should link its journal entry")
	}

	if len(f.entryRepo.entries) != 1 {
		t.Fatalf("posted entries: want=1 got=%d", len(f.entryRepo.entries))
	}
	entry := f.entryRepo.entries[0]
	if entry.Source != types.JournalSourceRevenue {
		t.Fatalf("entry source: want=%s got=%s", types.JournalSourceRevenue, entry.Source)
	}
	if !entry.EntryDate.Equal(f.schedules[0].PeriodStart) {
		t.Fatalf("entry date: want=%s got=%s", f.schedules[0].PeriodStart, entry.EntryDate)
	}
	if len(f.entryRepo.lines) != 2 {
		t.Fatalf("entry lines: want=2 got=%d", len(f.entryRepo.lines))
	}
	for _, line := range f.entryRepo.lines {
		if line.AmountCents != 500 {
			t.Fatalf("line amount: want=500 got=%d", line.AmountCents)
		}
		switch line.AccountID {
		case f.deferred.ID:
			if line.Side != types.LineSideDebit {
				t.Fatalf("deferred revenue should be debited, got %s", line.Side)
			}
		case f.revenue.ID:
			if line.Side != types.LineSideCredit {
				t.Fatalf("revenue should be credited, got %s", line.Side)
			}
		default:
			t.Fatalf("unexpected account on entry line: %s", line.AccountID)
		}
	}

	if f.contract.Status != types.ContractStatusActive {
		t.Fatalf("contract must stay active while periods remain, got %s", f.contract.Status)
	}
	if len(f.scheduleRepo.updated) != 1 {
		t.Fatalf("schedule updates: want=1 got=%d", len(f.scheduleRepo.updated))
	}
}

func TestRecognizeFinalScheduleCompletesContract(t *testing.T) {
	f := newRecognitionFixture(t)
	now := time.Now()
	f.schedules[0].Recognized = true
	f.schedules[0].RecognizedAt = &now
	rs := f.service(t, txDB(t))

	got, err := rs.RecognizeSchedule(authedCtx(f.officer.UserID), f.orgID, f.contract.ID, f.recognizeInput(f.schedules[1].ID))
	if err != nil {
		t.Fatalf("RecognizeSchedule: %v", err)
	}
	if !got.Recognized {
		t.Fatalf("final schedule should be marked recognized")
	}
	if f.contract.Status != types.ContractStatusCompleted {
		t.Fatalf("contract status: want=%s got=%s", types.ContractStatusCompleted, f.contract.Status)
	}
	if len(f.contractRepo.updated) != 1 {
		t.Fatalf("contract updates: want=1 got=%d", len(f.contractRepo.updated))
	}
}

func TestRecognizeScheduleRejectsRecognizedPeriod(t *testing.T) {
	f := newRecognitionFixture(t)
	now := time.Now()
	f.schedules[0].Recognized = true
	f.schedules[0].RecognizedAt = &now
	rs := f.service(t, nil)

	if _, err := rs.RecognizeSchedule(authedCtx(f.officer.UserID), f.orgID, f.contract.ID, f.recognizeInput(f.schedules[0].ID)); err == nil {
		t.Fatalf("expected an error for a recognized period")
	}
	if len(f.entryRepo.entries) != 0 {
		t.Fatalf("no entry may post for a recognized period")
	}
}

func TestBuildSchedulesClampsToOneMonth(t *testing.T) {
	schedules := BuildSchedules(uuid.New(), 500, 0, time.Now())
	if len(schedules) != 1 {
		t.Fatalf("schedule count: want=1 got=%d", len(schedules))
	}
	if schedules[0].AmountCents != 500 {
		t.Fatalf("single period amount: want=500 got=%d", schedules[0].AmountCents)
	}
}
