package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quorumdesk/quorumdesk-backend/internal/logger"
	"github.com/quorumdesk/quorumdesk-backend/internal/repos"
	"github.com/quorumdesk/quorumdesk-backend/internal/requestdata"
	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func authedCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

// txDB backs a gorm DB with sqlmock so service-owned transactions can
// run against faked repos. Only BEGIN/COMMIT reach the mock; every
// statement in between goes through the fakes.
func txDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	mock.ExpectBegin()
	mock.ExpectCommit()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db
}

// The fakes embed their repo interface so only the methods a test
// exercises need implementations; anything else panics loudly.

type fakeMembershipRepo struct {
	repos.MembershipRepo
	memberships []*types.Membership
	created     []*types.Membership
	updated     []*types.Membership
	deletedIDs  []uuid.UUID
}

func (f *fakeMembershipRepo) GetByOrgAndUser(ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID) (*types.Membership, error) {
	for _, m := range f.memberships {
		if m.OrganizationID == orgID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMembershipRepo) GetByIDs(ctx context.Context, tx *gorm.DB, membershipIDs []uuid.UUID) ([]*types.Membership, error) {
	var out []*types.Membership
	for _, m := range f.memberships {
		for _, id := range membershipIDs {
			if m.ID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) CountActiveByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range f.memberships {
		if m.OrganizationID == orgID && m.Status == types.MembershipStatusActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeMembershipRepo) Create(ctx context.Context, tx *gorm.DB, memberships []*types.Membership) ([]*types.Membership, error) {
	f.created = append(f.created, memberships...)
	f.memberships = append(f.memberships, memberships...)
	return memberships, nil
}

func (f *fakeMembershipRepo) Update(ctx context.Context, tx *gorm.DB, membership *types.Membership) error {
	f.updated = append(f.updated, membership)
	return nil
}

func (f *fakeMembershipRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, membershipIDs []uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, membershipIDs...)
	return nil
}

type fakeUserRepo struct {
	repos.UserRepo
	users []*types.User
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, email := range userEmails {
			if u.Email == email {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type fakeOrgRepo struct {
	repos.OrganizationRepo
	orgs []*types.Organization
}

func (f *fakeOrgRepo) GetByIDs(ctx context.Context, tx *gorm.DB, orgIDs []uuid.UUID) ([]*types.Organization, error) {
	var out []*types.Organization
	for _, o := range f.orgs {
		for _, id := range orgIDs {
			if o.ID == id {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

type fakeVoteRepo struct {
	repos.VoteRepo
	votes []*types.Vote
}

func (f *fakeVoteRepo) Upsert(ctx context.Context, tx *gorm.DB, vote *types.Vote) error {
	for i, v := range f.votes {
		if v.PollID == vote.PollID && v.MembershipID == vote.MembershipID {
			f.votes[i] = vote
			return nil
		}
	}
	f.votes = append(f.votes, vote)
	return nil
}

func (f *fakeVoteRepo) ListByPoll(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) ([]*types.Vote, error) {
	var out []*types.Vote
	for _, v := range f.votes {
		if v.PollID == pollID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakePollRepo struct {
	repos.PollRepo
	polls   []*types.Poll
	updated []*types.Poll
}

func (f *fakePollRepo) GetWithOptions(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (*types.Poll, error) {
	for _, p := range f.polls {
		if p.ID == pollID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePollRepo) Update(ctx context.Context, tx *gorm.DB, poll *types.Poll) error {
	f.updated = append(f.updated, poll)
	return nil
}

type fakeMotionRepo struct {
	repos.MotionRepo
	motions []*types.Motion
	updated []*types.Motion
}

func (f *fakeMotionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, motionIDs []uuid.UUID) ([]*types.Motion, error) {
	var out []*types.Motion
	for _, m := range f.motions {
		for _, id := range motionIDs {
			if m.ID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeMotionRepo) Update(ctx context.Context, tx *gorm.DB, motion *types.Motion) error {
	f.updated = append(f.updated, motion)
	return nil
}

type fakeMeetingRepo struct {
	repos.MeetingRepo
	meetings []*types.Meeting
	updated  []*types.Meeting
}

func (f *fakeMeetingRepo) GetByIDs(ctx context.Context, tx *gorm.DB, meetingIDs []uuid.UUID) ([]*types.Meeting, error) {
	var out []*types.Meeting
	for _, m := range f.meetings {
		for _, id := range meetingIDs {
			if m.ID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) Update(ctx context.Context, tx *gorm.DB, meeting *types.Meeting) error {
	f.updated = append(f.updated, meeting)
	return nil
}

type fakeContractRepo struct {
	repos.ContractRepo
	contracts []*types.Contract
	updated   []*types.Contract
}

func (f *fakeContractRepo) GetWithLines(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
	for _, c := range f.contracts {
		if c.ID == contractID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeContractRepo) Update(ctx context.Context, tx *gorm.DB, contract *types.Contract) error {
	f.updated = append(f.updated, contract)
	return nil
}

type fakeScheduleRepo struct {
	repos.RevenueScheduleRepo
	updated []*types.RevenueSchedule
}

func (f *fakeScheduleRepo) Update(ctx context.Context, tx *gorm.DB, schedule *types.RevenueSchedule) error {
	f.updated = append(f.updated, schedule)
	return nil
}

type fakeAccountRepo struct {
	repos.AccountRepo
	accounts []*types.Account
}

func (f *fakeAccountRepo) GetByIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) ([]*types.Account, error) {
	var out []*types.Account
	for _, a := range f.accounts {
		for _, id := range accountIDs {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Account, error) {
	var out []*types.Account
	for _, a := range f.accounts {
		if a.OrganizationID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeJournalEntryRepo struct {
	repos.JournalEntryRepo
	entries []*types.JournalEntry
	lines   []*types.JournalLine
	sums    []*repos.TrialBalanceRow
}

func (f *fakeJournalEntryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.JournalEntry) ([]*types.JournalEntry, error) {
	f.entries = append(f.entries, entries...)
	return entries, nil
}

func (f *fakeJournalEntryRepo) CreateLines(ctx context.Context, tx *gorm.DB, lines []*types.JournalLine) ([]*types.JournalLine, error) {
	f.lines = append(f.lines, lines...)
	return lines, nil
}

func (f *fakeJournalEntryRepo) SumPostedByAccount(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*repos.TrialBalanceRow, error) {
	return f.sums, nil
}
