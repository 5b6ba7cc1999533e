package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func activeMembers(orgID uuid.UUID, n int) []*types.Membership {
	members := make([]*types.Membership, 0, n)
	for i := 0; i < n; i++ {
		members = append(members, &types.Membership{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         uuid.New(),
			Role:           types.RoleMember,
			Status:         types.MembershipStatusActive,
		})
	}
	return members
}

func ballotFor(pollID, membershipID uuid.UUID, optionID *uuid.UUID, abstain bool) *types.Vote {
	return &types.Vote{
		ID:           uuid.New(),
		PollID:       pollID,
		MembershipID: membershipID,
		OptionID:     optionID,
		Abstain:      abstain,
		CastAt:       time.Now(),
	}
}

func TestComputeTally(t *testing.T) {
	orgID := uuid.New()
	yes := uuid.New()
	no := uuid.New()

	cases := []struct {
		name        string
		threshold   string
		quorumBps   int
		orgQuorum   int
		eligible    int
		yesVotes    int
		noVotes     int
		abstains    int
		wantQuorum  bool
		wantOutcome string
	}{
		{
			name:        "majority_passes",
			threshold:   types.ThresholdMajority,
			quorumBps:   5000,
			eligible:    10,
			yesVotes:    4,
			noVotes:     2,
			wantQuorum:  true,
			wantOutcome: types.MotionStatusPassed,
		},
		{
			name:        "majority_fails_on_exact_half",
			threshold:   types.ThresholdMajority,
			quorumBps:   5000,
			eligible:    10,
			yesVotes:    3,
			noVotes:     3,
			wantQuorum:  true,
			wantOutcome: types.MotionStatusFailed,
		},
		{
			name:        "two_thirds_passes_at_boundary",
			threshold:   types.ThresholdTwoThirds,
			quorumBps:   5000,
			eligible:    10,
			yesVotes:    4,
			noVotes:     2,
			wantQuorum:  true,
			wantOutcome: types.MotionStatusPassed,
		},
		{
			name:        "two_thirds_fails_below_boundary",
			threshold:   types.ThresholdTwoThirds,
			quorumBps:   5000,
			eligible:    10,
			yesVotes:    3,
			noVotes:     2,
			wantQuorum:  true,
			wantOutcome: types.MotionStatusFailed,
		},
		{
			name:        "unanimous_without_quorum_fails",
			threshold:   types.ThresholdMajority,
			quorumBps:   5000,
			eligible:    10,
			yesVotes:    4,
			wantQuorum:  false,
			wantOutcome: types.MotionStatusFailed,
		},
		{
			name:        "abstentions_count_toward_quorum_only",
			threshold:   types.ThresholdMajority,
			quorumBps:   5000,
			eligible:    10,
			yesVotes:    3,
			abstains:    2,
			wantQuorum:  true,
			wantOutcome: types.MotionStatusPassed,
		},
		{
			name:        "all_abstentions_never_pass",
			threshold:   types.ThresholdMajority,
			quorumBps:   5000,
			eligible:    10,
			abstains:    6,
			wantQuorum:  true,
			wantOutcome: types.MotionStatusFailed,
		},
		{
			name:        "org_default_quorum_applies_when_poll_has_none",
			threshold:   types.ThresholdMajority,
			quorumBps:   0,
			orgQuorum:   2500,
			eligible:    8,
			yesVotes:    2,
			wantQuorum:  true,
			wantOutcome: types.MotionStatusPassed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			members := activeMembers(orgID, tc.eligible)
			poll := &types.Poll{
				ID:             uuid.New(),
				OrganizationID: orgID,
				Question:       "Adopt the proposal?",
				Threshold:      tc.threshold,
				QuorumBps:      tc.quorumBps,
				Status:         types.PollStatusOpen,
				Options: []*types.PollOption{
					{ID: yes, Label: "Yes", Position: 0},
					{ID: no, Label: "No", Position: 1},
				},
			}

			voteRepo := &fakeVoteRepo{}
			next := 0
			for i := 0; i < tc.yesVotes; i++ {
				id := yes
				voteRepo.votes = append(voteRepo.votes, ballotFor(poll.ID, members[next].ID, &id, false))
				next++
			}
			for i := 0; i < tc.noVotes; i++ {
				id := no
				voteRepo.votes = append(voteRepo.votes, ballotFor(poll.ID, members[next].ID, &id, false))
				next++
			}
			for i := 0; i < tc.abstains; i++ {
				voteRepo.votes = append(voteRepo.votes, ballotFor(poll.ID, members[next].ID, nil, true))
				next++
			}

			ps := &pollService{
				log:            testLogger(t),
				voteRepo:       voteRepo,
				membershipRepo: &fakeMembershipRepo{memberships: members},
				orgRepo:        &fakeOrgRepo{orgs: []*types.Organization{{ID: orgID, QuorumBps: tc.orgQuorum}}},
			}

			tally, err := ps.computeTally(authedCtx(members[0].UserID), nil, poll)
			if err != nil {
				t.Fatalf("computeTally: %v", err)
			}
			if tally.QuorumMet != tc.wantQuorum {
				t.Fatalf("quorum met: want=%v got=%v", tc.wantQuorum, tally.QuorumMet)
			}
			if tally.Outcome != tc.wantOutcome {
				t.Fatalf("outcome: want=%s got=%s", tc.wantOutcome, tally.Outcome)
			}
			if tally.Ballots != int64(tc.yesVotes+tc.noVotes+tc.abstains) {
				t.Fatalf("ballots: want=%d got=%d", tc.yesVotes+tc.noVotes+tc.abstains, tally.Ballots)
			}
			if tally.Abstentions != int64(tc.abstains) {
				t.Fatalf("abstentions: want=%d got=%d", tc.abstains, tally.Abstentions)
			}
		})
	}
}

func TestCastVoteReplacesExistingBallot(t *testing.T) {
	orgID := uuid.New()
	members := activeMembers(orgID, 4)
	voter := members[0]

	yes := uuid.New()
	no := uuid.New()
	poll := &types.Poll{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Question:       "Renew the lease?",
		Threshold:      types.ThresholdMajority,
		QuorumBps:      1,
		Status:         types.PollStatusOpen,
		Options: []*types.PollOption{
			{ID: yes, Label: "Yes", Position: 0},
			{ID: no, Label: "No", Position: 1},
		},
	}

	voteRepo := &fakeVoteRepo{}
	ps := &pollService{
		log:            testLogger(t),
		pollRepo:       &fakePollRepo{polls: []*types.Poll{poll}},
		voteRepo:       voteRepo,
		membershipRepo: &fakeMembershipRepo{memberships: members},
		orgRepo:        &fakeOrgRepo{},
	}
	ctx := authedCtx(voter.UserID)

	if _, err := ps.CastVote(ctx, orgID, poll.ID, CastVoteInput{OptionID: &yes}); err != nil {
		t.Fatalf("first ballot: %v", err)
	}
	tally, err := ps.CastVote(ctx, orgID, poll.ID, CastVoteInput{OptionID: &no})
	if err != nil {
		t.Fatalf("second ballot: %v", err)
	}

	if tally.Ballots != 1 {
		t.Fatalf("ballots after re-vote: want=1 got=%d", tally.Ballots)
	}
	for _, opt := range tally.Options {
		switch opt.OptionID {
		case yes:
			if opt.Votes != 0 {
				t.Fatalf("yes votes after re-vote: want=0 got=%d", opt.Votes)
			}
		case no:
			if opt.Votes != 1 {
				t.Fatalf("no votes after re-vote: want=1 got=%d", opt.Votes)
			}
		}
	}
}

func TestCastVoteRejectsForeignOption(t *testing.T) {
	orgID := uuid.New()
	members := activeMembers(orgID, 2)

	poll := &types.Poll{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Question:       "Approve the budget?",
		Threshold:      types.ThresholdMajority,
		Status:         types.PollStatusOpen,
		Options: []*types.PollOption{
			{ID: uuid.New(), Label: "Yes", Position: 0},
			{ID: uuid.New(), Label: "No", Position: 1},
		},
	}

	ps := &pollService{
		log:            testLogger(t),
		pollRepo:       &fakePollRepo{polls: []*types.Poll{poll}},
		voteRepo:       &fakeVoteRepo{},
		membershipRepo: &fakeMembershipRepo{memberships: members},
		orgRepo:        &fakeOrgRepo{},
	}

	stray := uuid.New()
	if _, err := ps.CastVote(authedCtx(members[0].UserID), orgID, poll.ID, CastVoteInput{OptionID: &stray}); err == nil {
		t.Fatalf("expected an error for an option from another poll")
	}
}

func TestCastVoteRejectsClosedPoll(t *testing.T) {
	orgID := uuid.New()
	members := activeMembers(orgID, 2)
	optID := uuid.New()

	poll := &types.Poll{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Question:       "Approve the budget?",
		Threshold:      types.ThresholdMajority,
		Status:         types.PollStatusClosed,
		Options:        []*types.PollOption{{ID: optID, Label: "Yes"}, {ID: uuid.New(), Label: "No"}},
	}

	ps := &pollService{
		log:            testLogger(t),
		pollRepo:       &fakePollRepo{polls: []*types.Poll{poll}},
		voteRepo:       &fakeVoteRepo{},
		membershipRepo: &fakeMembershipRepo{memberships: members},
		orgRepo:        &fakeOrgRepo{},
	}

	if _, err := ps.CastVote(authedCtx(members[0].UserID), orgID, poll.ID, CastVoteInput{OptionID: &optID}); err == nil {
		t.Fatalf("expected an error for a closed poll")
	}
}

func TestClosePollResolvesMotion(t *testing.T) {
	cases := []struct {
		name       string
		eligible   int
		yesVotes   int
		noVotes    int
		wantStatus string
	}{
		{
			name:       "majority_passes_motion",
			eligible:   5,
			yesVotes:   3,
			noVotes:    1,
			wantStatus: types.MotionStatusPassed,
		},
		{
			name:       "no_quorum_fails_motion",
			eligible:   10,
			yesVotes:   1,
			wantStatus: types.MotionStatusFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orgID := uuid.New()
			members := activeMembers(orgID, tc.eligible)
			members[0].Role = types.RoleOfficer

			motion := &types.Motion{
				ID:             uuid.New(),
				OrganizationID: orgID,
				Title:          "Adopt the budget",
				Status:         types.MotionStatusOpen,
				Threshold:      types.ThresholdMajority,
			}
			yes := uuid.New()
			no := uuid.New()
			poll := &types.Poll{
				ID:             uuid.New(),
				OrganizationID: orgID,
				MotionID:       &motion.ID,
				Question:       "Adopt the budget?",
				Threshold:      types.ThresholdMajority,
				QuorumBps:      5000,
				Status:         types.PollStatusOpen,
				Options: []*types.PollOption{
					{ID: yes, Label: "Yes", Position: 0},
					{ID: no, Label: "No", Position: 1},
				},
			}

			voteRepo := &fakeVoteRepo{}
			next := 0
			for i := 0; i < tc.yesVotes; i++ {
				id := yes
				voteRepo.votes = append(voteRepo.votes, ballotFor(poll.ID, members[next].ID, &id, false))
				next++
			}
			for i := 0; i < tc.noVotes; i++ {
				id := no
				voteRepo.votes = append(voteRepo.votes, ballotFor(poll.ID, members[next].ID, &id, false))
				next++
			}

			pollRepo := &fakePollRepo{polls: []*types.Poll{poll}}
			motionRepo := &fakeMotionRepo{motions: []*types.Motion{motion}}
			ps := &pollService{
				db:             txDB(t),
				log:            testLogger(t),
				pollRepo:       pollRepo,
				voteRepo:       voteRepo,
				motionRepo:     motionRepo,
				membershipRepo: &fakeMembershipRepo{memberships: members},
				orgRepo:        &fakeOrgRepo{},
			}

			closed, tally, err := ps.ClosePoll(authedCtx(members[0].UserID), orgID, poll.ID)
			if err != nil {
				t.Fatalf("ClosePoll: %v", err)
			}
			if closed.Status != types.PollStatusClosed {
				t.Fatalf("poll status: want=%s got=%s", types.PollStatusClosed, closed.Status)
			}
			if closed.ClosesAt == nil {
				t.Fatalf("closed poll should record its close time")
			}
			if tally.Outcome != tc.wantStatus {
				t.Fatalf("outcome: want=%s got=%s", tc.wantStatus, tally.Outcome)
			}
			if motion.Status != tc.wantStatus {
				t.Fatalf("motion status: want=%s got=%s", tc.wantStatus, motion.Status)
			}
			if len(pollRepo.updated) != 1 {
				t.Fatalf("poll updates: want=1 got=%d", len(pollRepo.updated))
			}
			if len(motionRepo.updated) != 1 {
				t.Fatalf("motion updates: want=1 got=%d", len(motionRepo.updated))
			}
		})
	}
}

func TestClosePollRejectsClosedPoll(t *testing.T) {
	orgID := uuid.New()
	members := activeMembers(orgID, 2)
	members[0].Role = types.RoleOfficer

	now := time.Now()
	poll := &types.Poll{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Question:       "Approve the budget?",
		Threshold:      types.ThresholdMajority,
		Status:         types.PollStatusClosed,
		ClosesAt:       &now,
		Options:        []*types.PollOption{{ID: uuid.New(), Label: "Yes"}, {ID: uuid.New(), Label: "No"}},
	}

	pollRepo := &fakePollRepo{polls: []*types.Poll{poll}}
	ps := &pollService{
		log:            testLogger(t),
		pollRepo:       pollRepo,
		voteRepo:       &fakeVoteRepo{},
		membershipRepo: &fakeMembershipRepo{memberships: members},
		orgRepo:        &fakeOrgRepo{},
	}

	if _, _, err := ps.ClosePoll(authedCtx(members[0].UserID), orgID, poll.ID); err == nil {
		t.Fatalf("expected an error for an already closed poll")
	}
	if len(pollRepo.updated) != 0 {
		t.Fatalf("closed poll must not be updated again")
	}
}

func TestValidThreshold(t *testing.T) {
	if !validThreshold(types.ThresholdMajority) || !validThreshold(types.ThresholdTwoThirds) {
		t.Fatalf("known thresholds should validate")
	}
	if validThreshold("plurality") {
		t.Fatalf("unknown threshold should not validate")
	}
}
