package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func scheduledMeeting(orgID uuid.UUID) *types.Meeting {
	return &types.Meeting{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Title:          "Board meeting",
		Location:       "Hall A",
		ScheduledAt:    time.Date(2026, time.September, 10, 19, 0, 0, 0, time.UTC),
		Status:         types.MeetingStatusScheduled,
	}
}

func TestUpdateMeeting(t *testing.T) {
	orgID := uuid.New()
	officer := &types.Membership{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         uuid.New(),
		Role:           types.RoleOfficer,
		Status:         types.MembershipStatusActive,
	}
	meeting := scheduledMeeting(orgID)
	meetingRepo := &fakeMeetingRepo{meetings: []*types.Meeting{meeting}}
	ms := &meetingService{
		log:            testLogger(t),
		meetingRepo:    meetingRepo,
		membershipRepo: &fakeMembershipRepo{memberships: []*types.Membership{officer}},
	}

	title := "Annual general meeting"
	when := time.Date(2026, time.October, 1, 18, 30, 0, 0, time.UTC)
	updated, err := ms.UpdateMeeting(authedCtx(officer.UserID), orgID, meeting.ID, UpdateMeetingInput{
		Title:       &title,
		ScheduledAt: &when,
	})
	if err != nil {
		t.Fatalf("UpdateMeeting: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title: want=%q got=%q", title, updated.Title)
	}
	if !updated.ScheduledAt.Equal(when) {
		t.Fatalf("scheduled at: want=%s got=%s", when, updated.ScheduledAt)
	}
	if updated.Location != "Hall A" {
		t.Fatalf("omitted fields must keep their values, got location %q", updated.Location)
	}
	if len(meetingRepo.updated) != 1 {
		t.Fatalf("meeting updates: want=1 got=%d", len(meetingRepo.updated))
	}
}

func TestUpdateMeetingRejectsStartedMeeting(t *testing.T) {
	orgID := uuid.New()
	officer := &types.Membership{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         uuid.New(),
		Role:           types.RoleOfficer,
		Status:         types.MembershipStatusActive,
	}
	meeting := scheduledMeeting(orgID)
	meeting.Status = types.MeetingStatusInProgress
	meetingRepo := &fakeMeetingRepo{meetings: []*types.Meeting{meeting}}
	ms := &meetingService{
		log:            testLogger(t),
		meetingRepo:    meetingRepo,
		membershipRepo: &fakeMembershipRepo{memberships: []*types.Membership{officer}},
	}

	title := "Renamed"
	if _, err := ms.UpdateMeeting(authedCtx(officer.UserID), orgID, meeting.ID, UpdateMeetingInput{Title: &title}); err == nil {
		t.Fatalf("expected an error once the meeting has started")
	}
	if len(meetingRepo.updated) != 0 {
		t.Fatalf("started meetings must not be edited")
	}
}

func TestUpdateMeetingRejectsBlankTitle(t *testing.T) {
	orgID := uuid.New()
	officer := &types.Membership{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         uuid.New(),
		Role:           types.RoleOfficer,
		Status:         types.MembershipStatusActive,
	}
	meeting := scheduledMeeting(orgID)
	ms := &meetingService{
		log:            testLogger(t),
		meetingRepo:    &fakeMeetingRepo{meetings: []*types.Meeting{meeting}},
		membershipRepo: &fakeMembershipRepo{memberships: []*types.Membership{officer}},
	}

	blank := "   "
	if _, err := ms.UpdateMeeting(authedCtx(officer.UserID), orgID, meeting.ID, UpdateMeetingInput{Title: &blank}); err == nil {
		t.Fatalf("expected an error for a blank title")
	}
}
