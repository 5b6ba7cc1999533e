package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/types"
)

func seededOrg(t *testing.T) (orgID uuid.UUID, owner, admin, officer, member *types.Membership, repo *fakeMembershipRepo) {
	t.Helper()
	orgID = uuid.New()
	mk := func(role string) *types.Membership {
		return &types.Membership{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         uuid.New(),
			Role:           role,
			Status:         types.MembershipStatusActive,
		}
	}
	owner = mk(types.RoleOwner)
	admin = mk(types.RoleAdmin)
	officer = mk(types.RoleOfficer)
	member = mk(types.RoleMember)
	repo = &fakeMembershipRepo{memberships: []*types.Membership{owner, admin, officer, member}}
	return
}

func TestAddMemberCannotGrantAboveOwnRole(t *testing.T) {
	orgID, _, admin, _, _, repo := seededOrg(t)

	newcomer := &types.User{ID: uuid.New(), Email: "new@example.com"}
	ms := &membershipService{
		log:            testLogger(t),
		membershipRepo: repo,
		userRepo:       &fakeUserRepo{users: []*types.User{newcomer}},
	}

	_, err := ms.AddMember(authedCtx(admin.UserID), orgID, AddMemberInput{Email: newcomer.Email, Role: types.RoleOwner})
	if !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("granting above own role: want=%v got=%v", ErrInsufficientRole, err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("no membership should be created")
	}
}

func TestAddMemberDefaultsToInvitedMember(t *testing.T) {
	orgID, _, admin, _, _, repo := seededOrg(t)

	newcomer := &types.User{ID: uuid.New(), Email: "new@example.com"}
	ms := &membershipService{
		log:            testLogger(t),
		membershipRepo: repo,
		userRepo:       &fakeUserRepo{users: []*types.User{newcomer}},
	}

	created, err := ms.AddMember(authedCtx(admin.UserID), orgID, AddMemberInput{Email: newcomer.Email})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if created.Role != types.RoleMember {
		t.Fatalf("default role: want=%s got=%s", types.RoleMember, created.Role)
	}
	if created.Status != types.MembershipStatusInvited {
		t.Fatalf("default status: want=%s got=%s", types.MembershipStatusInvited, created.Status)
	}
	if created.UserID != newcomer.ID {
		t.Fatalf("created user: want=%s got=%s", newcomer.ID, created.UserID)
	}
}

func TestUpdateMemberPeerProtection(t *testing.T) {
	orgID, owner, admin, officer, member, repo := seededOrg(t)

	ms := &membershipService{log: testLogger(t), membershipRepo: repo, userRepo: &fakeUserRepo{}}
	promote := types.RoleOfficer

	// An admin cannot touch a peer admin or the owner.
	secondAdmin := &types.Membership{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         uuid.New(),
		Role:           types.RoleAdmin,
		Status:         types.MembershipStatusActive,
	}
	repo.memberships = append(repo.memberships, secondAdmin)

	if _, err := ms.UpdateMember(authedCtx(admin.UserID), orgID, secondAdmin.ID, UpdateMemberInput{Role: &promote}); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("admin vs peer admin: want=%v got=%v", ErrInsufficientRole, err)
	}
	if _, err := ms.UpdateMember(authedCtx(admin.UserID), orgID, owner.ID, UpdateMemberInput{Role: &promote}); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("admin vs owner: want=%v got=%v", ErrInsufficientRole, err)
	}

	// Members and officers cannot manage the roster at all.
	if _, err := ms.UpdateMember(authedCtx(member.UserID), orgID, officer.ID, UpdateMemberInput{Role: &promote}); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("member as actor: want=%v got=%v", ErrInsufficientRole, err)
	}

	// Owners outrank everyone.
	updated, err := ms.UpdateMember(authedCtx(owner.UserID), orgID, member.ID, UpdateMemberInput{Role: &promote})
	if err != nil {
		t.Fatalf("owner promoting member: %v", err)
	}
	if updated.Role != types.RoleOfficer {
		t.Fatalf("promoted role: want=%s got=%s", types.RoleOfficer, updated.Role)
	}
}

func TestUpdateMemberRejectsUnknownStatus(t *testing.T) {
	orgID, owner, _, _, member, repo := seededOrg(t)

	ms := &membershipService{log: testLogger(t), membershipRepo: repo, userRepo: &fakeUserRepo{}}
	bogus := "banished"
	if _, err := ms.UpdateMember(authedCtx(owner.UserID), orgID, member.ID, UpdateMemberInput{Status: &bogus}); err == nil {
		t.Fatalf("expected an error for an unknown status")
	}
}

func TestRemoveMemberProtections(t *testing.T) {
	orgID, owner, admin, _, member, repo := seededOrg(t)

	ms := &membershipService{log: testLogger(t), membershipRepo: repo, userRepo: &fakeUserRepo{}}

	if err := ms.RemoveMember(authedCtx(owner.UserID), orgID, owner.ID); err == nil {
		t.Fatalf("the owner seat must not be removable")
	}
	if err := ms.RemoveMember(authedCtx(admin.UserID), orgID, admin.ID); err != nil {
		// An admin may leave; self-removal is not a rank violation.
		t.Fatalf("admin self-removal: %v", err)
	}
	if err := ms.RemoveMember(authedCtx(owner.UserID), orgID, member.ID); err != nil {
		t.Fatalf("owner removing member: %v", err)
	}
	if len(repo.deletedIDs) != 2 {
		t.Fatalf("deleted memberships: want=2 got=%d", len(repo.deletedIDs))
	}
}
