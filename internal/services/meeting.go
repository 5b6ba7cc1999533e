package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/sse"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type AttendanceInput struct {
  MembershipID   uuid.UUID   `json:"membership_id"`
  Present        bool        `json:"present"`
}

type UpdateMeetingInput struct {
  Title         *string      `json:"title"`
  Location      *string      `json:"location"`
  ScheduledAt   *time.Time   `json:"scheduled_at"`
}

type MeetingService interface {
  CreateMeeting(ctx context.Context, meeting *types.Meeting) (*types.Meeting, error)
  GetMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error)
  ListMeetings(ctx context.Context, orgID uuid.UUID) ([]*types.Meeting, error)
  UpdateMeeting(ctx context.Context, orgID, meetingID uuid.UUID, input UpdateMeetingInput) (*types.Meeting, error)
  OpenMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error)
  AdjournMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error)
  CancelMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error)
  RecordAttendance(ctx context.Context, orgID, meetingID uuid.UUID, records []AttendanceInput) error
  ListAttendance(ctx context.Context, orgID, meetingID uuid.UUID) ([]*types.MeetingAttendance, error)
  SaveMinutes(ctx context.Context, orgID, meetingID uuid.UUID, body string) (*types.Minutes, error)
  GetMinutes(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Minutes, error)
  ApproveMinutes(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Minutes, error)
}

type meetingService struct {
  db               *gorm.DB
  log              *logger.Logger
  sseHub           *sse.SSEHub
  meetingRepo      repos.MeetingRepo
  attendanceRepo   repos.MeetingAttendanceRepo
  minutesRepo      repos.MinutesRepo
  membershipRepo   repos.MembershipRepo
}

func NewMeetingService(
  db *gorm.DB,
  log *logger.Logger,
  sseHub *sse.SSEHub,
  meetingRepo repos.MeetingRepo,
  attendanceRepo repos.MeetingAttendanceRepo,
  minutesRepo repos.MinutesRepo,
  membershipRepo repos.MembershipRepo,
) MeetingService {
  serviceLog := log.With("service", "MeetingService")
  return &meetingService{
    db:             db,
    log:            serviceLog,
    sseHub:         sseHub,
    meetingRepo:    meetingRepo,
    attendanceRepo: attendanceRepo,
    minutesRepo:    minutesRepo,
    membershipRepo: membershipRepo,
  }
}

func (ms *meetingService) CreateMeeting(ctx context.Context, meeting *types.Meeting) (*types.Meeting, error) {
  if _, err := requireRank(ctx, nil, ms.membershipRepo, meeting.OrganizationID, types.RoleOfficer); err != nil {
    return nil, err
  }
  meeting.Title = normalization.TrimInputString(meeting.Title)
  if meeting.Title == "" {
    return nil, fmt.Errorf("Meeting title is required")
  }
  if meeting.ScheduledAt.IsZero() {
    return nil, fmt.Errorf("Meeting scheduled time is required")
  }
  meeting.ID = uuid.New()
  meeting.Status = types.MeetingStatusScheduled
  if _, err := ms.meetingRepo.Create(ctx, nil, []*types.Meeting{meeting}); err != nil {
    return nil, fmt.Errorf("Failed to create meeting: %w", err)
  }
  return meeting, nil
}

func (ms *meetingService) GetMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error) {
  if _, err := requireMembership(ctx, nil, ms.membershipRepo, orgID); err != nil {
    return nil, err
  }
  return ms.loadOrgMeeting(ctx, orgID, meetingID)
}

func (ms *meetingService) ListMeetings(ctx context.Context, orgID uuid.UUID) ([]*types.Meeting, error) {
  if _, err := requireMembership(ctx, nil, ms.membershipRepo, orgID); err != nil {
    return nil, err
  }
  meetings, err := ms.meetingRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list meetings: %w", err)
  }
  return meetings, nil
}

func (ms *meetingService) UpdateMeeting(ctx context.Context, orgID, meetingID uuid.UUID, input UpdateMeetingInput) (*types.Meeting, error) {
  if _, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  meeting, err := ms.loadOrgMeeting(ctx, orgID, meetingID)
  if err != nil {
    return nil, err
  }
  if meeting.Status != types.MeetingStatusScheduled {
    return nil, fmt.Errorf("Only scheduled meetings can be edited")
  }
  if input.Title != nil {
    title := normalization.TrimInputString(*input.Title)
    if title == "" {
      return nil, fmt.Errorf("Meeting title is required")
    }
    meeting.Title = title
  }
  if input.Location != nil {
    meeting.Location = normalization.TrimInputString(*input.Location)
  }
  if input.ScheduledAt != nil {
    if input.ScheduledAt.IsZero() {
      return nil, fmt.Errorf("Meeting scheduled time is required")
    }
    meeting.ScheduledAt = *input.ScheduledAt
  }
  if uErr := ms.meetingRepo.Update(ctx, nil, meeting); uErr != nil {
    return nil, fmt.Errorf("Failed to update meeting: %w", uErr)
  }
  return meeting, nil
}

func (ms *meetingService) OpenMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error) {
  meeting, err := ms.transitionMeeting(ctx, orgID, meetingID, types.MeetingStatusScheduled, types.MeetingStatusInProgress)
  if err != nil {
    return nil, err
  }
  ms.broadcast(sse.MeetingChannel(meetingID), sse.SSEEventMeetingOpened, meeting)
  return meeting, nil
}

func (ms *meetingService) AdjournMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error) {
  meeting, err := ms.transitionMeeting(ctx, orgID, meetingID, types.MeetingStatusInProgress, types.MeetingStatusAdjourned)
  if err != nil {
    return nil, err
  }
  ms.broadcast(sse.MeetingChannel(meetingID), sse.SSEEventMeetingAdjourned, meeting)
  return meeting, nil
}

func (ms *meetingService) CancelMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error) {
  return ms.transitionMeeting(ctx, orgID, meetingID, types.MeetingStatusScheduled, types.MeetingStatusCanceled)
}

func (ms *meetingService) transitionMeeting(ctx context.Context, orgID, meetingID uuid.UUID, from, to string) (*types.Meeting, error) {
  if _, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  meeting, err := ms.loadOrgMeeting(ctx, orgID, meetingID)
  if err != nil {
    return nil, err
  }
  if meeting.Status != from {
    return nil, fmt.Errorf("Meeting is %s, expected %s", meeting.Status, from)
  }
  meeting.Status = to
  if uErr := ms.meetingRepo.Update(ctx, nil, meeting); uErr != nil {
    return nil, fmt.Errorf("Failed to update meeting: %w", uErr)
  }
  return meeting, nil
}

func (ms *meetingService) RecordAttendance(ctx context.Context, orgID, meetingID uuid.UUID, records []AttendanceInput) error {
  if _, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return err
  }
  meeting, err := ms.loadOrgMeeting(ctx, orgID, meetingID)
  if err != nil {
    return err
  }
  if meeting.Status == types.MeetingStatusCanceled {
    return fmt.Errorf("Cannot record attendance for a canceled meeting")
  }
  if len(records) == 0 {
    return nil
  }
  memberIDs := make([]uuid.UUID, 0, len(records))
  for _, r := range records {
    memberIDs = append(memberIDs, r.MembershipID)
  }
  members, mErr := ms.membershipRepo.GetByIDs(ctx, nil, memberIDs)
  if mErr != nil {
    return fmt.Errorf("Failed to fetch memberships for attendance: %w", mErr)
  }
  inOrg := make(map[uuid.UUID]bool, len(members))
  for _, m := range members {
    if m.OrganizationID == orgID {
      inOrg[m.ID] = true
    }
  }
  rows := make([]*types.MeetingAttendance, 0, len(records))
  for _, r := range records {
    if !inOrg[r.MembershipID] {
      return fmt.Errorf("Membership %s does not belong to this organization", r.MembershipID)
    }
    rows = append(rows, &types.MeetingAttendance{
      ID:           uuid.New(),
      MeetingID:    meetingID,
      MembershipID: r.MembershipID,
      Present:      r.Present,
    })
  }
  if uErr := ms.attendanceRepo.Upsert(ctx, nil, rows); uErr != nil {
    return fmt.Errorf("Failed to record attendance: %w", uErr)
  }
  return nil
}

func (ms *meetingService) ListAttendance(ctx context.Context, orgID, meetingID uuid.UUID) ([]*types.MeetingAttendance, error) {
  if _, err := requireMembership(ctx, nil, ms.membershipRepo, orgID); err != nil {
    return nil, err
  }
  if _, err := ms.loadOrgMeeting(ctx, orgID, meetingID); err != nil {
    return nil, err
  }
  rows, err := ms.attendanceRepo.ListByMeeting(ctx, nil, meetingID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list attendance: %w", err)
  }
  return rows, nil
}

func (ms *meetingService) SaveMinutes(ctx context.Context, orgID, meetingID uuid.UUID, body string) (*types.Minutes, error) {
  if _, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  if _, err := ms.loadOrgMeeting(ctx, orgID, meetingID); err != nil {
    return nil, err
  }
  existing, gErr := ms.minutesRepo.GetByMeeting(ctx, nil, meetingID)
  if gErr != nil {
    return nil, fmt.Errorf("Failed to fetch minutes: %w", gErr)
  }
  if existing == nil {
    minutes := &types.Minutes{
      ID:        uuid.New(),
      MeetingID: meetingID,
      Body:      body,
      Status:    types.MinutesStatusDraft,
    }
    if _, cErr := ms.minutesRepo.Create(ctx, nil, []*types.Minutes{minutes}); cErr != nil {
      return nil, fmt.Errorf("Failed to create minutes: %w", cErr)
    }
    return minutes, nil
  }
  if existing.Status == types.MinutesStatusApproved {
    return nil, fmt.Errorf("Approved minutes cannot be edited")
  }
  existing.Body = body
  if uErr := ms.minutesRepo.Update(ctx, nil, existing); uErr != nil {
    return nil, fmt.Errorf("Failed to update minutes: %w", uErr)
  }
  return existing, nil
}

func (ms *meetingService) GetMinutes(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Minutes, error) {
  if _, err := requireMembership(ctx, nil, ms.membershipRepo, orgID); err != nil {
    return nil, err
  }
  if _, err := ms.loadOrgMeeting(ctx, orgID, meetingID); err != nil {
    return nil, err
  }
  minutes, err := ms.minutesRepo.GetByMeeting(ctx, nil, meetingID)
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch minutes: %w", err)
  }
  if minutes == nil {
    return nil, fmt.Errorf("No minutes recorded for this meeting")
  }
  return minutes, nil
}

func (ms *meetingService) ApproveMinutes(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Minutes, error) {
  actor, err := requireRank(ctx, nil, ms.membershipRepo, orgID, types.RoleOfficer)
  if err != nil {
    return nil, err
  }
  meeting, mErr := ms.loadOrgMeeting(ctx, orgID, meetingID)
  if mErr != nil {
    return nil, mErr
  }
  if meeting.Status != types.MeetingStatusAdjourned {
    return nil, fmt.Errorf("Minutes can only be approved after the meeting is adjourned")
  }
  minutes, gErr := ms.minutesRepo.GetByMeeting(ctx, nil, meetingID)
  if gErr != nil {
    return nil, fmt.Errorf("Failed to fetch minutes: %w", gErr)
  }
  if minutes == nil {
    return nil, fmt.Errorf("No minutes recorded for this meeting")
  }
  if minutes.Status == types.MinutesStatusApproved {
    return nil, fmt.Errorf("Minutes are already approved")
  }
  now := time.Now()
  minutes.Status = types.MinutesStatusApproved
  minutes.ApprovedBy = &actor.ID
  minutes.ApprovedAt = &now
  if uErr := ms.minutesRepo.Update(ctx, nil, minutes); uErr != nil {
    return nil, fmt.Errorf("Failed to approve minutes: %w", uErr)
  }
  return minutes, nil
}

func (ms *meetingService) loadOrgMeeting(ctx context.Context, orgID, meetingID uuid.UUID) (*types.Meeting, error) {
  meetings, err := ms.meetingRepo.GetByIDs(ctx, nil, []uuid.UUID{meetingID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch meeting: %w", err)
  }
  if len(meetings) == 0 || meetings[0].OrganizationID != orgID {
    return nil, fmt.Errorf("Meeting not found in this organization")
  }
  return meetings[0], nil
}

func (ms *meetingService) broadcast(channel string, event sse.SSEEvent, data any) {
  if ms.sseHub == nil {
    return
  }
  ms.sseHub.Broadcast(sse.SSEMessage{Channel: channel, Event: event, Data: data})
}
