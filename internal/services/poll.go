package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
  goredis "github.com/quorumdesk/quorumdesk-backend/internal/clients/redis"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/sse"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

const tallyCacheTTL = 30 * time.Second

type CreatePollInput struct {
  Question    string      `json:"question"`
  MotionID    *uuid.UUID  `json:"motion_id"`
  Threshold   string      `json:"threshold"`
  QuorumBps   int         `json:"quorum_bps"`
  Options     []string    `json:"options"`
}

type CastVoteInput struct {
  OptionID   *uuid.UUID   `json:"option_id"`
  Abstain    bool         `json:"abstain"`
}

type OptionTally struct {
  OptionID   uuid.UUID   `json:"option_id"`
  Label      string      `json:"label"`
  Votes      int64       `json:"votes"`
}

// PollTally is the aggregate broadcast to SSE subscribers and cached in
// redis between votes.
type PollTally struct {
  PollID        uuid.UUID        `json:"poll_id"`
  Eligible      int64            `json:"eligible"`
  Ballots       int64            `json:"ballots"`
  Abstentions   int64            `json:"abstentions"`
  QuorumBps     int              `json:"quorum_bps"`
  QuorumMet     bool             `json:"quorum_met"`
  Options       []OptionTally    `json:"options"`
  // Outcome is what the poll would resolve to if closed now.
  Outcome       string           `json:"outcome"`
}

type PollService interface {
  CreatePoll(ctx context.Context, orgID uuid.UUID, input CreatePollInput) (*types.Poll, error)
  GetPoll(ctx context.Context, orgID, pollID uuid.UUID) (*types.Poll, *PollTally, error)
  ListPolls(ctx context.Context, orgID uuid.UUID) ([]*types.Poll, error)
  CastVote(ctx context.Context, orgID, pollID uuid.UUID, input CastVoteInput) (*PollTally, error)
  ClosePoll(ctx context.Context, orgID, pollID uuid.UUID) (*types.Poll, *PollTally, error)
}

type pollService struct {
  db               *gorm.DB
  log              *logger.Logger
  sseHub           *sse.SSEHub
  sseBus           goredis.SSEBus
  tallyCache       goredis.TallyCache
  pollRepo         repos.PollRepo
  voteRepo         repos.VoteRepo
  motionRepo       repos.MotionRepo
  membershipRepo   repos.MembershipRepo
  orgRepo          repos.OrganizationRepo
}

func NewPollService(
  db *gorm.DB,
  log *logger.Logger,
  sseHub *sse.SSEHub,
  sseBus goredis.SSEBus,
  tallyCache goredis.TallyCache,
  pollRepo repos.PollRepo,
  voteRepo repos.VoteRepo,
  motionRepo repos.MotionRepo,
  membershipRepo repos.MembershipRepo,
  orgRepo repos.OrganizationRepo,
) PollService {
  serviceLog := log.With("service", "PollService")
  return &pollService{
    db:             db,
    log:            serviceLog,
    sseHub:         sseHub,
    sseBus:         sseBus,
    tallyCache:     tallyCache,
    pollRepo:       pollRepo,
    voteRepo:       voteRepo,
    motionRepo:     motionRepo,
    membershipRepo: membershipRepo,
    orgRepo:        orgRepo,
  }
}

func (ps *pollService) CreatePoll(ctx context.Context, orgID uuid.UUID, input CreatePollInput) (*types.Poll, error) {
  if _, err := requireRank(ctx, nil, ps.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, err
  }
  question := normalization.TrimInputString(input.Question)
  if question == "" {
    return nil, fmt.Errorf("Poll question is required")
  }
  if len(input.Options) < 2 {
    return nil, fmt.Errorf("A poll needs at least two options")
  }
  threshold := input.Threshold
  if threshold == "" {
    threshold = types.ThresholdMajority
  }
  if !validThreshold(threshold) {
    return nil, fmt.Errorf("Unknown threshold %q", threshold)
  }
  if input.QuorumBps < 0 || input.QuorumBps > 10000 {
    return nil, fmt.Errorf("Quorum must be between 0 and 10000 basis points")
  }

  var motion *types.Motion
  if input.MotionID != nil {
    motions, mErr := ps.motionRepo.GetByIDs(ctx, nil, []uuid.UUID{*input.MotionID})
    if mErr != nil {
      return nil, fmt.Errorf("Failed to fetch motion: %w", mErr)
    }
    if len(motions) == 0 || motions[0].OrganizationID != orgID {
      return nil, fmt.Errorf("Motion not found in this organization")
    }
    motion = motions[0]
    if motion.Status != types.MotionStatusOpen {
      return nil, fmt.Errorf("Polls can only be attached to open motions")
    }
    // A motion poll inherits the motion's threshold.
    threshold = motion.Threshold
  }

  poll := &types.Poll{
    ID:             uuid.New(),
    OrganizationID: orgID,
    MotionID:       input.MotionID,
    Question:       question,
    Threshold:      threshold,
    QuorumBps:      input.QuorumBps,
    Status:         types.PollStatusOpen,
    OpensAt:        time.Now(),
  }
  options := make([]*types.PollOption, 0, len(input.Options))
  for i, label := range input.Options {
    label = normalization.TrimInputString(label)
    if label == "" {
      return nil, fmt.Errorf("Poll option labels cannot be empty")
    }
    options = append(options, &types.PollOption{
      ID:       uuid.New(),
      PollID:   poll.ID,
      Label:    label,
      Position: i,
    })
  }

  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := ps.pollRepo.Create(ctx, tx, []*types.Poll{poll}); cErr != nil {
      return fmt.Errorf("Failed to create poll: %w", cErr)
    }
    if _, oErr := ps.pollRepo.CreateOptions(ctx, tx, options); oErr != nil {
      return fmt.Errorf("Failed to create poll options: %w", oErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  poll.Options = options
  return poll, nil
}

func (ps *pollService) GetPoll(ctx context.Context, orgID, pollID uuid.UUID) (*types.Poll, *PollTally, error) {
  if _, err := requireMembership(ctx, nil, ps.membershipRepo, orgID); err != nil {
    return nil, nil, err
  }
  poll, err := ps.loadOrgPoll(ctx, orgID, pollID)
  if err != nil {
    return nil, nil, err
  }
  tally, tErr := ps.cachedTally(ctx, poll)
  if tErr != nil {
    return nil, nil, tErr
  }
  return poll, tally, nil
}

func (ps *pollService) ListPolls(ctx context.Context, orgID uuid.UUID) ([]*types.Poll, error) {
  if _, err := requireMembership(ctx, nil, ps.membershipRepo, orgID); err != nil {
    return nil, err
  }
  polls, err := ps.pollRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list polls: %w", err)
  }
  return polls, nil
}

func (ps *pollService) CastVote(ctx context.Context, orgID, pollID uuid.UUID, input CastVoteInput) (*PollTally, error) {
  actor, err := requireMembership(ctx, nil, ps.membershipRepo, orgID)
  if err != nil {
    return nil, err
  }
  poll, pErr := ps.loadOrgPoll(ctx, orgID, pollID)
  if pErr != nil {
    return nil, pErr
  }
  if poll.Status != types.PollStatusOpen {
    return nil, fmt.Errorf("Poll is closed")
  }
  if input.Abstain {
    input.OptionID = nil
  } else {
    if input.OptionID == nil {
      return nil, fmt.Errorf("A ballot must pick an option or abstain")
    }
    found := false
    for _, opt := range poll.Options {
      if opt.ID == *input.OptionID {
        found = true
        break
      }
    }
    if !found {
      return nil, fmt.Errorf("Option does not belong to this poll")
    }
  }
  vote := &types.Vote{
    ID:           uuid.New(),
    PollID:       pollID,
    MembershipID: actor.ID,
    OptionID:     input.OptionID,
    Abstain:      input.Abstain,
    CastAt:       time.Now(),
  }
  if uErr := ps.voteRepo.Upsert(ctx, nil, vote); uErr != nil {
    return nil, fmt.Errorf("Failed to record ballot: %w", uErr)
  }
  if ps.tallyCache != nil {
    if iErr := ps.tallyCache.Invalidate(ctx, pollID); iErr != nil {
      ps.log.Warn("Failed to invalidate tally cache", "pollID", pollID, "error", iErr)
    }
  }
  tally, tErr := ps.computeTally(ctx, nil, poll)
  if tErr != nil {
    return nil, tErr
  }
  ps.storeTally(ctx, tally)
  ps.broadcast(ctx, sse.SSEMessage{
    Channel: sse.PollChannel(pollID),
    Event:   sse.SSEEventPollTallyUpdated,
    Data:    tally,
  })
  return tally, nil
}

func (ps *pollService) ClosePoll(ctx context.Context, orgID, pollID uuid.UUID) (*types.Poll, *PollTally, error) {
  if _, err := requireRank(ctx, nil, ps.membershipRepo, orgID, types.RoleOfficer); err != nil {
    return nil, nil, err
  }
  poll, pErr := ps.loadOrgPoll(ctx, orgID, pollID)
  if pErr != nil {
    return nil, nil, pErr
  }
  if poll.Status != types.PollStatusOpen {
    return nil, nil, fmt.Errorf("Poll is already closed")
  }

  var tally *PollTally
  var motion *types.Motion
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    var tErr error
    tally, tErr = ps.computeTally(ctx, tx, poll)
    if tErr != nil {
      return tErr
    }
    now := time.Now()
    poll.Status = types.PollStatusClosed
    poll.ClosesAt = &now
    if uErr := ps.pollRepo.Update(ctx, tx, poll); uErr != nil {
      return fmt.Errorf("Failed to close poll: %w", uErr)
    }
    if poll.MotionID == nil {
      return nil
    }
    motions, mErr := ps.motionRepo.GetByIDs(ctx, tx, []uuid.UUID{*poll.MotionID})
    if mErr != nil {
      return fmt.Errorf("Failed to fetch motion: %w", mErr)
    }
    if len(motions) == 0 || motions[0].Status != types.MotionStatusOpen {
      return nil
    }
    motion = motions[0]
    if tally.Outcome == types.MotionStatusPassed {
      motion.Status = types.MotionStatusPassed
    } else {
      motion.Status = types.MotionStatusFailed
    }
    if uErr := ps.motionRepo.Update(ctx, tx, motion); uErr != nil {
      return fmt.Errorf("Failed to resolve motion: %w", uErr)
    }
    return nil
  })
  if err != nil {
    return nil, nil, err
  }

  if ps.tallyCache != nil {
    if iErr := ps.tallyCache.Invalidate(ctx, pollID); iErr != nil {
      ps.log.Warn("Failed to invalidate tally cache", "pollID", pollID, "error", iErr)
    }
  }
  ps.broadcast(ctx, sse.SSEMessage{
    Channel: sse.PollChannel(pollID),
    Event:   sse.SSEEventPollClosed,
    Data:    tally,
  })
  if motion != nil {
    ps.broadcast(ctx, sse.SSEMessage{
      Channel: sse.PollChannel(pollID),
      Event:   sse.SSEEventMotionResolved,
      Data:    motion,
    })
  }
  return poll, tally, nil
}

// computeTally aggregates ballots and decides what the poll would
// resolve to. Abstentions count toward quorum but not toward the
// threshold denominator.
func (ps *pollService) computeTally(ctx context.Context, tx *gorm.DB, poll *types.Poll) (*PollTally, error) {
  votes, err := ps.voteRepo.ListByPoll(ctx, tx, poll.ID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list ballots: %w", err)
  }
  eligible, eErr := ps.membershipRepo.CountActiveByOrg(ctx, tx, poll.OrganizationID)
  if eErr != nil {
    return nil, fmt.Errorf("Failed to count eligible voters: %w", eErr)
  }

  quorumBps := poll.QuorumBps
  if quorumBps <= 0 {
    orgs, oErr := ps.orgRepo.GetByIDs(ctx, tx, []uuid.UUID{poll.OrganizationID})
    if oErr != nil {
      return nil, fmt.Errorf("Failed to fetch organization: %w", oErr)
    }
    if len(orgs) == 0 {
      return nil, fmt.Errorf("Organization not found")
    }
    quorumBps = orgs[0].QuorumBps
  }

  byOption := make(map[uuid.UUID]int64, len(poll.Options))
  var abstentions int64
  for _, v := range votes {
    if v.Abstain || v.OptionID == nil {
      abstentions++
      continue
    }
    byOption[*v.OptionID]++
  }

  tally := &PollTally{
    PollID:      poll.ID,
    Eligible:    eligible,
    Ballots:     int64(len(votes)),
    Abstentions: abstentions,
    QuorumBps:   quorumBps,
    Options:     make([]OptionTally, 0, len(poll.Options)),
  }
  var top, decisive int64
  for _, opt := range poll.Options {
    n := byOption[opt.ID]
    decisive += n
    if n > top {
      top = n
    }
    tally.Options = append(tally.Options, OptionTally{OptionID: opt.ID, Label: opt.Label, Votes: n})
  }

  // Comparison in basis points avoids float drift.
  tally.QuorumMet = tally.Ballots*10000 >= eligible*int64(quorumBps)

  passed := false
  if tally.QuorumMet && decisive > 0 {
    switch poll.Threshold {
    case types.ThresholdTwoThirds:
      passed = top*3 >= decisive*2
    default:
      passed = top*2 > decisive
    }
    // A tie between options is never a pass.
    tied := 0
    for _, ot := range tally.Options {
      if ot.Votes == top {
        tied++
      }
    }
    if tied > 1 {
      passed = false
    }
  }
  if passed {
    tally.Outcome = types.MotionStatusPassed
  } else {
    tally.Outcome = types.MotionStatusFailed
  }
  return tally, nil
}

func (ps *pollService) cachedTally(ctx context.Context, poll *types.Poll) (*PollTally, error) {
  if ps.tallyCache != nil {
    raw, err := ps.tallyCache.Get(ctx, poll.ID)
    if err != nil {
      ps.log.Warn("Tally cache read failed", "pollID", poll.ID, "error", err)
    } else if raw != nil {
      var tally PollTally
      if jErr := json.Unmarshal(raw, &tally); jErr == nil {
        return &tally, nil
      }
    }
  }
  tally, err := ps.computeTally(ctx, nil, poll)
  if err != nil {
    return nil, err
  }
  ps.storeTally(ctx, tally)
  return tally, nil
}

func (ps *pollService) storeTally(ctx context.Context, tally *PollTally) {
  if ps.tallyCache == nil {
    return
  }
  raw, err := json.Marshal(tally)
  if err != nil {
    return
  }
  if sErr := ps.tallyCache.Set(ctx, tally.PollID, raw, tallyCacheTTL); sErr != nil {
    ps.log.Warn("Tally cache write failed", "pollID", tally.PollID, "error", sErr)
  }
}

// broadcast prefers the redis bus so every instance's hub sees the
// message; without redis it falls back to the local hub.
func (ps *pollService) broadcast(ctx context.Context, msg sse.SSEMessage) {
  if ps.sseBus != nil {
    err := ps.sseBus.Publish(ctx, msg)
    if err == nil {
      return
    }
    ps.log.Warn("SSE bus publish failed; falling back to local hub", "error", err)
  }
  if ps.sseHub != nil {
    ps.sseHub.Broadcast(msg)
  }
}

func (ps *pollService) loadOrgPoll(ctx context.Context, orgID, pollID uuid.UUID) (*types.Poll, error) {
  poll, err := ps.pollRepo.GetWithOptions(ctx, nil, pollID)
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch poll: %w", err)
  }
  if poll == nil || poll.OrganizationID != orgID {
    return nil, fmt.Errorf("Poll not found in this organization")
  }
  return poll, nil
}
