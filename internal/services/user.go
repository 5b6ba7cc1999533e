package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/requestdata"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type UserService interface {
  GetMe(ctx context.Context) (*types.User, error)
  UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
}

type userService struct {
  db         *gorm.DB
  log        *logger.Logger
  userRepo   repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("User not found")
  }
  return users[0], nil
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  firstName = normalization.TrimInputString(firstName)
  lastName = normalization.TrimInputString(lastName)
  if firstName == "" || lastName == "" {
    return nil, fmt.Errorf("First and last name are required")
  }
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("User not found")
  }
  user := users[0]
  user.FirstName = firstName
  user.LastName = lastName
  if err := us.userRepo.Update(ctx, nil, user); err != nil {
    return nil, fmt.Errorf("Failed to update user: %w", err)
  }
  return user, nil
}
