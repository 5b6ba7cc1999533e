package utils

import (
  "context"
  "fmt"
  "golang.org/x/crypto/bcrypt"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type EmailChecker interface {
  EmailExists(ctx context.Context, email string) (bool, error)
}

func ValidateRegistration(ctx context.Context, checker EmailChecker, log *logger.Logger, user *types.User) error {
  if user == nil {
    return fmt.Errorf("No user given, cannot proceed with registration")
  }
  if user.Email == "" {
    return fmt.Errorf("An email is required to register")
  }
  emailExists, err := checker.EmailExists(ctx, user.Email)
  if err != nil {
    return fmt.Errorf("Failed to check user email")
  }
  if emailExists {
    return fmt.Errorf("Email is already in use")
  }
  if user.Password == "" {
    return fmt.Errorf("A password is required to register")
  }
  if user.FirstName == "" {
    return fmt.Errorf("A first name is required to register")
  }
  if user.LastName == "" {
    return fmt.Errorf("A last name is required to register")
  }
  return nil
}

func ValidateLogin(email, password string) error {
  if email == "" {
    return fmt.Errorf("Email is required to login")
  }
  if password == "" {
    return fmt.Errorf("Password is required to login")
  }
  return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return fmt.Errorf("Failed to hash password")
  }
  user.Password = string(hashedPassword)
  return nil
}

func CheckPassword(hashed, plain string) error {
  if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
    return fmt.Errorf("Invalid password")
  }
  return nil
}

func NormalizeUserFields(ctx context.Context, user *types.User) {
  user.Email = normalization.ParseInputString(user.Email)
  user.FirstName = normalization.TrimInputString(user.FirstName)
  user.LastName = normalization.TrimInputString(user.LastName)
}
