package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/requestdata"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
  "github.com/quorumdesk/quorumdesk-backend/internal/utils"
)

type JWTClaims struct {
  jwt.RegisteredClaims
}

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) error
  LoginUser(ctx context.Context, email, password string) (string, string, error)
  RefreshUser(ctx context.Context) (string, string, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db              *gorm.DB
  log             *logger.Logger
  userRepo        repos.UserRepo
  userTokenRepo   repos.UserTokenRepo
  jwtSecretKey    string
  accessTTL       time.Duration
  refreshTTL      time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

type emailCheckAdapter struct {
  repo repos.UserRepo
}

func (a emailCheckAdapter) EmailExists(ctx context.Context, email string) (bool, error) {
  return a.repo.EmailExists(ctx, nil, email)
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
  utils.NormalizeUserFields(ctx, user)
  if vErr := utils.ValidateRegistration(ctx, emailCheckAdapter{repo: as.userRepo}, as.log, user); vErr != nil {
    return vErr
  }
  if hErr := utils.HashPassword(ctx, as.log, user); hErr != nil {
    return hErr
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user.ID = uuid.New()
    if _, ucErr := as.userRepo.Create(ctx, tx, []*types.User{user}); ucErr != nil {
      return fmt.Errorf("Failed to create user: %w", ucErr)
    }
    return nil
  })
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
  email = normalization.ParseInputString(email)

  if vErr := utils.ValidateLogin(email, password); vErr != nil {
    return "", "", vErr
  }

  users, usErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if usErr != nil {
    return "", "", fmt.Errorf("Error retrieving user by email: %w", usErr)
  }

  if len(users) == 0 {
    return "", "", fmt.Errorf("Invalid email")
  }

  user := users[0]
  if hErr := utils.CheckPassword(user.Password, password); hErr != nil {
    return "", "", hErr
  }

  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
    if ftErr != nil {
      return fmt.Errorf("Failed to check user tokens: %w", ftErr)
    }
    expiredIDs := make([]uuid.UUID, 0, len(foundTokens))
    for _, tok := range foundTokens {
      if tok != nil && tok.ExpiresAt.Before(time.Now()) {
        expiredIDs = append(expiredIDs, tok.ID)
      }
    }
    if len(expiredIDs) > 0 {
      if dtErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, expiredIDs); dtErr != nil {
        return fmt.Errorf("Failed to delete expired user tokens: %w", dtErr)
      }
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      return fmt.Errorf("Generate access token error: %w", genErr)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    expiresAt := time.Now().Add(as.refreshTTL)
    userToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    expiresAt,
    }
    if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); ctErr != nil {
      as.log.Warn("Create User Token Error", "error", ctErr)
      return fmt.Errorf("Create User Token Error: %w", ctErr)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return "", "", fmt.Errorf("No request data found in context")
  }
  if rd.RefreshToken == "" {
    return "", "", fmt.Errorf("Refresh token not found in request data")
  }

  var accessToken string
  var newRefreshTokenStr string
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, ftErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
    if ftErr != nil {
      as.log.Warn("Error fetching refresh token", "error", ftErr)
      return fmt.Errorf("Error fetching refresh token: %w", ftErr)
    }
    if len(foundTokens) == 0 || foundTokens[0] == nil {
      return fmt.Errorf("Refresh token not found")
    }
    existingToken := foundTokens[0]
    if existingToken.ExpiresAt.Before(time.Now()) {
      if dtErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existingToken.ID}); dtErr != nil {
        return fmt.Errorf("Refresh token expired, error deleting: %w", dtErr)
      }
      return fmt.Errorf("Refresh token expired")
    }
    users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existingToken.UserID})
    if uErr != nil {
      return fmt.Errorf("Failed to load user for refresh: %w", uErr)
    }
    if len(users) == 0 {
      return fmt.Errorf("No user found for the given refresh token")
    }
    user := users[0]
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      return fmt.Errorf("Failed to generate new access token: %w", genErr)
    }
    accessToken = tok
    newRefreshTokenStr = uuid.New().String()
    newUserToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  tok,
      RefreshToken: newRefreshTokenStr,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&newUserToken}); cErr != nil {
      return fmt.Errorf("Failed to create new user token: %w", cErr)
    }
    if dErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existingToken.ID}); dErr != nil {
      return fmt.Errorf("Failed to remove old refresh token: %w", dErr)
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, newRefreshTokenStr, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return fmt.Errorf("No request data found in context")
  }
  if rd.TokenString == "" {
    return fmt.Errorf("TokenString in request data empty")
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
    if ftErr != nil {
      return fmt.Errorf("Error finding user token from token string: %w", ftErr)
    }
    if len(foundTokens) == 0 || foundTokens[0] == nil {
      return nil
    }
    if tdErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{foundTokens[0].ID}); tdErr != nil {
      return fmt.Errorf("Error deleting user token: %w", tdErr)
    }
    return nil
  })
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("Failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("Invalid or expired JWT token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("Invalid user id in token: %w", err)
  }
  var refreshTokenStr string
  foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if ftErr != nil {
    as.log.Warn("Error fetching user token by access token", "error", ftErr)
    return ctx, fmt.Errorf("Failed to fetch user token by access token: %w", ftErr)
  }
  if len(foundTokens) > 0 && foundTokens[0] != nil {
    refreshTokenStr = foundTokens[0].RefreshToken
  }
  rd := &requestdata.RequestData{
    TokenString:  tokenString,
    RefreshToken: refreshTokenStr,
    UserID:       userID,
  }
  ctx = requestdata.WithRequestData(ctx, rd)
  return ctx, nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
