package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/joho/godotenv"
  "github.com/quorumdesk/quorumdesk-backend/internal/clients/redis"
  "github.com/quorumdesk/quorumdesk-backend/internal/config"
  "github.com/quorumdesk/quorumdesk-backend/internal/db"
  "github.com/quorumdesk/quorumdesk-backend/internal/handlers"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/middleware"
  "github.com/quorumdesk/quorumdesk-backend/internal/observability"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/server"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
  "github.com/quorumdesk/quorumdesk-backend/internal/sse"
  "github.com/quorumdesk/quorumdesk-backend/internal/storage"
  "github.com/quorumdesk/quorumdesk-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  if err := godotenv.Load(); err != nil {
    log.Debug("No .env file found, relying on process env")
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

  cfg, err := config.Load(log)
  if err != nil {
    log.Error("Failed to load config", "error", err)
    os.Exit(1)
  }

  // Tracing
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "quorumdesk-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = otelShutdown(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(cfg.Postgres, log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  orgRepo := repos.NewOrganizationRepo(thePG, log)
  membershipRepo := repos.NewMembershipRepo(thePG, log)
  meetingRepo := repos.NewMeetingRepo(thePG, log)
  attendanceRepo := repos.NewMeetingAttendanceRepo(thePG, log)
  minutesRepo := repos.NewMinutesRepo(thePG, log)
  motionRepo := repos.NewMotionRepo(thePG, log)
  pollRepo := repos.NewPollRepo(thePG, log)
  voteRepo := repos.NewVoteRepo(thePG, log)
  accountRepo := repos.NewAccountRepo(thePG, log)
  journalEntryRepo := repos.NewJournalEntryRepo(thePG, log)
  contractRepo := repos.NewContractRepo(thePG, log)
  scheduleRepo := repos.NewRevenueScheduleRepo(thePG, log)
  contactRepo := repos.NewContactRepo(thePG, log)
  interactionRepo := repos.NewInteractionRepo(thePG, log)
  donationRepo := repos.NewDonationRepo(thePG, log)
  documentRepo := repos.NewDocumentRepo(thePG, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)

  var sseBus redis.SSEBus
  var tallyCache redis.TallyCache
  if cfg.Redis.Addr != "" {
    sseBus, err = redis.NewSSEBus(cfg.Redis, log)
    if err != nil {
      log.Warn("Could not init redis SSE bus", "error", err)
    } else if fErr := sseBus.StartForwarder(context.Background(), sseHub.Broadcast); fErr != nil {
      log.Warn("Could not start redis SSE forwarder", "error", fErr)
    }
    tallyCache, err = redis.NewTallyCache(cfg.Redis, log)
    if err != nil {
      log.Warn("Could not init redis tally cache", "error", err)
    }
  }

  // Object storage
  objectStore, err := storage.NewMinioStore(cfg.Minio, log)
  if err != nil {
    log.Warn("Could not init object storage; document uploads disabled", "error", err)
  }

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo)
  orgService := services.NewOrganizationService(thePG, log, orgRepo, membershipRepo)
  membershipService := services.NewMembershipService(thePG, log, membershipRepo, userRepo)
  meetingService := services.NewMeetingService(thePG, log, sseHub, meetingRepo, attendanceRepo, minutesRepo, membershipRepo)
  motionService := services.NewMotionService(thePG, log, motionRepo, meetingRepo, membershipRepo)
  pollService := services.NewPollService(thePG, log, sseHub, sseBus, tallyCache, pollRepo, voteRepo, motionRepo, membershipRepo, orgRepo)
  ledgerService := services.NewLedgerService(thePG, log, accountRepo, journalEntryRepo, membershipRepo)
  revenueService := services.NewRevenueService(thePG, log, contractRepo, scheduleRepo, contactRepo, membershipRepo, ledgerService)
  contactService := services.NewContactService(thePG, log, contactRepo, interactionRepo, donationRepo, membershipRepo, ledgerService)
  documentService := services.NewDocumentService(thePG, log, objectStore, documentRepo, membershipRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  sseHandler := handlers.NewSSEHandler(log, sseHub)
  orgHandler := handlers.NewOrganizationHandler(orgService)
  membershipHandler := handlers.NewMembershipHandler(membershipService)
  meetingHandler := handlers.NewMeetingHandler(meetingService)
  motionHandler := handlers.NewMotionHandler(motionService)
  pollHandler := handlers.NewPollHandler(pollService)
  ledgerHandler := handlers.NewLedgerHandler(ledgerService)
  revenueHandler := handlers.NewRevenueHandler(revenueService)
  contactHandler := handlers.NewContactHandler(contactService)
  documentHandler := handlers.NewDocumentHandler(documentService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:         authHandler,
    AuthMiddleware:      authMiddleware,
    UserHandler:         userHandler,
    SSEHandler:          sseHandler,
    OrganizationHandler: orgHandler,
    MembershipHandler:   membershipHandler,
    MeetingHandler:      meetingHandler,
    MotionHandler:       motionHandler,
    PollHandler:         pollHandler,
    LedgerHandler:       ledgerHandler,
    RevenueHandler:      revenueHandler,
    ContactHandler:      contactHandler,
    DocumentHandler:     documentHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
