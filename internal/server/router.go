package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/prometheus/client_golang/prometheus/promhttp"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/quorumdesk/quorumdesk-backend/internal/handlers"
  "github.com/quorumdesk/quorumdesk-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler           *handlers.AuthHandler
  AuthMiddleware        *middleware.AuthMiddleware
  UserHandler           *handlers.UserHandler
  SSEHandler            *handlers.SSEHandler
  OrganizationHandler   *handlers.OrganizationHandler
  MembershipHandler     *handlers.MembershipHandler
  MeetingHandler        *handlers.MeetingHandler
  MotionHandler         *handlers.MotionHandler
  PollHandler           *handlers.PollHandler
  LedgerHandler         *handlers.LedgerHandler
  RevenueHandler        *handlers.RevenueHandler
  ContactHandler        *handlers.ContactHandler
  DocumentHandler       *handlers.DocumentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("quorumdesk-backend"))
  router.Use(middleware.Metrics())

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.GET("/metrics", gin.WrapH(promhttp.Handler()))
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // SSE
  protected.GET("/sse/stream", cfg.SSEHandler.SSEStream)
  protected.POST("/sse/subscribe", cfg.SSEHandler.SSESubscribe)
  protected.POST("/sse/unsubscribe", cfg.SSEHandler.SSEUnsubscribe)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.PATCH("/user", cfg.UserHandler.UpdateMe)
  // Organizations
  protected.POST("/api/orgs", cfg.OrganizationHandler.Create)
  protected.GET("/api/orgs", cfg.OrganizationHandler.ListMine)

  org := protected.Group("/api/orgs/:orgID")
  {
    org.GET("", cfg.OrganizationHandler.Get)
    org.PATCH("", cfg.OrganizationHandler.Update)
    org.DELETE("", cfg.OrganizationHandler.Delete)

    // Members
    org.GET("/members", cfg.MembershipHandler.List)
    org.POST("/members", cfg.MembershipHandler.Add)
    org.PATCH("/members/:membershipID", cfg.MembershipHandler.Update)
    org.DELETE("/members/:membershipID", cfg.MembershipHandler.Remove)

    // Meetings
    org.GET("/meetings", cfg.MeetingHandler.List)
    org.POST("/meetings", cfg.MeetingHandler.Create)
    org.GET("/meetings/:meetingID", cfg.MeetingHandler.Get)
    org.PATCH("/meetings/:meetingID", cfg.MeetingHandler.Update)
    org.POST("/meetings/:meetingID/open", cfg.MeetingHandler.Open)
    org.POST("/meetings/:meetingID/adjourn", cfg.MeetingHandler.Adjourn)
    org.POST("/meetings/:meetingID/cancel", cfg.MeetingHandler.Cancel)
    org.GET("/meetings/:meetingID/attendance", cfg.MeetingHandler.ListAttendance)
    org.PUT("/meetings/:meetingID/attendance", cfg.MeetingHandler.RecordAttendance)
    org.GET("/meetings/:meetingID/minutes", cfg.MeetingHandler.GetMinutes)
    org.PUT("/meetings/:meetingID/minutes", cfg.MeetingHandler.SaveMinutes)
    org.POST("/meetings/:meetingID/minutes/approve", cfg.MeetingHandler.ApproveMinutes)

    // Motions
    org.GET("/motions", cfg.MotionHandler.List)
    org.POST("/motions", cfg.MotionHandler.Create)
    org.GET("/motions/:motionID", cfg.MotionHandler.Get)
    org.PATCH("/motions/:motionID", cfg.MotionHandler.Update)
    org.POST("/motions/:motionID/open", cfg.MotionHandler.Open)
    org.POST("/motions/:motionID/withdraw", cfg.MotionHandler.Withdraw)

    // Polls
    org.GET("/polls", cfg.PollHandler.List)
    org.POST("/polls", cfg.PollHandler.Create)
    org.GET("/polls/:pollID", cfg.PollHandler.Get)
    org.POST("/polls/:pollID/vote", cfg.PollHandler.CastVote)
    org.POST("/polls/:pollID/close", cfg.PollHandler.Close)

    // Ledger
    org.GET("/accounts", cfg.LedgerHandler.ListAccounts)
    org.POST("/accounts", cfg.LedgerHandler.CreateAccount)
    org.PATCH("/accounts/:accountID", cfg.LedgerHandler.UpdateAccount)
    org.DELETE("/accounts/:accountID", cfg.LedgerHandler.DeleteAccount)
    org.GET("/journal-entries", cfg.LedgerHandler.ListEntries)
    org.POST("/journal-entries", cfg.LedgerHandler.PostEntry)
    org.GET("/journal-entries/:entryID", cfg.LedgerHandler.GetEntry)
    org.POST("/journal-entries/:entryID/void", cfg.LedgerHandler.VoidEntry)
    org.GET("/reports/trial-balance", cfg.LedgerHandler.TrialBalance)

    // Contracts
    org.GET("/contracts", cfg.RevenueHandler.ListContracts)
    org.POST("/contracts", cfg.RevenueHandler.CreateContract)
    org.GET("/contracts/:contractID", cfg.RevenueHandler.GetContract)
    org.POST("/contracts/:contractID/activate", cfg.RevenueHandler.ActivateContract)
    org.POST("/contracts/:contractID/cancel", cfg.RevenueHandler.CancelContract)
    org.POST("/contracts/:contractID/recognize", cfg.RevenueHandler.Recognize)

    // Contacts
    org.GET("/contacts", cfg.ContactHandler.List)
    org.POST("/contacts", cfg.ContactHandler.Create)
    org.GET("/contacts/:contactID", cfg.ContactHandler.Get)
    org.PATCH("/contacts/:contactID", cfg.ContactHandler.Update)
    org.DELETE("/contacts/:contactID", cfg.ContactHandler.Delete)
    org.GET("/contacts/:contactID/interactions", cfg.ContactHandler.ListInteractions)
    org.POST("/contacts/:contactID/interactions", cfg.ContactHandler.RecordInteraction)
    org.GET("/donations", cfg.ContactHandler.ListDonations)
    org.POST("/donations", cfg.ContactHandler.RecordDonation)

    // Documents
    org.GET("/documents", cfg.DocumentHandler.List)
    org.POST("/documents", cfg.DocumentHandler.Upload)
    org.GET("/documents/:documentID/download", cfg.DocumentHandler.Download)
    org.DELETE("/documents/:documentID", cfg.DocumentHandler.Delete)
  }

  return router
}
