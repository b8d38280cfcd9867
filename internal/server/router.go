package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/backtolife/backtolife-backend/internal/handlers"
  "github.com/backtolife/backtolife-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler           *handlers.AuthHandler
  AuthMiddleware        *middleware.AuthMiddleware
  PatientHandler        *handlers.PatientHandler
  RecoveryPointsHandler *handlers.RecoveryPointsHandler
  IntakeHandler         *handlers.IntakeHandler
  SRSHandler            *handlers.SRSHandler
  MessageHandler        *handlers.MessageHandler
  MediaDir              string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("backtolife-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  if cfg.MediaDir != "" {
    router.Static("/media", cfg.MediaDir)
  }

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/api/register", cfg.AuthHandler.Register)
  router.POST("/api/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // Patient
  protected.GET("/user", cfg.PatientHandler.GetMe)
  protected.POST("/user/deactivate", cfg.PatientHandler.Deactivate)
  // Recovery points
  rp := protected.Group("/api/recovery-points")
  rp.GET("/catalog", cfg.RecoveryPointsHandler.Catalog)
  rp.POST("/add", cfg.RecoveryPointsHandler.Add)
  rp.GET("/weekly/:patientId", cfg.RecoveryPointsHandler.Weekly)
  rp.GET("/buffer/:patientId", cfg.RecoveryPointsHandler.Buffer)
  rp.GET("/thresholds/:patientId", cfg.RecoveryPointsHandler.Thresholds)
  rp.GET("/activity/:patientId", cfg.RecoveryPointsHandler.Activity)
  rp.GET("/summary/:patientId", cfg.RecoveryPointsHandler.Summary)
  rp.POST("/reset/:patientId", cfg.RecoveryPointsHandler.Reset)
  rp.POST("/initialize/:patientId", cfg.RecoveryPointsHandler.Initialize)
  rp.POST("/mood", cfg.RecoveryPointsHandler.Mood)
  rp.POST("/sweep", cfg.RecoveryPointsHandler.Sweep)
  // Intake
  protected.POST("/api/intake/:patientId", cfg.IntakeHandler.Submit)
  protected.GET("/api/intake/:patientId", cfg.IntakeHandler.Get)
  // SRS
  protected.POST("/api/srs/:patientId", cfg.SRSHandler.RecordScore)
  protected.GET("/api/srs/:patientId", cfg.SRSHandler.GetStatus)
  // Messages
  protected.POST("/api/messages", cfg.MessageHandler.Send)
  protected.GET("/api/messages/:patientId", cfg.MessageHandler.Conversation)
  protected.GET("/api/messages/:patientId/unread", cfg.MessageHandler.UnreadCount)
  protected.POST("/api/messages/:messageId/read", cfg.MessageHandler.MarkRead)

  return router
}
