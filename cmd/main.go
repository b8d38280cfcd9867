package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/backtolife/backtolife-backend/internal/catalog"
  "github.com/backtolife/backtolife-backend/internal/db"
  "github.com/backtolife/backtolife-backend/internal/handlers"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/middleware"
  "github.com/backtolife/backtolife-backend/internal/observability"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/server"
  "github.com/backtolife/backtolife-backend/internal/services"
  "github.com/backtolife/backtolife-backend/internal/utils"
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

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
  sweepConcurrency := utils.GetEnvAsInt("SWEEP_CONCURRENCY", 4, log)
  catalogFile := utils.GetEnv("RP_CATALOG_FILE", "", log)
  mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
  port := utils.GetEnv("PORT", "8080", log)

  // Tracing
  ctx := context.Background()
  shutdownTracing := observability.InitTracing(ctx, log, observability.TracingConfig{
    ServiceName: utils.GetEnv("SERVICE_NAME", "backtolife-backend", log),
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownTracing != nil {
    defer func() {
      flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      if flushErr := shutdownTracing(flushCtx); flushErr != nil {
        log.Warn("Failed to flush traces on shutdown", "error", flushErr)
      }
    }()
  }

  // Database
  pgService, err := db.NewPostgresService(log)
  if err != nil {
    log.Fatal("Failed to connect to postgres", "error", err)
  }
  if err := pgService.AutoMigrateAll(); err != nil {
    log.Fatal("Failed to run migrations", "error", err)
  }
  database := pgService.DB()

  // Catalog
  cat, err := catalog.Load(catalogFile)
  if err != nil {
    log.Fatal("Failed to load recovery point catalog", "error", err)
  }

  // Repos
  patientRepo := repos.NewPatientRepo(database, log)
  patientTokenRepo := repos.NewPatientTokenRepo(database, log)
  recoveryPointRepo := repos.NewRecoveryPointRepo(database, log)
  srsBufferRepo := repos.NewSRSBufferRepo(database, log)
  thresholdHitRepo := repos.NewThresholdHitRepo(database, log)
  mindfulnessLogRepo := repos.NewMindfulnessLogRepo(database, log)
  intakeFormRepo := repos.NewIntakeFormRepo(database, log)
  srsScoreRepo := repos.NewSRSScoreRepo(database, log)
  messageRepo := repos.NewMessageRepo(database, log)

  // Summary cache (optional, requires REDIS_ADDR)
  var summaryCache services.SummaryCache
  if cache, cacheErr := services.NewRedisSummaryCache(log); cacheErr != nil {
    log.Warn("Summary cache disabled", "error", cacheErr)
  } else {
    summaryCache = cache
    defer cache.Close()
  }

  // Services
  rpService := services.NewRecoveryPointsService(database, log, recoveryPointRepo, srsBufferRepo, thresholdHitRepo, mindfulnessLogRepo, cat, summaryCache)
  sweepService := services.NewThresholdSweepService(log, patientRepo, rpService, sweepConcurrency)
  var avatarService services.AvatarService
  if avs, aErr := services.NewAvatarService(log); aErr != nil {
    log.Warn("Avatar service disabled", "error", aErr)
  } else {
    avatarService = avs
  }
  authService := services.NewAuthService(database, log, patientRepo, patientTokenRepo, avatarService, rpService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  patientService := services.NewPatientService(database, log, patientRepo)
  intakeService := services.NewIntakeService(database, log, intakeFormRepo)
  srsService := services.NewSRSService(database, log, srsScoreRepo, srsBufferRepo)
  messageService := services.NewMessageService(database, log, messageRepo)

  // Handlers
  authHandler := handlers.NewAuthHandler(authService)
  patientHandler := handlers.NewPatientHandler(patientService)
  rpHandler := handlers.NewRecoveryPointsHandler(rpService, sweepService)
  intakeHandler := handlers.NewIntakeHandler(intakeService)
  srsHandler := handlers.NewSRSHandler(srsService)
  messageHandler := handlers.NewMessageHandler(messageService)
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  router := server.NewRouter(server.RouterConfig{
    AuthHandler:           authHandler,
    AuthMiddleware:        authMiddleware,
    PatientHandler:        patientHandler,
    RecoveryPointsHandler: rpHandler,
    IntakeHandler:         intakeHandler,
    SRSHandler:            srsHandler,
    MessageHandler:        messageHandler,
    MediaDir:              mediaDir,
  })

  log.Info("Starting server", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Fatal("Server exited", "error", err)
  }
}
