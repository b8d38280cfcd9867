package main

import (
  "context"
  "fmt"
  "os"
  "os/signal"
  "syscall"

  "github.com/robfig/cron/v3"

  "github.com/backtolife/backtolife-backend/internal/catalog"
  "github.com/backtolife/backtolife-backend/internal/db"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/services"
  "github.com/backtolife/backtolife-backend/internal/utils"
)

// Runs the threshold sweep on a schedule. Kept as a separate binary so the
// API server and the nightly job can be deployed and scaled independently.
func main() {
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

  pgService, err := db.NewPostgresService(log)
  if err != nil {
    log.Fatal("Failed to connect to postgres", "error", err)
  }
  database := pgService.DB()

  cat, err := catalog.Load(utils.GetEnv("RP_CATALOG_FILE", "", log))
  if err != nil {
    log.Fatal("Failed to load recovery point catalog", "error", err)
  }

  patientRepo := repos.NewPatientRepo(database, log)
  patientTokenRepo := repos.NewPatientTokenRepo(database, log)
  recoveryPointRepo := repos.NewRecoveryPointRepo(database, log)
  srsBufferRepo := repos.NewSRSBufferRepo(database, log)
  thresholdHitRepo := repos.NewThresholdHitRepo(database, log)
  mindfulnessLogRepo := repos.NewMindfulnessLogRepo(database, log)

  rpService := services.NewRecoveryPointsService(database, log, recoveryPointRepo, srsBufferRepo, thresholdHitRepo, mindfulnessLogRepo, cat, nil)
  sweepService := services.NewThresholdSweepService(log, patientRepo, rpService, utils.GetEnvAsInt("SWEEP_CONCURRENCY", 4, log))

  schedule := utils.GetEnv("SWEEP_SCHEDULE", "0 2 * * *", log)
  scheduler := cron.New()
  _, err = scheduler.AddFunc(schedule, func() {
    result, sweepErr := sweepService.RunSweep(context.Background())
    if sweepErr != nil {
      log.Error("Threshold sweep failed", "error", sweepErr)
      return
    }
    log.Info("Sweep run complete",
      "patients", result.Patients,
      "succeeded", result.Succeeded,
      "failed", result.Failed)
  })
  if err != nil {
    log.Fatal("Invalid sweep schedule", "schedule", schedule, "error", err)
  }

  tokenCleanupSchedule := utils.GetEnv("TOKEN_CLEANUP_SCHEDULE", "30 3 * * *", log)
  _, err = scheduler.AddFunc(tokenCleanupSchedule, func() {
    deleted, cleanupErr := patientTokenRepo.DeleteExpired(context.Background(), nil)
    if cleanupErr != nil {
      log.Error("Token cleanup failed", "error", cleanupErr)
      return
    }
    log.Info("Expired refresh tokens deleted", "deleted", deleted)
  })
  if err != nil {
    log.Fatal("Invalid token cleanup schedule", "schedule", tokenCleanupSchedule, "error", err)
  }

  log.Info("Sweeper started", "schedule", schedule, "token_cleanup_schedule", tokenCleanupSchedule)
  scheduler.Start()

  stop := make(chan os.Signal, 1)
  signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
  <-stop
  scheduler.Stop()
  log.Info("Sweeper stopped")
}
