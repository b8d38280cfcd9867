package services

import (
  "context"
  "sync/atomic"
  "time"
  "golang.org/x/sync/errgroup"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/types"
)

// ThresholdSweepService runs the daily threshold check across every active
// patient. One patient failing must never abort the rest of the sweep, so
// failures are counted and logged instead of propagated.
type ThresholdSweepService interface {
  RunSweep(ctx context.Context) (*types.SweepResult, error)
}

type thresholdSweepService struct {
  log         *logger.Logger
  patientRepo repos.PatientRepo
  rpService   RecoveryPointsService
  concurrency int
}

func NewThresholdSweepService(log *logger.Logger, patientRepo repos.PatientRepo, rpService RecoveryPointsService, concurrency int) ThresholdSweepService {
  if concurrency <= 0 {
    concurrency = 4
  }
  serviceLog := log.With("service", "ThresholdSweepService")
  return &thresholdSweepService{
    log:         serviceLog,
    patientRepo: patientRepo,
    rpService:   rpService,
    concurrency: concurrency,
  }
}

func (s *thresholdSweepService) RunSweep(ctx context.Context) (*types.SweepResult, error) {
  startedAt := time.Now()
  patients, err := s.patientRepo.ListActive(ctx, nil)
  if err != nil {
    return nil, err
  }

  var succeeded, failed int64
  group, groupCtx := errgroup.WithContext(ctx)
  group.SetLimit(s.concurrency)
  for _, patient := range patients {
    patient := patient
    group.Go(func() error {
      if _, cErr := s.rpService.CheckThresholds(groupCtx, patient.ID); cErr != nil {
        atomic.AddInt64(&failed, 1)
        s.log.Warn("Threshold check failed for patient", "patient_id", patient.ID, "error", cErr)
        return nil
      }
      atomic.AddInt64(&succeeded, 1)
      return nil
    })
  }
  _ = group.Wait()

  result := &types.SweepResult{
    Patients:   len(patients),
    Succeeded:  int(atomic.LoadInt64(&succeeded)),
    Failed:     int(atomic.LoadInt64(&failed)),
    StartedAt:  startedAt,
    FinishedAt: time.Now(),
  }
  s.log.Info("Threshold sweep finished",
    "patients", result.Patients,
    "succeeded", result.Succeeded,
    "failed", result.Failed,
  )
  return result, nil
}
