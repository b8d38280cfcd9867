package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/types"
)

// srsCeiling is the composite score maximum (0-11 scale).
const srsCeiling = 11.0

type SRSStatus struct {
  Latest        *types.SRSScore   `json:"latest,omitempty"`
  BufferCredit  float64           `json:"buffer_credit"`
  Projected     float64           `json:"projected"`
  History       []*types.SRSScore `json:"history"`
}

type SRSService interface {
  RecordScore(ctx context.Context, patientID uuid.UUID, score float64, enteredBy, notes string) (*types.SRSScore, error)
  GetStatus(ctx context.Context, patientID uuid.UUID) (*SRSStatus, error)
}

type srsService struct {
  db         *gorm.DB
  log        *logger.Logger
  scoreRepo  repos.SRSScoreRepo
  bufferRepo repos.SRSBufferRepo
}

func NewSRSService(db *gorm.DB, log *logger.Logger, scoreRepo repos.SRSScoreRepo, bufferRepo repos.SRSBufferRepo) SRSService {
  serviceLog := log.With("service", "SRSService")
  return &srsService{db: db, log: serviceLog, scoreRepo: scoreRepo, bufferRepo: bufferRepo}
}

// RecordScore is the manual clinical entry path: a clinician re-assesses the
// patient and enters the new composite score, typically after a threshold
// flag. The buffer itself is not consumed here; folding buffer credit into
// the score is a clinical judgement.
func (ss *srsService) RecordScore(ctx context.Context, patientID uuid.UUID, score float64, enteredBy, notes string) (*types.SRSScore, error) {
  if score < 0 || score > srsCeiling {
    return nil, fmt.Errorf("SRS score must be between 0 and %v", srsCeiling)
  }
  if enteredBy == "" {
    return nil, fmt.Errorf("SRS score requires the entering clinician")
  }
  row := &types.SRSScore{
    PatientID:  patientID,
    Score:      score,
    EnteredBy:  enteredBy,
    Notes:      notes,
    RecordedAt: time.Now(),
  }
  created, err := ss.scoreRepo.Create(ctx, nil, row)
  if err != nil {
    return nil, fmt.Errorf("Failed to record SRS score: %w", err)
  }
  return created, nil
}

func (ss *srsService) GetStatus(ctx context.Context, patientID uuid.UUID) (*SRSStatus, error) {
  history, err := ss.scoreRepo.ListForPatient(ctx, nil, patientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load SRS history: %w", err)
  }

  var latest *types.SRSScore
  if len(history) > 0 {
    latest = history[0]
  }

  bufferCredit := 0.0
  buffer, err := ss.bufferRepo.GetByPatientID(ctx, nil, patientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load SRS buffer: %w", err)
  }
  if buffer != nil {
    bufferCredit = buffer.TotalBufferCredit()
  }

  projected := bufferCredit
  if latest != nil {
    projected += latest.Score
  }
  if projected > srsCeiling {
    projected = srsCeiling
  }

  return &SRSStatus{
    Latest:       latest,
    BufferCredit: bufferCredit,
    Projected:    projected,
    History:      history,
  }, nil
}
