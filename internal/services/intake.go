package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "gorm.io/datatypes"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type IntakeService interface {
  Submit(ctx context.Context, patientID uuid.UUID, answers datatypes.JSON) (*types.IntakeForm, error)
  Get(ctx context.Context, patientID uuid.UUID) (*types.IntakeForm, error)
}

type intakeService struct {
  db         *gorm.DB
  log        *logger.Logger
  intakeRepo repos.IntakeFormRepo
}

func NewIntakeService(db *gorm.DB, log *logger.Logger, intakeRepo repos.IntakeFormRepo) IntakeService {
  serviceLog := log.With("service", "IntakeService")
  return &intakeService{db: db, log: serviceLog, intakeRepo: intakeRepo}
}

// Submit stores (or replaces) the patient's intake answers. Resubmission is
// allowed; the form is one row per patient.
func (is *intakeService) Submit(ctx context.Context, patientID uuid.UUID, answers datatypes.JSON) (*types.IntakeForm, error) {
  if len(answers) == 0 {
    return nil, fmt.Errorf("Intake answers are required")
  }
  now := time.Now()
  row := &types.IntakeForm{
    PatientID:   patientID,
    Answers:     answers,
    CompletedAt: &now,
  }
  if err := is.intakeRepo.Upsert(ctx, nil, row); err != nil {
    return nil, fmt.Errorf("Failed to save intake form: %w", err)
  }
  return row, nil
}

func (is *intakeService) Get(ctx context.Context, patientID uuid.UUID) (*types.IntakeForm, error) {
  form, err := is.intakeRepo.GetByPatientID(ctx, nil, patientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load intake form: %w", err)
  }
  return form, nil
}
