package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/requestdata"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type PatientService interface {
  GetMe(ctx context.Context) (*types.Patient, error)
  GetByID(ctx context.Context, id uuid.UUID) (*types.Patient, error)
  Deactivate(ctx context.Context, id uuid.UUID) error
}

type patientService struct {
  db          *gorm.DB
  log         *logger.Logger
  patientRepo repos.PatientRepo
}

func NewPatientService(db *gorm.DB, log *logger.Logger, patientRepo repos.PatientRepo) PatientService {
  serviceLog := log.With("service", "PatientService")
  return &patientService{db: db, log: serviceLog, patientRepo: patientRepo}
}

func (ps *patientService) GetMe(ctx context.Context) (*types.Patient, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.PatientID == uuid.Nil {
    return nil, fmt.Errorf("Not authenticated")
  }
  return ps.GetByID(ctx, rd.PatientID)
}

func (ps *patientService) GetByID(ctx context.Context, id uuid.UUID) (*types.Patient, error) {
  patient, err := ps.patientRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", err)
  }
  if patient == nil {
    return nil, ErrPatientNotFound
  }
  return patient, nil
}

func (ps *patientService) Deactivate(ctx context.Context, id uuid.UUID) error {
  if err := ps.patientRepo.Deactivate(ctx, nil, id); err != nil {
    return fmt.Errorf("Failed to deactivate patient: %w", err)
  }
  return nil
}
