package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type PatientRepo interface {
  Create(ctx context.Context, tx *gorm.DB, patient *types.Patient) (*types.Patient, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Patient, error)
  GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Patient, error)
  EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Patient, error)
  Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type patientRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
  repoLog := baseLog.With("repo", "PatientRepo")
  return &patientRepo{db: db, log: repoLog}
}

func (r *patientRepo) Create(ctx context.Context, tx *gorm.DB, patient *types.Patient) (*types.Patient, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if patient == nil {
    return nil, nil
  }
  if patient.ID == uuid.Nil {
    patient.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(patient).Error; err != nil {
    return nil, err
  }
  return patient, nil
}

func (r *patientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Patient, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Patient
  err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *patientRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Patient, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Patient
  err := transaction.WithContext(ctx).
    Where("email = ?", email).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *patientRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Patient{}).
    Where("email = ?", email).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *patientRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Patient, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Patient
  if err := transaction.WithContext(ctx).
    Where("active = ?", true).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *patientRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Patient{}).
    Where("id = ?", id).
    Update("active", false).Error; err != nil {
    return err
  }
  return nil
}
