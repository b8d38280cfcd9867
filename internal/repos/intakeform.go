package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type IntakeFormRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, row *types.IntakeForm) error
  GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (*types.IntakeForm, error)
}

type intakeFormRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewIntakeFormRepo(db *gorm.DB, baseLog *logger.Logger) IntakeFormRepo {
  repoLog := baseLog.With("repo", "IntakeFormRepo")
  return &intakeFormRepo{db: db, log: repoLog}
}

func (r *intakeFormRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.IntakeForm) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }
  if row.ID == uuid.Nil {
    row.ID = uuid.New()
  }

  // Upsert by unique patient_id
  if err := transaction.WithContext(ctx).
    Where("patient_id = ?", row.PatientID).
    Assign(map[string]interface{}{
      "answers":      row.Answers,
      "completed_at": row.CompletedAt,
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *intakeFormRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (*types.IntakeForm, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.IntakeForm
  err := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}
