package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type SRSBufferRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.SRSBuffer) (*types.SRSBuffer, error)
  GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (*types.SRSBuffer, error)
  GetByPatientIDForUpdate(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (*types.SRSBuffer, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.SRSBuffer) error
  ZeroForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) error
}

type srsBufferRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSRSBufferRepo(db *gorm.DB, baseLog *logger.Logger) SRSBufferRepo {
  repoLog := baseLog.With("repo", "SRSBufferRepo")
  return &srsBufferRepo{db: db, log: repoLog}
}

func (r *srsBufferRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SRSBuffer) (*types.SRSBuffer, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil, nil
  }
  if row.ID == uuid.Nil {
    row.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
    return nil, err
  }
  return row, nil
}

func (r *srsBufferRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (*types.SRSBuffer, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.SRSBuffer
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

// GetByPatientIDForUpdate takes a row lock so concurrent award requests for
// the same patient serialize on the buffer row. The sqlite test driver has no
// row locks; there the whole database runs on a single connection anyway.
func (r *srsBufferRepo) GetByPatientIDForUpdate(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (*types.SRSBuffer, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx)
  if transaction.Dialector.Name() == "postgres" {
    query = query.Clauses(clause.Locking{Strength: "UPDATE"})
  }

  var result types.SRSBuffer
  err := query.
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

func (r *srsBufferRepo) Save(ctx context.Context, tx *gorm.DB, row *types.SRSBuffer) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *srsBufferRepo) ZeroForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.SRSBuffer{}).
    Where("patient_id = ?", patientID).
    Updates(map[string]interface{}{
      "movement_points_carried":  0,
      "lifestyle_points_carried": 0,
      "mindset_points_carried":   0,
      "education_points_carried": 0,
      "function_buffer":          0,
      "pain_buffer":              0,
      "confidence_buffer":        0,
      "beliefs_buffer":           0,
    }).Error; err != nil {
    return err
  }
  return nil
}
