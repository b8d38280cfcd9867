package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type MindfulnessLogRepo interface {
  CreateForDay(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, logDate string) (*types.MindfulnessLog, error)
  GetForDay(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, logDate string) (*types.MindfulnessLog, error)
  SetMood(ctx context.Context, tx *gorm.DB, id uuid.UUID, mood string) error
  DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error)
}

type mindfulnessLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMindfulnessLogRepo(db *gorm.DB, baseLog *logger.Logger) MindfulnessLogRepo {
  repoLog := baseLog.With("repo", "MindfulnessLogRepo")
  return &mindfulnessLogRepo{db: db, log: repoLog}
}

func (r *mindfulnessLogRepo) CreateForDay(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, logDate string) (*types.MindfulnessLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  row := &types.MindfulnessLog{
    ID:        uuid.New(),
    PatientID: patientID,
    LogDate:   logDate,
  }
  if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
    return nil, err
  }
  return row, nil
}

func (r *mindfulnessLogRepo) GetForDay(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, logDate string) (*types.MindfulnessLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.MindfulnessLog
  err := transaction.WithContext(ctx).
    Where("patient_id = ? AND log_date = ?", patientID, logDate).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *mindfulnessLogRepo) SetMood(ctx context.Context, tx *gorm.DB, id uuid.UUID, mood string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.MindfulnessLog{}).
    Where("id = ?", id).
    Update("mood", mood).Error; err != nil {
    return err
  }
  return nil
}

func (r *mindfulnessLogRepo) DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  res := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Delete(&types.MindfulnessLog{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
