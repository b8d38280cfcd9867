package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type PatientTokenRepo interface {
  Create(ctx context.Context, tx *gorm.DB, token *types.PatientToken) (*types.PatientToken, error)
  GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.PatientToken, error)
  DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) error
  DeleteExpired(ctx context.Context, tx *gorm.DB) (int64, error)
}

type patientTokenRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPatientTokenRepo(db *gorm.DB, baseLog *logger.Logger) PatientTokenRepo {
  repoLog := baseLog.With("repo", "PatientTokenRepo")
  return &patientTokenRepo{db: db, log: repoLog}
}

func (r *patientTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.PatientToken) (*types.PatientToken, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if token == nil {
    return nil, nil
  }
  if token.ID == uuid.Nil {
    token.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
    return nil, err
  }
  return token, nil
}

func (r *patientTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.PatientToken, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.PatientToken
  err := transaction.WithContext(ctx).
    Where("refresh_token = ?", refreshToken).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *patientTokenRepo) DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Delete(&types.PatientToken{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *patientTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  res := transaction.WithContext(ctx).
    Where("expires_at < ?", time.Now()).
    Delete(&types.PatientToken{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
