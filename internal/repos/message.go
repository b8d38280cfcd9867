package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type MessageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.Message) (*types.Message, error)
  ListForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, limit int) ([]*types.Message, error)
  MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  UnreadCountForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error)
}

type messageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
  repoLog := baseLog.With("repo", "MessageRepo")
  return &messageRepo{db: db, log: repoLog}
}

func (r *messageRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Message) (*types.Message, error) {
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

func (r *messageRepo) ListForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, limit int) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if limit <= 0 {
    limit = 50
  }

  var results []*types.Message
  if err := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *messageRepo) MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  now := time.Now()
  if err := transaction.WithContext(ctx).
    Model(&types.Message{}).
    Where("id = ? AND read_at IS NULL", id).
    Update("read_at", &now).Error; err != nil {
    return err
  }
  return nil
}

func (r *messageRepo) UnreadCountForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Message{}).
    Where("patient_id = ? AND read_at IS NULL", patientID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
