package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type MessageService interface {
  Send(ctx context.Context, patientID, senderID uuid.UUID, senderRole, body string) (*types.Message, error)
  Conversation(ctx context.Context, patientID uuid.UUID, limit int) ([]*types.Message, error)
  MarkRead(ctx context.Context, messageID uuid.UUID) error
  UnreadCount(ctx context.Context, patientID uuid.UUID) (int64, error)
}

type messageService struct {
  db          *gorm.DB
  log         *logger.Logger
  messageRepo repos.MessageRepo
}

func NewMessageService(db *gorm.DB, log *logger.Logger, messageRepo repos.MessageRepo) MessageService {
  serviceLog := log.With("service", "MessageService")
  return &messageService{db: db, log: serviceLog, messageRepo: messageRepo}
}

func (ms *messageService) Send(ctx context.Context, patientID, senderID uuid.UUID, senderRole, body string) (*types.Message, error) {
  if body == "" {
    return nil, fmt.Errorf("Message body is required")
  }
  if senderRole != "patient" && senderRole != "clinician" {
    return nil, fmt.Errorf("Sender role must be patient or clinician")
  }
  msg := &types.Message{
    PatientID:  patientID,
    SenderID:   senderID,
    SenderRole: senderRole,
    Body:       body,
  }
  created, err := ms.messageRepo.Create(ctx, nil, msg)
  if err != nil {
    return nil, fmt.Errorf("Failed to send message: %w", err)
  }
  return created, nil
}

func (ms *messageService) Conversation(ctx context.Context, patientID uuid.UUID, limit int) ([]*types.Message, error) {
  messages, err := ms.messageRepo.ListForPatient(ctx, nil, patientID, limit)
  if err != nil {
    return nil, fmt.Errorf("Failed to load conversation: %w", err)
  }
  return messages, nil
}

func (ms *messageService) MarkRead(ctx context.Context, messageID uuid.UUID) error {
  if err := ms.messageRepo.MarkRead(ctx, nil, messageID); err != nil {
    return fmt.Errorf("Failed to mark message read: %w", err)
  }
  return nil
}

func (ms *messageService) UnreadCount(ctx context.Context, patientID uuid.UUID) (int64, error) {
  count, err := ms.messageRepo.UnreadCountForPatient(ctx, nil, patientID)
  if err != nil {
    return 0, fmt.Errorf("Failed to count unread messages: %w", err)
  }
  return count, nil
}
