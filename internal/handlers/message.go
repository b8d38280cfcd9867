package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/services"
)

type MessageHandler struct {
  messageService    services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
  return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
  PatientID   string  `json:"patientId" binding:"required"`
  SenderID    string  `json:"senderId" binding:"required"`
  SenderRole  string  `json:"senderRole" binding:"required"`
  Body        string  `json:"body" binding:"required"`
}

func (mh *MessageHandler) Send(c *gin.Context) {
  var req sendMessageRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  patientID, err := uuid.Parse(req.PatientID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
    return
  }
  senderID, err := uuid.Parse(req.SenderID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_sender_id", err)
    return
  }
  msg, err := mh.messageService.Send(c.Request.Context(), patientID, senderID, req.SenderRole, req.Body)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "send_failed", err)
    return
  }
  RespondOK(c, msg)
}

func (mh *MessageHandler) Conversation(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  messages, err := mh.messageService.Conversation(c.Request.Context(), patientID, 50)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "conversation_failed", err)
    return
  }
  RespondOK(c, gin.H{"messages": messages})
}

func (mh *MessageHandler) UnreadCount(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  count, err := mh.messageService.UnreadCount(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "unread_count_failed", err)
    return
  }
  RespondOK(c, gin.H{"unread": count})
}

func (mh *MessageHandler) MarkRead(c *gin.Context) {
  messageID, err := uuid.Parse(c.Param("messageId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_message_id", err)
    return
  }
  if err := mh.messageService.MarkRead(c.Request.Context(), messageID); err != nil {
    RespondError(c, http.StatusInternalServerError, "mark_read_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "ok"})
}
