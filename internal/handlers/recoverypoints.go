package handlers

import (
  "errors"
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/services"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type RecoveryPointsHandler struct {
  rpService    services.RecoveryPointsService
  sweepService services.ThresholdSweepService
}

func NewRecoveryPointsHandler(rpService services.RecoveryPointsService, sweepService services.ThresholdSweepService) *RecoveryPointsHandler {
  return &RecoveryPointsHandler{rpService: rpService, sweepService: sweepService}
}

type addPointsRequest struct {
  PatientID   string  `json:"patientId" binding:"required"`
  Category    string  `json:"category" binding:"required"`
  Action      string  `json:"action" binding:"required"`
  Points      int     `json:"points"`
}

// Add handles a completed self-care action. Cap and already-logged outcomes
// come back as 200s with the result kind; only malformed requests and
// persistence failures are transport errors.
func (rh *RecoveryPointsHandler) Add(c *gin.Context) {
  var req addPointsRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  patientID, err := uuid.Parse(req.PatientID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
    return
  }
  category, err := types.ParseCategory(req.Category)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_category", err)
    return
  }

  result, err := rh.rpService.Award(c.Request.Context(), patientID, category, req.Action, req.Points)
  if err != nil {
    if errors.Is(err, services.ErrInvalidCategory) || errors.Is(err, services.ErrInvalidPoints) {
      RespondError(c, http.StatusBadRequest, "invalid_request", err)
      return
    }
    RespondError(c, http.StatusInternalServerError, "award_failed", err)
    return
  }
  RespondOK(c, gin.H{"result": result})
}

func (rh *RecoveryPointsHandler) Catalog(c *gin.Context) {
  RespondOK(c, gin.H{"entries": rh.rpService.Catalog()})
}

func (rh *RecoveryPointsHandler) Weekly(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  weekly, err := rh.rpService.GetWeekly(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "weekly_failed", err)
    return
  }
  RespondOK(c, weekly)
}

func (rh *RecoveryPointsHandler) Buffer(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  buffer, err := rh.rpService.GetBuffer(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "buffer_failed", err)
    return
  }
  RespondOK(c, buffer)
}

func (rh *RecoveryPointsHandler) Thresholds(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  results, err := rh.rpService.CheckThresholds(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "thresholds_failed", err)
    return
  }
  RespondOK(c, results)
}

func (rh *RecoveryPointsHandler) Activity(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  limit := 20
  if raw := c.Query("limit"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil || parsed <= 0 {
      RespondError(c, http.StatusBadRequest, "invalid_limit", err)
      return
    }
    limit = parsed
  }
  entries, err := rh.rpService.GetActivity(c.Request.Context(), patientID, limit)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "activity_failed", err)
    return
  }
  RespondOK(c, gin.H{"entries": entries})
}

func (rh *RecoveryPointsHandler) Summary(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  summary, err := rh.rpService.GetPatientSummary(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "summary_failed", err)
    return
  }
  RespondOK(c, summary)
}

func (rh *RecoveryPointsHandler) Reset(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  result, err := rh.rpService.Reset(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "reset_failed", err)
    return
  }
  RespondOK(c, result)
}

func (rh *RecoveryPointsHandler) Initialize(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  buffer, err := rh.rpService.Initialize(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "initialize_failed", err)
    return
  }
  RespondOK(c, buffer)
}

type moodRequest struct {
  PatientID   string  `json:"patientId" binding:"required"`
  Mood        string  `json:"mood" binding:"required"`
}

func (rh *RecoveryPointsHandler) Mood(c *gin.Context) {
  var req moodRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  patientID, err := uuid.Parse(req.PatientID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
    return
  }
  if err := rh.rpService.LogMood(c.Request.Context(), patientID, req.Mood); err != nil {
    if errors.Is(err, services.ErrNoMindfulnessToday) {
      RespondError(c, http.StatusNotFound, "no_mindfulness_today", err)
      return
    }
    RespondError(c, http.StatusInternalServerError, "mood_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "ok"})
}

func (rh *RecoveryPointsHandler) Sweep(c *gin.Context) {
  result, err := rh.sweepService.RunSweep(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "sweep_failed", err)
    return
  }
  RespondOK(c, result)
}

func patientIDParam(c *gin.Context) (uuid.UUID, bool) {
  patientID, err := uuid.Parse(c.Param("patientId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
    return uuid.Nil, false
  }
  return patientID, true
}
