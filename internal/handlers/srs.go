package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/backtolife/backtolife-backend/internal/services"
)

type SRSHandler struct {
  srsService    services.SRSService
}

func NewSRSHandler(srsService services.SRSService) *SRSHandler {
  return &SRSHandler{srsService: srsService}
}

type recordScoreRequest struct {
  Score       float64 `json:"score" binding:"required"`
  EnteredBy   string  `json:"entered_by" binding:"required"`
  Notes       string  `json:"notes"`
}

func (sh *SRSHandler) RecordScore(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  var req recordScoreRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  score, err := sh.srsService.RecordScore(c.Request.Context(), patientID, req.Score, req.EnteredBy, req.Notes)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "record_score_failed", err)
    return
  }
  RespondOK(c, score)
}

func (sh *SRSHandler) GetStatus(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  status, err := sh.srsService.GetStatus(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "srs_status_failed", err)
    return
  }
  RespondOK(c, status)
}
