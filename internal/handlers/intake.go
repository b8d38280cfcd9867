package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "gorm.io/datatypes"
  "github.com/backtolife/backtolife-backend/internal/services"
)

type IntakeHandler struct {
  intakeService   services.IntakeService
}

func NewIntakeHandler(intakeService services.IntakeService) *IntakeHandler {
  return &IntakeHandler{intakeService: intakeService}
}

type intakeRequest struct {
  Answers   datatypes.JSON  `json:"answers" binding:"required"`
}

func (ih *IntakeHandler) Submit(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  var req intakeRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  form, err := ih.intakeService.Submit(c.Request.Context(), patientID, req.Answers)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "intake_failed", err)
    return
  }
  RespondOK(c, form)
}

func (ih *IntakeHandler) Get(c *gin.Context) {
  patientID, ok := patientIDParam(c)
  if !ok {
    return
  }
  form, err := ih.intakeService.Get(c.Request.Context(), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "intake_failed", err)
    return
  }
  if form == nil {
    RespondError(c, http.StatusNotFound, "intake_not_found", nil)
    return
  }
  RespondOK(c, form)
}
