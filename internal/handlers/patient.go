package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/backtolife/backtolife-backend/internal/services"
)

type PatientHandler struct {
  patientService    services.PatientService
}

func NewPatientHandler(patientService services.PatientService) *PatientHandler {
  return &PatientHandler{patientService: patientService}
}

func (ph *PatientHandler) GetMe(c *gin.Context) {
  me, err := ph.patientService.GetMe(c.Request.Context())
  if err != nil {
    if errors.Is(err, services.ErrPatientNotFound) {
      RespondError(c, http.StatusNotFound, "patient_not_found", err)
      return
    }
    RespondError(c, http.StatusBadRequest, "me_failed", err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}

// Deactivate closes the authenticated patient's own account. Deactivated
// patients drop out of the nightly threshold sweep.
func (ph *PatientHandler) Deactivate(c *gin.Context) {
  me, err := ph.patientService.GetMe(c.Request.Context())
  if err != nil {
    if errors.Is(err, services.ErrPatientNotFound) {
      RespondError(c, http.StatusNotFound, "patient_not_found", err)
      return
    }
    RespondError(c, http.StatusBadRequest, "me_failed", err)
    return
  }
  if err := ph.patientService.Deactivate(c.Request.Context(), me.ID); err != nil {
    RespondError(c, http.StatusInternalServerError, "deactivate_failed", err)
    return
  }
  RespondOK(c, gin.H{"status": "deactivated"})
}
