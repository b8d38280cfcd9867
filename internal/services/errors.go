package services

import "errors"

var (
  ErrInvalidCategory    = errors.New("unknown recovery point category")
  ErrInvalidPoints      = errors.New("point value must be positive")
  ErrPatientNotFound    = errors.New("patient not found")
  ErrNoMindfulnessToday = errors.New("no mindfulness session logged today")
)
