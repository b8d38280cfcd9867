package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/requestdata"
  "github.com/backtolife/backtolife-backend/internal/types"
  "github.com/backtolife/backtolife-backend/internal/utils"
)

type AuthService interface {
  RegisterPatient(ctx context.Context, patient *types.Patient) error
  LoginPatient(ctx context.Context, email, password string) (string, string, error)
  RefreshPatient(ctx context.Context, refreshToken string) (string, string, error)
  LogoutPatient(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  patientRepo   repos.PatientRepo
  tokenRepo     repos.PatientTokenRepo
  avatarService AvatarService
  rpService     RecoveryPointsService
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  patientRepo repos.PatientRepo,
  tokenRepo repos.PatientTokenRepo,
  avatarService AvatarService,
  rpService RecoveryPointsService,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    patientRepo:   patientRepo,
    tokenRepo:     tokenRepo,
    avatarService: avatarService,
    rpService:     rpService,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

// RegisterPatient enrolls a patient: hashed credentials, an initials avatar
// when the renderer is available, and a zeroed SRS buffer so the recovery
// points engine has its row from day one.
func (as *authService) RegisterPatient(ctx context.Context, patient *types.Patient) error {
  if patient == nil {
    return fmt.Errorf("No patient given, cannot proceed with registration")
  }
  patient.Email = utils.NormalizeEmail(patient.Email)
  if patient.Email == "" {
    return fmt.Errorf("An email is required to register")
  }
  if patient.Password == "" {
    return fmt.Errorf("A password is required to register")
  }
  if patient.FirstName == "" || patient.LastName == "" {
    return fmt.Errorf("A first and last name are required to register")
  }

  emailExists, err := as.patientRepo.EmailExists(ctx, nil, patient.Email)
  if err != nil {
    return fmt.Errorf("Failed to check patient email: %w", err)
  }
  if emailExists {
    return fmt.Errorf("Email is already in use")
  }

  hashed, err := utils.HashPassword(patient.Password)
  if err != nil {
    return err
  }
  patient.Password = hashed

  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    patient.ID = uuid.New()
    patient.Active = true
    patient.EnrolledAt = time.Now()
    if as.avatarService != nil {
      if aErr := as.avatarService.CreatePatientAvatar(ctx, patient); aErr != nil {
        as.log.Warn("Failed to create patient avatar (ignored)", "error", aErr)
      }
    }
    if _, cErr := as.patientRepo.Create(ctx, tx, patient); cErr != nil {
      return fmt.Errorf("Failed to create patient: %w", cErr)
    }
    return nil
  })
  if err != nil {
    return err
  }

  // Idempotent, so a retried registration cannot strand the patient without
  // a buffer row.
  if _, iErr := as.rpService.Initialize(ctx, patient.ID); iErr != nil {
    return fmt.Errorf("Failed to initialize recovery point buffer: %w", iErr)
  }
  return nil
}

func (as *authService) LoginPatient(ctx context.Context, email, password string) (string, string, error) {
  email = utils.NormalizeEmail(email)
  if email == "" || password == "" {
    return "", "", fmt.Errorf("Email and password are required to login")
  }

  patient, err := as.patientRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return "", "", fmt.Errorf("Error retrieving patient by email: %w", err)
  }
  if patient == nil {
    return "", "", fmt.Errorf("Invalid email or password")
  }
  if err := utils.CheckPassword(patient.Password, password); err != nil {
    return "", "", fmt.Errorf("Invalid email or password")
  }

  var accessToken, refreshToken string
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := as.tokenRepo.DeleteForPatient(ctx, tx, patient.ID); dErr != nil {
      return fmt.Errorf("Failed to clear old refresh tokens: %w", dErr)
    }
    var tErr error
    accessToken, refreshToken, tErr = as.issueTokens(ctx, tx, patient)
    return tErr
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) RefreshPatient(ctx context.Context, refreshToken string) (string, string, error) {
  if refreshToken == "" {
    return "", "", fmt.Errorf("Refresh token required")
  }
  stored, err := as.tokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
  if err != nil {
    return "", "", fmt.Errorf("Failed to look up refresh token: %w", err)
  }
  if stored == nil || stored.ExpiresAt.Before(time.Now()) {
    return "", "", fmt.Errorf("Refresh token invalid or expired")
  }
  patient, err := as.patientRepo.GetByID(ctx, nil, stored.PatientID)
  if err != nil {
    return "", "", fmt.Errorf("Failed to load patient: %w", err)
  }
  if patient == nil || !patient.Active {
    return "", "", fmt.Errorf("Patient not found or inactive")
  }

  var accessToken, newRefreshToken string
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := as.tokenRepo.DeleteForPatient(ctx, tx, patient.ID); dErr != nil {
      return fmt.Errorf("Failed to rotate refresh token: %w", dErr)
    }
    var tErr error
    accessToken, newRefreshToken, tErr = as.issueTokens(ctx, tx, patient)
    return tErr
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutPatient(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.PatientID == uuid.Nil {
    return fmt.Errorf("Not authenticated")
  }
  if err := as.tokenRepo.DeleteForPatient(ctx, nil, rd.PatientID); err != nil {
    return fmt.Errorf("Failed to delete refresh tokens: %w", err)
  }
  return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("Unexpected signing method: %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return ctx, fmt.Errorf("Invalid token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return ctx, fmt.Errorf("Invalid token claims")
  }
  sub, err := claims.GetSubject()
  if err != nil {
    return ctx, fmt.Errorf("Invalid token subject")
  }
  patientID, err := uuid.Parse(sub)
  if err != nil {
    return ctx, fmt.Errorf("Invalid token subject")
  }
  return requestdata.WithRequestData(ctx, &requestdata.RequestData{
    TokenString: tokenString,
    PatientID:   patientID,
  }), nil
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, patient *types.Patient) (string, string, error) {
  now := time.Now()
  claims := jwt.MapClaims{
    "sub": patient.ID.String(),
    "iat": now.Unix(),
    "exp": now.Add(as.accessTTL).Unix(),
  }
  accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
  if err != nil {
    return "", "", fmt.Errorf("Failed to sign access token: %w", err)
  }

  refreshToken := uuid.NewString()
  if _, err := as.tokenRepo.Create(ctx, tx, &types.PatientToken{
    PatientID:    patient.ID,
    RefreshToken: refreshToken,
    ExpiresAt:    now.Add(as.refreshTTL),
  }); err != nil {
    return "", "", fmt.Errorf("Failed to store refresh token: %w", err)
  }
  return accessToken, refreshToken, nil
}
