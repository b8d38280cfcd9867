package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"

	"github.com/backtolife/backtolife-backend/internal/logger"
	"github.com/backtolife/backtolife-backend/internal/types"
	"github.com/backtolife/backtolife-backend/internal/utils"
)

// AvatarService renders the initials avatar shown next to a patient in the
// clinician dashboard. Files land under a local media directory served as
// static content; the patient row records the relative path and public URL.
type AvatarService interface {
	CreatePatientAvatar(ctx context.Context, patient *types.Patient) error
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	baseURL  string
	fontFace font.Face
}

var avatarPalette = []color.NRGBA{
	{R: 0x2d, G: 0x6a, B: 0x4f, A: 0xff},
	{R: 0x1d, G: 0x35, B: 0x57, A: 0xff},
	{R: 0x9d, G: 0x4e, B: 0xdd, A: 0xff},
	{R: 0xe0, G: 0x7a, B: 0x5f, A: 0xff},
	{R: 0x3a, G: 0x86, B: 0xff, A: 0xff},
	{R: 0xbc, G: 0x4b, B: 0x51, A: 0xff},
}

func NewAvatarService(log *logger.Logger) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
	baseURL := utils.GetEnv("MEDIA_BASE_URL", "/media", log)
	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create media dir: %w", err)
	}

	fontPath := utils.GetEnv("AVATAR_FONT", "", log)
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("Env var AVATAR_FONT is empty")
	}
	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		fontFace: face,
	}, nil
}

func (as *avatarService) CreatePatientAvatar(ctx context.Context, patient *types.Patient) error {
	if patient == nil || patient.ID == uuid.Nil {
		return fmt.Errorf("patient required")
	}

	buf, err := as.renderInitialsAvatar(patient)
	if err != nil {
		return err
	}

	// Versioned file name so a regenerated avatar is never served stale.
	relPath := filepath.Join("avatars", fmt.Sprintf("%s_%d.png", patient.ID.String(), time.Now().UnixNano()))
	fullPath := filepath.Join(as.mediaDir, relPath)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write avatar file: %w", err)
	}

	oldPath := strings.TrimSpace(patient.AvatarPath)
	patient.AvatarPath = relPath
	patient.AvatarURL = as.baseURL + "/" + filepath.ToSlash(relPath)

	if oldPath != "" && oldPath != relPath {
		if err := os.Remove(filepath.Join(as.mediaDir, oldPath)); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "old_path", oldPath, "error", err)
		}
	}
	return nil
}

func (as *avatarService) renderInitialsAvatar(patient *types.Patient) (bytes.Buffer, error) {
	const size = 512
	var buf bytes.Buffer

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(pickAvatarColor(patient.ID))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(patient.FirstName, patient.LastName)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// pickAvatarColor is deterministic per patient so the avatar color survives
// regeneration.
func pickAvatarColor(id uuid.UUID) color.NRGBA {
	sum := sha256.Sum256(id[:])
	return avatarPalette[int(sum[0])%len(avatarPalette)]
}

func computeInitials(firstName, lastName string) string {
	initials := ""
	if trimmed := strings.TrimSpace(firstName); trimmed != "" {
		initials += strings.ToUpper(trimmed[:1])
	}
	if trimmed := strings.TrimSpace(lastName); trimmed != "" {
		initials += strings.ToUpper(trimmed[:1])
	}
	if initials == "" {
		initials = "?"
	}
	return initials
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
