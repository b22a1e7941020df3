package service

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"

	"github.com/google/uuid"
)

var allowedUploadScenes = map[string]struct{}{
	"product":  {},
	"category": {},
	"common":   {},
}

var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadService stores admin image uploads on disk.
type UploadService struct {
	cfg config.UploadConfig
	now func() time.Time
}

func NewUploadService(cfg config.UploadConfig) *UploadService {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = constants.MaxImageUploadBytes
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "./uploads"
	}
	if strings.TrimSpace(cfg.PublicPath) == "" {
		cfg.PublicPath = "/uploads"
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
	return &UploadService{cfg: cfg, now: time.Now}
}

// SaveFile validates type and size by content and returns the public URL path.
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	if file.Size > s.cfg.MaxSize {
		return "", ErrUploadTooLarge
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// the type comes from the content, not the filename
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(buffer[:n])
	ext, ok := uploadExtensions[contentType]
	if !ok || !s.typeAllowed(contentType) {
		return "", ErrUploadType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	normalizedScene := normalizeUploadScene(scene)
	now := s.now()
	year, month := now.Format("2006"), now.Format("01")
	filename := uuid.New().String() + ext
	savePath := filepath.Join(s.cfg.Dir, normalizedScene, year, month, filename)
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// the header size is client supplied, cap the copy as well
	written, err := io.Copy(dst, io.LimitReader(src, s.cfg.MaxSize+1))
	if err != nil {
		return "", err
	}
	if written > s.cfg.MaxSize {
		_ = dst.Close()
		_ = os.Remove(savePath)
		return "", ErrUploadTooLarge
	}
	return path.Join(s.cfg.PublicPath, normalizedScene, year, month, filename), nil
}

func (s *UploadService) typeAllowed(contentType string) bool {
	for _, t := range s.cfg.AllowedTypes {
		if strings.EqualFold(strings.TrimSpace(t), contentType) {
			return true
		}
	}
	return false
}

func normalizeUploadScene(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedUploadScenes[value]; ok {
		return value
	}
	return "common"
}

