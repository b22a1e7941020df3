package service

import (
	"strings"
	"sync"
	"time"

	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// CaptchaVerifyPayload captcha answer sent with a protected request
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge image captcha challenge
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaPublicSetting is what the storefront needs to render the captcha.
type CaptchaPublicSetting struct {
	Provider string          `json:"provider"`
	Scenes   map[string]bool `json:"scenes"`
}

// CaptchaService generates and checks image captchas for the scenes that
// enable them.
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu    sync.Mutex
	store base64Captcha.Store
}

func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// PublicSetting returns the provider and the enabled scenes.
func (s *CaptchaService) PublicSetting() CaptchaPublicSetting {
	return CaptchaPublicSetting{
		Provider: s.provider(),
		Scenes: map[string]bool{
			constants.CaptchaSceneAdminLogin: s.sceneEnabled(constants.CaptchaSceneAdminLogin),
			constants.CaptchaSceneCheckout:   s.sceneEnabled(constants.CaptchaSceneCheckout),
		},
	}
}

// GenerateImageChallenge creates a new image captcha.
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if s.provider() != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}
	image := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		positiveOr(image.Height, 80),
		positiveOr(image.Width, 240),
		image.NoiseCount,
		image.ShowLine,
		positiveOr(image.Length, 5),
		"23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.imageStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify checks the answer when scene requires a captcha. Each challenge
// can be answered once.
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if s == nil || !s.sceneEnabled(scene) {
		return nil
	}
	if s.provider() != constants.CaptchaProviderImage {
		return ErrCaptchaConfigInvalid
	}
	id := strings.TrimSpace(payload.CaptchaID)
	code := strings.TrimSpace(payload.CaptchaCode)
	if id == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.imageStore().Verify(id, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) provider() string {
	if strings.TrimSpace(s.cfg.Provider) == constants.CaptchaProviderImage {
		return constants.CaptchaProviderImage
	}
	return constants.CaptchaProviderNone
}

func (s *CaptchaService) sceneEnabled(scene string) bool {
	if s.provider() == constants.CaptchaProviderNone {
		return false
	}
	switch scene {
	case constants.CaptchaSceneAdminLogin:
		return s.cfg.Scenes.AdminLogin
	case constants.CaptchaSceneCheckout:
		return s.cfg.Scenes.Checkout
	}
	return false
}

func (s *CaptchaService) imageStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		expire := time.Duration(positiveOr(s.cfg.Image.ExpireSeconds, 300)) * time.Second
		s.store = base64Captcha.NewMemoryStore(positiveOr(s.cfg.Image.MaxStore, 10240), expire)
	}
	return s.store
}

// SetImageStore swaps the challenge store, e.g. to share answers across instances.
func (s *CaptchaService) SetImageStore(store base64Captcha.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
