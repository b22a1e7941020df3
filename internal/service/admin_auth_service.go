package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWT scopes; access tokens only open the login form.
const (
	scopeAccess = "access"
	scopeAdmin  = "admin"
)

// AccessSession proves the admin area key was presented.
type AccessSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminSession is a signed-in admin.
type AdminSession struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// JWTClaims admin session claims
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	Scope        string `json:"scope"`
	jwt.RegisteredClaims
}

// AccessClaims access session claims
type AccessClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// AdminIdentity is what authorization needs about the caller.
type AdminIdentity struct {
	AdminID  uint
	Username string
	IsSuper  bool
}

// LoginInput admin login payload
type LoginInput struct {
	Username string               `json:"username"`
	Password string               `json:"password"`
	Captcha  CaptchaVerifyPayload `json:"captcha"`
}

// AdminAuthService issues and checks the two admin sessions: the access
// session granted by the shared key, and the per-admin login session.
type AdminAuthService struct {
	jwtCfg   config.JWTConfig
	adminCfg config.AdminConfig
	minPass  int
	admins   repository.AdminRepository
	captcha  *CaptchaService
	now      func() time.Time
	setupMu  sync.Mutex
}

func NewAdminAuthService(cfg *config.Config, admins repository.AdminRepository, captcha *CaptchaService) *AdminAuthService {
	return &AdminAuthService{
		jwtCfg:   cfg.JWT,
		adminCfg: cfg.Admin,
		minPass:  cfg.Security.PasswordMinLength,
		admins:   admins,
		captcha:  captcha,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for issuing and expiry checks.
func (s *AdminAuthService) WithClock(now func() time.Time) *AdminAuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// GrantAccess exchanges the admin area key for an access session.
func (s *AdminAuthService) GrantAccess(secretKey string) (*AccessSession, error) {
	expected := strings.TrimSpace(s.adminCfg.AccessKey)
	given := strings.TrimSpace(secretKey)
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(given)) != 1 {
		return nil, ErrAccessKeyInvalid
	}
	now := s.now()
	expiresAt := now.Add(hoursOr(s.adminCfg.AccessTTLHours, 24))
	claims := AccessClaims{
		Scope: scopeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := s.sign(claims)
	if err != nil {
		return nil, err
	}
	return &AccessSession{Token: token, ExpiresAt: expiresAt}, nil
}

// ParseAccess validates an access session token.
func (s *AdminAuthService) ParseAccess(tokenString string) (*AccessClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrAccessRequired
	}
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		return nil, ErrAccessRequired
	}
	if claims.Scope != scopeAccess {
		return nil, ErrAccessRequired
	}
	return claims, nil
}

// IsSetup reports whether an admin account exists.
func (s *AdminAuthService) IsSetup(ctx context.Context) (bool, error) {
	count, err := s.admins.Count()
	if err != nil {
		return false, storageError("count admins", err)
	}
	return count > 0, nil
}

// Setup creates the first, super admin while setup is enabled. Only one
// setup can ever succeed, including across processes sharing the database.
func (s *AdminAuthService) Setup(ctx context.Context, username, password string) (*models.Admin, error) {
	if !s.adminCfg.SetupEnabled {
		return nil, ErrSetupDisabled
	}
	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	done, err := s.IsSetup(ctx)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, ErrSetupDisabled
	}
	admin, err := s.newAdmin(username, password, true)
	if err != nil {
		return nil, err
	}
	if err := s.admins.CreateFirst(admin); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSetupDisabled
		}
		return nil, storageError("create first admin", err)
	}
	logger.Infow("admin_setup_completed", "admin_id", admin.ID, "username", admin.Username)
	return admin, nil
}

// CreateAdmin adds an account.
func (s *AdminAuthService) CreateAdmin(ctx context.Context, username, password string, super bool) (*models.Admin, error) {
	admin, err := s.newAdmin(username, password, super)
	if err != nil {
		return nil, err
	}
	if err := s.admins.Create(admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameExists
		}
		return nil, storageError("create admin", err)
	}
	logger.Infow("admin_created", "admin_id", admin.ID, "username", admin.Username, "is_super", super)
	return admin, nil
}

func (s *AdminAuthService) newAdmin(username, password string, super bool) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username", "error.username_required")
	}
	if err := validatePassword(s.minPass, password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &models.Admin{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      super,
		CreatedAt:    s.now(),
	}, nil
}

// Login checks the access session, the optional captcha and the password.
func (s *AdminAuthService) Login(ctx context.Context, accessToken string, input LoginInput, clientIP string) (*AdminSession, error) {
	if _, err := s.ParseAccess(accessToken); err != nil {
		return nil, err
	}
	if s.captcha != nil {
		if err := s.captcha.Verify(constants.CaptchaSceneAdminLogin, input.Captcha); err != nil {
			return nil, err
		}
	}
	admin, err := s.admins.GetByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		return nil, storageError("get admin", err)
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		logger.Warnw("admin_login_failed", "username", admin.Username, "client_ip", clientIP)
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(admin)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.admins.TouchLogin(admin.ID, now); err != nil {
		logger.Warnw("admin_touch_login_failed", "admin_id", admin.ID, "error", err)
	}
	admin.LastLoginAt = &now
	if err := cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin)); err != nil {
		logger.Debugw("admin_auth_state_cache_failed", "admin_id", admin.ID, "error", err)
	}
	logger.Infow("admin_login", "admin_id", admin.ID, "username", admin.Username, "client_ip", clientIP)
	return session, nil
}

// ParseSession validates the signature, scope and expiry of a session token.
func (s *AdminAuthService) ParseSession(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Scope != scopeAdmin || claims.AdminID == 0 {
		return nil, ErrAccessRequired
	}
	return claims, nil
}

// Authenticate parses a session and rejects it once the admin's token
// version moved on (logout, password change).
func (s *AdminAuthService) Authenticate(ctx context.Context, tokenString string) (*AdminIdentity, error) {
	claims, err := s.ParseSession(tokenString)
	if err != nil {
		return nil, err
	}
	if cached, hit, cacheErr := cache.GetAdminAuthState(ctx, claims.AdminID); cacheErr == nil && hit && cached != nil {
		if cached.TokenVersion != claims.TokenVersion {
			return nil, ErrSessionExpired
		}
		return &AdminIdentity{AdminID: claims.AdminID, Username: claims.Username, IsSuper: cached.IsSuper}, nil
	}
	admin, err := s.admins.GetByID(claims.AdminID)
	if err != nil {
		return nil, storageError("get admin", err)
	}
	if admin == nil {
		return nil, ErrAccessRequired
	}
	if admin.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))
	return &AdminIdentity{AdminID: admin.ID, Username: admin.Username, IsSuper: admin.IsSuper}, nil
}

// Logout revokes every outstanding session of the admin.
func (s *AdminAuthService) Logout(ctx context.Context, adminID uint) error {
	if _, err := s.admins.BumpTokenVersion(adminID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return storageError("bump token version", err)
	}
	_ = cache.DelAdminAuthState(ctx, adminID)
	return nil
}

// ChangePassword verifies the old password, stores the new one and revokes
// every session.
func (s *AdminAuthService) ChangePassword(ctx context.Context, adminID uint, oldPassword, newPassword string) error {
	admin, err := s.Me(ctx, adminID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.minPass, newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.admins.SetPassword(adminID, hash); err != nil {
		return storageError("set password", err)
	}
	_ = cache.DelAdminAuthState(ctx, adminID)
	logger.Infow("admin_password_changed", "admin_id", adminID)
	return nil
}

// Me loads the admin row.
func (s *AdminAuthService) Me(ctx context.Context, adminID uint) (*models.Admin, error) {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return nil, storageError("get admin", err)
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

// ListAdmins returns every account.
func (s *AdminAuthService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.admins.List()
	if err != nil {
		return nil, storageError("list admins", err)
	}
	return admins, nil
}

func (s *AdminAuthService) issueSession(admin *models.Admin) (*AdminSession, error) {
	now := s.now()
	expiresAt := now.Add(hoursOr(s.jwtCfg.ExpireHours, 24))
	claims := JWTClaims{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		Scope:        scopeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := s.sign(claims)
	if err != nil {
		return nil, err
	}
	return &AdminSession{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

func (s *AdminAuthService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func (s *AdminAuthService) parse(tokenString string, claims jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrSessionExpired
		}
		return ErrAccessRequired
	}
	if !token.Valid {
		return ErrAccessRequired
	}
	return nil
}

// HashPassword bcrypt-hashes a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func hoursOr(hours, fallback int) time.Duration {
	if hours <= 0 {
		hours = fallback
	}
	return time.Duration(hours) * time.Hour
}
