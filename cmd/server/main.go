package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dorada-store/internal/app"
	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGold  = "\033[33m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all (default), api, worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	printStartupBanner(cfg)

	release := cfg.Server.Mode == "release"
	for name, secret := range map[string]string{"jwt.secret": cfg.JWT.SecretKey, "admin.access_key": cfg.Admin.AccessKey} {
		if !isWeakSecret(secret) {
			continue
		}
		if release {
			stdLog.Fatalf("%s is weak or still the default; set a strong random value", name)
		}
		logger.Warnw("weak_secret", "key", name)
	}
	if release {
		gin.SetMode(gin.ReleaseMode)
	}
	i18n.SetDefaultLocale(cfg.App.DefaultLocale)

	// admins, roles and the audit log need the database even with memory storage
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, !release); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}

	if err := models.InitDefaultAdmin(cfg.Admin.DefaultUsername, cfg.Admin.DefaultPassword); err != nil {
		logger.Warnw("default_admin_init_failed", "error", err)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("server stopped: %v", err)
	}
}

func printStartupBanner(cfg *config.Config) {
	fmt.Println(ansiGold + ansiBold + "  ◆ " + cfg.App.Name + " · " + cfg.App.NameAr + ansiReset)
	fmt.Println(ansiDim + "  storefront api · " + cfg.Server.Host + ":" + cfg.Server.Port + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
