package app

import (
	"errors"

	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/provider"
	"github.com/dorada-store/internal/router"
	"github.com/dorada-store/internal/worker"
)

// BuildRunner wires the container and the services the mode asks for.
// With the queue disabled, "all" runs only the API and notifications go
// through the in-process dispatcher.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, errors.New("worker mode needs queue.enabled")
	}

	container := provider.NewContainer(cfg)

	var services []Service
	if runsAPI(mode) {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	if runsWorker(mode, cfg.Queue.Enabled) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			container.Close()
			return nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Infow("worker_skipped", "reason", "queue_disabled", "notifications", "in_process")
	}

	runner := NewRunner(services...)
	runner.OnStop(container.Close)
	return runner, nil
}

// Run starts the services for opts.Mode. models.DB must already be open.
func Run(opts Options) error {
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return err
	}
	opts = normalizeOptions(opts)
	opts.Mode = mode

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode, "storage", opts.Config.Storage.Backend)
	return RunWithOptions(runner, opts)
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}
