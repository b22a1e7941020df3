package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is one long-running part of the process: the storefront API or
// the notification worker.
type Service interface {
	Name() string
	// Start blocks until the service stops. Returning while ctx is still
	// live counts as a failure and takes the process down.
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner starts services together and stops them all when any exits.
// Services stop in registration order, so the API stops taking orders
// before the worker drains its queue.
type Runner struct {
	services []Service
	onStop   []func()
}

func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// OnStop registers a hook run after every service has stopped.
func (r *Runner) OnStop(fn func()) {
	if r == nil || fn == nil {
		return
	}
	r.onStop = append(r.onStop, fn)
}

// RunWithOptions runs until a signal in opts.Signals arrives or a service fails.
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run blocks until ctx ends or a service returns. A cancelled ctx is a
// clean exit; otherwise the first service error is returned.
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	for i, svc := range r.services {
		if svc == nil {
			return fmt.Errorf("service %d is nil", i)
		}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}

	g, runCtx := errgroup.WithContext(ctx)
	for _, svc := range r.services {
		g.Go(func() error {
			log.Infow("service_start", "service", svc.Name())
			err := svc.Start(runCtx)
			log.Infow("service_exit", "service", svc.Name(), "error", err)
			if err == nil && runCtx.Err() == nil {
				return fmt.Errorf("%s exited unexpectedly", svc.Name())
			}
			return err
		})
	}
	g.Go(func() error {
		<-runCtx.Done()
		r.stopAll(stopTimeout, log)
		return nil
	})

	err := g.Wait()
	for _, fn := range r.onStop {
		fn()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runner) stopAll(timeout time.Duration, log *zap.SugaredLogger) {
	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, svc := range r.services {
		if err := svc.Stop(stopCtx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}
