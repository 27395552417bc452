package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/adampresley/driveportfolio/pkg/services"
	"github.com/robfig/cron/v3"
)

type SyncSchedulerConfig struct {
	Interval    time.Duration
	Options     services.SyncOptions
	RunOnStart  bool
	ShutdownCtx context.Context
	SyncService services.SyncServicer
}

/*
SyncScheduler keeps the image cache warm by running the Drive sync in the
background, once at start when asked to and then on every interval. A tick
that arrives while a sync is still running is skipped.
*/
type SyncScheduler struct {
	interval    time.Duration
	options     services.SyncOptions
	runOnStart  bool
	shutdownCtx context.Context
	syncService services.SyncServicer
}

func NewSyncScheduler(config SyncSchedulerConfig) SyncScheduler {
	return SyncScheduler{
		interval:    config.Interval,
		options:     config.Options,
		runOnStart:  config.RunOnStart,
		shutdownCtx: config.ShutdownCtx,
		syncService: config.SyncService,
	}
}

func (s SyncScheduler) Start() {
	go func() {
		if s.runOnStart {
			s.run()
		}

		if s.interval <= 0 {
			return
		}

		// cron.Every rounds down to whole seconds, one second minimum
		scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		scheduler.Schedule(cron.Every(s.interval), cron.FuncJob(s.tick))
		scheduler.Start()

		slog.Info("drive sync scheduled", "interval", s.interval.String())

		<-s.shutdownCtx.Done()
		<-scheduler.Stop().Done()
	}()
}

func (s SyncScheduler) tick() {
	if s.syncService.IsRunning() {
		slog.Info("drive sync already running. skipping...")
		return
	}

	s.run()
}

func (s SyncScheduler) run() {
	if _, err := s.syncService.Run(s.shutdownCtx, s.options); err != nil {
		if errors.Is(err, services.ErrSyncInProgress) {
			slog.Info("drive sync already running. skipping...")
			return
		}

		slog.Error("drive sync failed", "error", err)
		return
	}

	slog.Info("drive sync finished.")
}
