package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adampresley/driveportfolio/pkg/services"
	"github.com/stretchr/testify/assert"
)

type countingSync struct {
	runs    atomic.Int32
	running atomic.Bool
	options atomic.Value
}

func (s *countingSync) IsRunning() bool {
	return s.running.Load()
}

func (s *countingSync) PruneFolders(ctx context.Context, isPresent services.FolderPresenceFunc) (services.PruneResult, error) {
	return services.PruneResult{}, nil
}

func (s *countingSync) Run(ctx context.Context, options services.SyncOptions) (services.SyncResult, error) {
	s.runs.Add(1)
	s.options.Store(options)
	return services.SyncResult{}, nil
}

func (s *countingSync) SweepOrphans(ctx context.Context) (int, error) {
	return 0, nil
}

func TestSchedulerRunsOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := &countingSync{}

	NewSyncScheduler(SyncSchedulerConfig{
		Options:     services.SyncOptions{DownloadPublic: true},
		RunOnStart:  true,
		ShutdownCtx: ctx,
		SyncService: fake,
	}).Start()

	assert.Eventually(t, func() bool { return fake.runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, services.SyncOptions{DownloadPublic: true}, fake.options.Load())
}

func TestTickSkipsWhileRunning(t *testing.T) {
	fake := &countingSync{}
	fake.running.Store(true)

	scheduler := NewSyncScheduler(SyncSchedulerConfig{
		ShutdownCtx: context.Background(),
		SyncService: fake,
	})

	scheduler.tick()
	assert.Equal(t, int32(0), fake.runs.Load())

	fake.running.Store(false)
	scheduler.tick()
	assert.Equal(t, int32(1), fake.runs.Load())
}

func TestSchedulerRunsOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := &countingSync{}

	NewSyncScheduler(SyncSchedulerConfig{
		Interval:    time.Second,
		ShutdownCtx: ctx,
		SyncService: fake,
	}).Start()

	assert.Equal(t, int32(0), fake.runs.Load())
	assert.Eventually(t, func() bool { return fake.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
