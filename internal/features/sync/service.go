package sync

import (
	"context"

	"go-pipeline/internal/cache"
	"go-pipeline/internal/config"
	"go-pipeline/internal/remote"
	"go-pipeline/internal/state"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LoadResult describes what one load published and how. The snapshot itself
// is published through the state store.
type LoadResult struct {
	ServedFromCache bool `json:"servedFromCache"`
	Refreshed       bool `json:"refreshed"`
	ShowLoader      bool `json:"showLoader"`
}

type SyncService interface {
	// Load publishes the best snapshot it can get: the cached one first if
	// present, then the fresh one. The returned result reflects what ended
	// up published.
	Load(ctx context.Context, showLoader bool) (LoadResult, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type SyncServiceImpl struct {
	Cache  *cache.Store
	Remote remote.Client
	State  *state.AppState
	Config *config.Config
	Logger *zap.Logger

	scheduler *cron.Cron
}

func NewSyncService(cacheStore *cache.Store, client remote.Client, appState *state.AppState, cfg *config.Config, logger *zap.Logger) SyncService {
	return &SyncServiceImpl{
		Cache:  cacheStore,
		Remote: client,
		State:  appState,
		Config: cfg,
		Logger: logger,
	}
}

func (s *SyncServiceImpl) Load(ctx context.Context, showLoader bool) (LoadResult, error) {
	result := LoadResult{ShowLoader: showLoader}

	// Serve whatever the cache has before touching the network. Cached data,
	// however old, beats a blank screen, so the blocking loader is
	// suppressed whenever the cache hits.
	if cached, ok := s.Cache.Get(cache.SnapshotKey); ok {
		s.State.SetSnapshot(cached)
		result.ServedFromCache = true
		result.ShowLoader = false
	}

	// Always fetch fresh data, cache hit or not.
	fresh, err := s.Remote.FetchInitialData(ctx)
	if err != nil {
		if result.ServedFromCache {
			// The user already sees valid data; a failed refresh is only
			// worth a log line.
			s.Logger.Warn("background refresh failed, keeping cached snapshot", zap.Error(err))
			return result, nil
		}
		return result, err
	}

	// Full replace, then write back so the next startup is instant.
	s.State.SetSnapshot(fresh)
	if err := s.Cache.Set(cache.SnapshotKey, fresh); err != nil {
		s.Logger.Warn("failed to write snapshot cache", zap.Error(err))
	}
	result.Refreshed = true
	return result, nil
}

// InitializeScheduler starts the periodic background refresh so the snapshot
// stays warm between requests.
func (s *SyncServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.Config.RefreshSpec, func() {
		if _, ok := s.State.Session(); !ok {
			return
		}
		if _, err := s.Load(context.Background(), false); err != nil {
			s.Logger.Warn("scheduled refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.scheduler.Start()
	s.Logger.Info("background refresh scheduled", zap.String("spec", s.Config.RefreshSpec))
	return nil
}

func (s *SyncServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
	}
	return nil
}
