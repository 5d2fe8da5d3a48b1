package harvester

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// ErrAlreadyRunning is returned when a source is harvested already
var ErrAlreadyRunning = errors.New("harvest already running")

// Runner harvests one data source
type Runner interface {
	Run(ctx context.Context, src *model.DataSource) (*model.DataSourceImport, error)
}

type entry struct {
	id   cron.EntryID
	spec string
}

// Scheduler runs a cron entry per active data source
type Scheduler struct {
	cron    *cron.Cron
	sources store.DataSourcesStore
	runner  Runner
	logger  *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	entries map[uint]entry
	running map[uint]bool
}

// NewScheduler creates a Scheduler
func NewScheduler(sources store.DataSourcesStore, runner Runner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sources: sources,
		runner:  runner,
		logger:  logging.OrNop(logger),
		ctx:     context.Background(),
		entries: map[uint]entry{},
		running: map[uint]bool{},
	}
}

// Spec returns the cron schedule of a source
func Spec(src *model.DataSource) string {
	return fmt.Sprintf("@every %s", src.Frequency())
}

// Start syncs the entries and starts the cron loop. The loop stops when
// ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if err := s.Sync(ctx); err != nil {
		return err
	}
	s.cron.Start()
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		s.logger.Info("harvest scheduler stopped")
	}()
	s.logger.Info("harvest scheduler started", zap.Int("sources", len(s.Entries())))
	return nil
}

// Sync reads the active sources and adds, replaces or removes their
// entries
func (s *Scheduler) Sync(ctx context.Context) error {
	sources, err := s.sources.ListDataSources(ctx, true)
	if err != nil {
		return fmt.Errorf("listing data sources: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active := make(map[uint]bool, len(sources))
	for i := range sources {
		src := sources[i]
		active[src.ID] = true
		spec := Spec(&src)
		if e, ok := s.entries[src.ID]; ok {
			if e.spec == spec {
				continue
			}
			s.cron.Remove(e.id)
		}
		id, err := s.cron.AddFunc(spec, s.job(src.ID))
		if err != nil {
			return fmt.Errorf("scheduling source %d: %w", src.ID, err)
		}
		s.entries[src.ID] = entry{id: id, spec: spec}
		s.logger.Debug("harvest scheduled", zap.Uint("source", src.ID), zap.String("spec", spec))
	}
	for id, e := range s.entries {
		if !active[id] {
			s.cron.Remove(e.id)
			delete(s.entries, id)
			s.logger.Debug("harvest unscheduled", zap.Uint("source", id))
		}
	}
	return nil
}

// Entries returns the cron spec of every scheduled source
func (s *Scheduler) Entries() map[uint]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint]string, len(s.entries))
	for id, e := range s.entries {
		out[id] = e.spec
	}
	return out
}

func (s *Scheduler) job(sourceID uint) func() {
	return func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()
		if _, err := s.RunNow(ctx, sourceID); err != nil {
			if errors.Is(err, ErrAlreadyRunning) {
				s.logger.Info("skipping overlapping harvest", zap.Uint("source", sourceID))
				return
			}
			s.logger.Error("scheduled harvest failed", zap.Uint("source", sourceID), zap.Error(err))
		}
	}
}

// RunNow harvests a source immediately unless it is already being
// harvested
func (s *Scheduler) RunNow(ctx context.Context, sourceID uint) (*model.DataSourceImport, error) {
	s.mu.Lock()
	if s.running[sourceID] {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.running[sourceID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, sourceID)
		s.mu.Unlock()
	}()

	src, err := s.sources.FetchDataSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return s.runner.Run(ctx, src)
}
