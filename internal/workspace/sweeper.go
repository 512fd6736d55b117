package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cassandra/internal/logging"
	"cassandra/internal/observability"
)

const (
	DefaultMaxAge        = 30 * time.Minute
	DefaultSweepInterval = 10 * time.Minute
)

// Sweeper deletes generated decks older than MaxAge from the output directory.
type Sweeper struct {
	dir      string
	keep     map[string]bool
	maxAge   time.Duration
	interval time.Duration
	logger   logging.Logger
	metrics  *observability.MetricsCollector
	now      func() time.Time
}

type SweeperOption func(*Sweeper)

func WithMaxAge(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

func WithInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithSweeperLogger(logger logging.Logger) SweeperOption {
	return func(s *Sweeper) { s.logger = logging.OrNop(logger) }
}

func WithSweeperMetrics(m *observability.MetricsCollector) SweeperOption {
	return func(s *Sweeper) { s.metrics = m }
}

// WithKeep exempts the given files from sweeping, such as a configured
// template that lives next to generated decks.
func WithKeep(paths ...string) SweeperOption {
	return func(s *Sweeper) {
		for _, path := range paths {
			if strings.TrimSpace(path) == "" {
				continue
			}
			s.keep[cleanAbs(path)] = true
		}
	}
}

func withClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) { s.now = now }
}

// NewSweeper watches the workspace output directory. The data directory
// holds user files and is never swept.
func (w *Workspace) NewSweeper(opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		dir:      w.OutputDir,
		keep:     map[string]bool{cleanAbs(w.TemplatePath()): true},
		maxAge:   DefaultMaxAge,
		interval: DefaultSweepInterval,
		logger:   logging.NewComponentLogger("sweeper"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep removes every stale .pptx in the output directory except kept files
// and returns how many were deleted.
func (s *Sweeper) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.maxAge)
	deleted := 0
	entries, err := os.ReadDir(s.dir)
	if err != nil && !os.IsNotExist(err) {
		s.logger.Warn("sweep %s: %v", s.dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == TemplateFileName || !strings.EqualFold(filepath.Ext(name), ".pptx") {
			continue
		}
		path := filepath.Join(s.dir, name)
		if s.keep[cleanAbs(path)] {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove %s: %v", path, err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		s.logger.Info("sweeper removed %d stale decks", deleted)
	}
	s.metrics.RecordSweep(ctx, deleted)
	return deleted
}

func cleanAbs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
