// Package monitor periodically writes the engine status to a JSON file so
// external tools can see whether the plugin is serving anyone.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tstelemetry/server/internal/network"
)

// DefaultInterval is used when Dependencies.Interval is unset.
const DefaultInterval = time.Second

// StatusSource is anything that can describe its current network state.
type StatusSource interface {
	Status() network.Status
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Engine   StatusSource
	Frames   network.FrameSource // optional
	Logger   *slog.Logger
	File     string
	Interval time.Duration
}

// Report is the document written to the status file.
type Report struct {
	Time     time.Time      `json:"time"`
	Uptime   string         `json:"uptime"`
	Engine   network.Status `json:"engine"`
	Paused   bool           `json:"paused"`
	GameTime uint32         `json:"gameTime"`
}

// Service manages status monitoring
type Service struct {
	deps    Dependencies
	started time.Time

	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{deps: deps, started: time.Now()}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current status report.
func (s *Service) GetStatus() Report {
	r := Report{
		Time:   time.Now().UTC(),
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Engine: s.deps.Engine.Status(),
	}
	if s.deps.Frames != nil {
		f := s.deps.Frames.Snapshot()
		r.Paused = f.Paused
		r.GameTime = f.GameTime
	}
	return r
}

// WriteStatus writes one report. The file is replaced atomically so readers
// never see a partial document.
func (s *Service) WriteStatus() error {
	b, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.deps.File), ".status-*")
	if err != nil {
		return fmt.Errorf("failed to create status file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.deps.File); err != nil {
		return fmt.Errorf("failed to replace status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	if s.deps.Engine == nil || s.deps.File == "" {
		return fmt.Errorf("status monitor needs an engine and a file")
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.Logger
		logger.Debug("Starting status monitor", "file", s.deps.File, "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			if err := s.WriteStatus(); err != nil {
				logger.Error("Error writing status file", "error", err)
			}
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for its last write.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning || s.stopChan == nil {
		s.mu.Unlock()
		return
	}
	stop, done := s.stopChan, s.done
	s.stopChan = nil
	s.mu.Unlock()

	close(stop)
	<-done
}
