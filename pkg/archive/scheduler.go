package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sguter90/microclimate/pkg/export"
)

// Uploader stores one export file and returns where it went
type Uploader interface {
	Upload(ctx context.Context, kind, filename string, data []byte) (string, error)
}

// Scheduler periodically archives a full CSV export of every kind
type Scheduler struct {
	source   export.Source
	uploader Uploader
	interval time.Duration
	timeout  time.Duration

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewScheduler creates a scheduler archiving every interval
func NewScheduler(source export.Source, uploader Uploader, interval time.Duration) *Scheduler {
	return &Scheduler{
		source:   source,
		uploader: uploader,
		interval: interval,
		timeout:  time.Minute,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the periodic archiving
func (s *Scheduler) Start() {
	s.started = true
	go s.run()
	log.Info().Dur("interval", s.interval).Msg("Export archive scheduler started")
}

// Stop halts the scheduler and waits for a running pass to finish
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	if s.started {
		<-s.done
	}
	log.Info().Msg("Export archive scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.ArchiveAll(context.Background()); err != nil {
				log.Error().Err(err).Msg("Scheduled export archiving incomplete")
			}
		}
	}
}

// ArchiveAll exports and uploads every kind. A failing kind does not stop
// the others; the returned error joins all failures.
func (s *Scheduler) ArchiveAll(ctx context.Context) (int, error) {
	var errs []error
	archived := 0

	for _, kind := range export.Kinds {
		key, err := s.archiveKind(ctx, kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to archive %s: %w", kind, err))
			continue
		}
		archived++
		log.Debug().Str("kind", string(kind)).Str("key", key).Msg("Export archived")
	}

	log.Info().Int("archived", archived).Int("failed", len(errs)).Msg("Export archive pass finished")
	return archived, errors.Join(errs...)
}

func (s *Scheduler) archiveKind(ctx context.Context, kind export.Kind) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var buf bytes.Buffer
	if _, err := export.Write(ctx, &buf, s.source, kind); err != nil {
		return "", err
	}
	return s.uploader.Upload(ctx, string(kind), kind.Filename(), buf.Bytes())
}
