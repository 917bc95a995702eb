package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"MyMedia/cache"
	"MyMedia/logger"
	"MyMedia/repository"
	"MyMedia/storage"

	"github.com/fsnotify/fsnotify"
)

// Service reconciles media records against the content store: any record
// whose backing file is missing is deleted. It runs one pass per interval
// for the lifetime of the process, plus prompt passes triggered by
// filesystem remove events. Errors never terminate the loop.
type Service struct {
	mediaRepo repository.MediaRepository
	store     *storage.Store
	interval  time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	kick   chan struct{}
}

// NewService creates a cleanup service. interval is how long the loop sleeps
// between passes.
func NewService(mediaRepo repository.MediaRepository, store *storage.Store, interval time.Duration) *Service {
	return &Service{
		mediaRepo: mediaRepo,
		store:     store,
		interval:  interval,
		kick:      make(chan struct{}, 1),
	}
}

// Start launches the background loop. The service stops when Stop is called
// or the parent context is cancelled.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.watch(ctx)
	go s.run(ctx)

	logger.Info("Cleanup service started", logger.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for the in-flight pass to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	logger.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.kick:
		}

		if err := s.RunOnce(ctx); err != nil {
			logger.Error("Cleanup pass failed", logger.ErrorField(err))
		}
	}
}

// RunOnce performs a single reconciliation pass. Per-record failures are
// logged and skipped; only a failure to enumerate records is returned.
func (s *Service) RunOnce(ctx context.Context) error {
	records, err := s.mediaRepo.GetAllMedia()
	if err != nil {
		return fmt.Errorf("failed to enumerate media records: %w", err)
	}

	removed := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		path := s.store.ResolvePath(rec.UserID, rec.Title)
		if s.store.Exists(path) {
			continue
		}

		if err := s.mediaRepo.DeleteMedia(rec.ID); err != nil {
			logger.Error("Failed to delete orphaned media record",
				logger.Int64("mediaId", rec.ID),
				logger.String("title", rec.Title),
				logger.ErrorField(err))
			continue
		}
		cache.InvalidateMediaList(ctx, rec.UserID)
		removed++

		logger.Info("Removed orphaned media record",
			logger.Int64("mediaId", rec.ID),
			logger.Int64("userId", rec.UserID),
			logger.String("title", rec.Title))
	}

	if removed > 0 {
		logger.Info("Cleanup pass completed",
			logger.Int("scanned", len(records)),
			logger.Int("removed", removed))
	}
	return nil
}

// watch schedules a prompt pass when files disappear from the content store,
// so orphaned records are pruned before the next interval tick. Watch
// failures degrade the service to interval-only operation.
func (s *Service) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("Filesystem watcher unavailable, relying on interval passes", logger.ErrorField(err))
		return
	}
	defer watcher.Close()

	root := s.store.Root()
	if err := watcher.Add(root); err != nil {
		logger.Warn("Failed to watch upload root", logger.String("root", root), logger.ErrorField(err))
		return
	}

	// fsnotify is not recursive; register the existing per-user directories
	// and pick up new ones from create events on the root.
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() && strings.HasPrefix(e.Name(), "id_") {
				watcher.Add(filepath.Join(root, e.Name()))
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					watcher.Add(event.Name)
				}
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				s.requestPass()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Filesystem watcher error", logger.ErrorField(err))
		}
	}
}

// requestPass nudges the loop without blocking; a pending request is enough.
func (s *Service) requestPass() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}
