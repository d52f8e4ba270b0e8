// Package watcher runs the fetch → diff → persist cycle and renders
// the resulting notifications.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/absolutepraya/siasisten-bot/lib/lowongan"
	"github.com/absolutepraya/siasisten-bot/lib/lowonganstore"
	"github.com/absolutepraya/siasisten-bot/lib/timezone"
)

var tracer = otel.Tracer("services/watcher")

var (
	// ErrScraperUnavailable means login failed at startup, no
	// scraping can happen for the rest of the process lifetime.
	ErrScraperUnavailable = errors.New("scraper is not available")
	// ErrFetchFailed means the portal returned no usable rows. An
	// empty listing is indistinguishable from a broken scrape, so the
	// stored snapshot is left untouched.
	ErrFetchFailed = errors.New("failed to retrieve lowongan data")
)

// Scraper is the portal session the service polls.
// *siasisten.Client satisfies it.
type Scraper interface {
	FetchLowongan(ctx context.Context) ([]lowongan.Lowongan, error)
}

type UpdateResult struct {
	Time       time.Time
	Entries    []lowongan.Lowongan
	NewEntries []lowongan.Lowongan
	// FirstRun is set when there was no prior snapshot. Every entry
	// is technically new, present them as a full listing instead.
	FirstRun bool
}

type Service struct {
	scraper Scraper
	store   *lowonganstore.Store

	// serializes update cycles, overlapping runs would read the same
	// previous snapshot and one side's notifications would be lost
	mu sync.Mutex
}

func NewService(scraper Scraper, store *lowonganstore.Store) *Service {
	return &Service{
		scraper: scraper,
		store:   store,
	}
}

// ScraperAvailable reports whether login succeeded at startup.
// Without a scraper only display/clear/help work.
func (s *Service) ScraperAvailable() bool {
	return s.scraper != nil
}

func (s *Service) Snapshot() lowongan.Snapshot {
	return s.store.Current()
}

func (s *Service) Clear() error {
	return s.store.Clear()
}

// RunUpdate performs one fetch → diff → persist cycle. On
// ErrScraperUnavailable or ErrFetchFailed the stored snapshot and its
// file are unchanged.
func (s *Service) RunUpdate(ctx context.Context) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "watcher:RunUpdate")
	defer span.End()

	if s.scraper == nil {
		span.SetStatus(codes.Error, ErrScraperUnavailable.Error())
		return UpdateResult{}, ErrScraperUnavailable
	}

	fetched, err := s.scraper.FetchLowongan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		slog.ErrorContext(ctx, "fetch lowongan", "err", err)
		return UpdateResult{}, ErrFetchFailed
	}
	if len(fetched) == 0 {
		span.SetStatus(codes.Error, "fetch returned no entries")
		slog.WarnContext(ctx, "fetch returned no entries, keeping previous snapshot")
		return UpdateResult{}, ErrFetchFailed
	}

	previous := s.store.Current()
	fresh := lowongan.Diff(previous.Entries, fetched)

	snap := lowongan.Snapshot{Time: timezone.Now(), Entries: fetched}
	if err := s.store.Save(snap); err != nil {
		// stale state on disk is survivable, the in-memory snapshot
		// is already current
		slog.ErrorContext(ctx, "persist snapshot", "err", err)
	}

	slog.InfoContext(ctx, "update cycle complete",
		"entries", len(fetched), "new", len(fresh))
	return UpdateResult{
		Time:       snap.Time,
		Entries:    fetched,
		NewEntries: fresh,
		FirstRun:   previous.IsZero(),
	}, nil
}

// Notifier receives scheduled update messages.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Watch polls the portal on a fixed interval until ctx is cancelled,
// pushing a message to the notifier after every successful cycle.
// Failed cycles are logged and skipped, never fatal.
func (s *Service) Watch(ctx context.Context, interval time.Duration, notifier Notifier) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.RunUpdate(ctx)
			if err != nil {
				slog.WarnContext(ctx, "scheduled update skipped", "err", err)
				continue
			}

			var msg Message
			if res.FirstRun {
				msg = FormatListing(s.Snapshot())
			} else {
				msg = FormatDiff(res.NewEntries, res.Time)
			}
			if err := notifier.Notify(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "deliver scheduled update", "err", err)
			}
		}
	}
}
