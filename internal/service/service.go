package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/cache"
	"github.com/AdrianDanlos/rythm/internal/report"
	"github.com/AdrianDanlos/rythm/internal/stats"
	"github.com/AdrianDanlos/rythm/internal/storage"
)

type Options struct {
	SleepThreshold float64
	Location       *time.Location
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Service is the boundary between transport and the stats engine. It owns
// the clock, the user's calendar and the result cache.
type Service struct {
	entries   storage.EntryRepository
	cache     cache.Cache
	logger    internal.Logger
	threshold float64
	format    stats.DateFormatter
	clock     func() time.Time
}

func New(entries storage.EntryRepository, c cache.Cache, logger internal.Logger, opts Options) *Service {
	if c == nil {
		c = cache.NopCache{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		entries:   entries,
		cache:     c,
		logger:    logger,
		threshold: opts.SleepThreshold,
		format:    stats.LocalDateFormatter(loc),
		clock:     clock,
	}
}

// --- entries ---

func (s *Service) UpsertEntry(ctx context.Context, user *internal.User, date string, body *EntryRequest) (*internal.Entry, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if err := ValidateEntryRequest(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	previous, err := s.entries.GetEntry(ctx, user.ID, date)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load entry %s: %w", date, err)
	}
	e := buildEntry(user, date, body, previous, s.clock())
	if err := s.entries.UpsertEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("save entry %s: %w", date, err)
	}
	s.invalidate(ctx, user.ID)
	return e, nil
}

func (s *Service) GetEntry(ctx context.Context, user *internal.User, date string) (*internal.Entry, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	return s.entries.GetEntry(ctx, user.ID, date)
}

func (s *Service) ListEntries(ctx context.Context, user *internal.User) ([]internal.Entry, error) {
	return s.entries.ListEntries(ctx, user.ID)
}

func (s *Service) DeleteEntry(ctx context.Context, user *internal.User, date string) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	if err := s.entries.DeleteEntry(ctx, user.ID, date); err != nil {
		return err
	}
	s.invalidate(ctx, user.ID)
	return nil
}

// invalidate drops cached results. A failure only costs freshness until
// the TTL expires, so it is logged rather than returned.
func (s *Service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warnf("cache: invalidate %s: %v", userID, err)
	}
}

// --- stats ---

// Stats builds the stats result for the user's current day. threshold
// overrides the configured sleep threshold when non-nil.
func (s *Service) Stats(ctx context.Context, user *internal.User, threshold *float64) (*stats.Result, error) {
	th := s.threshold
	if threshold != nil {
		th = *threshold
	}
	now := s.clock()
	key := fmt.Sprintf("stats:%s:%g", s.format(now), th)

	// The slot pins the cache version read here. If a write lands while the
	// result is being built, the value goes to an already orphaned slot.
	var cached stats.Result
	slot, hit, err := s.cache.Get(ctx, user.ID, key, &cached)
	if err != nil {
		s.logger.Warnf("cache: get %s: %v", key, err)
	}
	if hit {
		return &cached, nil
	}

	entries, err := s.entries.ListEntries(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	result, err := stats.BuildStats(entries, th, s.format, now)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, slot, result); err != nil {
		s.logger.Warnf("cache: set %s: %v", key, err)
	}
	return result, nil
}

// Badges returns every badge, closest to unlocking first.
func (s *Service) Badges(ctx context.Context, user *internal.User) ([]stats.Badge, error) {
	result, err := s.Stats(ctx, user, nil)
	if err != nil {
		return nil, err
	}
	return AllBadges(result), nil
}

func AllBadges(result *stats.Result) []stats.Badge {
	badges := make([]stats.Badge, 0, len(result.Badges)+len(result.ConsistencyBadges))
	badges = append(badges, result.Badges...)
	badges = append(badges, result.ConsistencyBadges...)
	stats.SortBadges(badges)
	return badges
}

func (s *Service) Motivation(ctx context.Context, user *internal.User) (stats.MotivationMessage, error) {
	result, err := s.Stats(ctx, user, nil)
	if err != nil {
		return stats.MotivationMessage{}, err
	}
	return stats.SelectMotivationMessage(stats.NewMotivationContext(result)), nil
}

// --- csv ---

func (s *Service) Export(ctx context.Context, user *internal.User, w io.Writer) error {
	entries, err := s.entries.ListEntries(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	return report.WriteEntries(w, entries)
}

// Import upserts every row of a CSV export. Rows are validated up front;
// nothing is written if any row is invalid.
func (s *Service) Import(ctx context.Context, user *internal.User, r io.Reader) (int, error) {
	rows, err := report.ReadEntries(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	requests := make([]*EntryRequest, len(rows))
	for i, row := range rows {
		requests[i] = &EntryRequest{SleepHours: row.SleepHours, Mood: row.Mood, Note: row.Note, Tags: row.Tags}
		if err := ValidateEntryRequest(requests[i]); err != nil {
			return 0, fmt.Errorf("%w: row for %s: %v", ErrInvalidInput, row.EntryDate, err)
		}
	}

	now := s.clock()
	written := 0
	defer func() {
		if written > 0 {
			s.invalidate(ctx, user.ID)
		}
	}()
	for i, row := range rows {
		previous, err := s.entries.GetEntry(ctx, user.ID, row.EntryDate)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return written, fmt.Errorf("load entry %s: %w", row.EntryDate, err)
		}
		e := buildEntry(user, row.EntryDate, requests[i], previous, now)
		if err := s.entries.UpsertEntry(ctx, e); err != nil {
			return written, fmt.Errorf("save entry %s: %w", row.EntryDate, err)
		}
		written++
	}
	s.logger.Infof("imported %d entries for user %s", len(rows), user.ID)
	return len(rows), nil
}
