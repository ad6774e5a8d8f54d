package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/logging"
	"github.com/sandeepkv93/timetable/internal/model"
)

// Outcome classifies a sync attempt.
type Outcome int

const (
	Disabled Outcome = iota
	OK
	Failed
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Failed:
		return "failed"
	default:
		return "disabled"
	}
}

// Status is the result of one Sync call.
type Status struct {
	Outcome  Outcome
	Imported int
	Err      error
	At       time.Time
}

// Fetcher is satisfied by *Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Target receives imported records. *agenda.Store satisfies it.
type Target interface {
	CalendarURL() string
	ReplaceImportedEvents(ctx context.Context, list []model.ImportedEvent) error
}

type SyncOptions struct {
	Timeout      time.Duration
	LookbackDays int
	HorizonDays  int
	Now          func() time.Time
}

// Syncer pulls the configured feed into the target. Calls are serialized;
// a failure leaves the target's imported collection as it was.
type Syncer struct {
	fetch  Fetcher
	parser *Parser
	target Target
	opts   SyncOptions
	log    *zap.Logger

	mu   sync.Mutex
	last Status
}

func NewSyncer(fetch Fetcher, parser *Parser, target Target, opts SyncOptions, log *zap.Logger) *Syncer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if parser == nil {
		parser = NewParser(log)
	}
	return &Syncer{
		fetch:  fetch,
		parser: parser,
		target: target,
		opts:   opts,
		log:    logging.OrNop(log),
	}
}

func (s *Syncer) Sync(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.run(ctx)
	status.At = s.opts.Now()
	s.last = status

	switch status.Outcome {
	case OK:
		s.log.Info("feed_sync_ok", zap.Int("imported", status.Imported))
	case Failed:
		s.log.Warn("feed_sync_failed", zap.Error(status.Err))
	default:
		s.log.Debug("feed_sync_disabled")
	}
	return status
}

// Last returns the most recent Sync result.
func (s *Syncer) Last() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Syncer) run(ctx context.Context) Status {
	url := s.target.CalendarURL()
	if url == "" {
		return Status{Outcome: Disabled}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	body, err := s.fetch.Fetch(ctx, url)
	if err != nil {
		return failed(err)
	}
	window := WindowAround(s.opts.Now(), s.opts.LookbackDays, s.opts.HorizonDays)
	if s.opts.LookbackDays == 0 && s.opts.HorizonDays == 0 {
		window = Window{}
	}
	records, err := s.parser.Parse(body, window)
	if err != nil {
		return failed(err)
	}
	if err := s.target.ReplaceImportedEvents(ctx, records); err != nil {
		return failed(fmt.Errorf("feed: store imported events: %w", err))
	}
	return Status{Outcome: OK, Imported: len(records)}
}

func failed(err error) Status {
	if err == nil {
		err = errors.New("feed: sync failed")
	}
	return Status{Outcome: Failed, Err: err}
}
