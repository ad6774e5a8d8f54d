package feed

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/logging"
)

// DefaultSchedule matches the hourly auto-sync.
const DefaultSchedule = "@every 1h"

// Runner calls Sync on a cron schedule. Overlapping runs are skipped.
type Runner struct {
	cron   *cron.Cron
	syncer *Syncer
	notify func(Status)
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRunner validates spec and registers the sync job. notify, when set,
// receives every result from the scheduler goroutine.
func NewRunner(spec string, syncer *Syncer, notify func(Status), log *zap.Logger) (*Runner, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	log = logging.OrNop(log)
	cl := cronLogger{log: log.Sugar()}
	r := &Runner{
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
			cron.WithLogger(cl),
		),
		syncer: syncer,
		notify: notify,
		log:    log,
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	if _, err := r.cron.AddFunc(spec, r.runOnce); err != nil {
		return nil, fmt.Errorf("feed: invalid sync schedule %q: %w", spec, err)
	}
	return r, nil
}

func (r *Runner) Start() {
	r.cron.Start()
	r.log.Info("feed_runner_started", zap.Int("jobs", len(r.cron.Entries())))
}

// Stop cancels an in-flight sync and waits for it to return.
func (r *Runner) Stop() {
	r.cancel()
	<-r.cron.Stop().Done()
	r.log.Info("feed_runner_stopped")
}

func (r *Runner) runOnce() {
	status := r.syncer.Sync(r.ctx)
	if r.notify != nil {
		r.notify(status)
	}
}

// cronLogger routes cron's own logging into zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
