package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/ai"
	"github.com/sandeepkv93/focusflow/internal/capture"
	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/report"
	"github.com/sandeepkv93/focusflow/internal/scheduler"
	"github.com/sandeepkv93/focusflow/internal/storage"
	"github.com/sandeepkv93/focusflow/internal/tasks"
	"github.com/sirupsen/logrus"
)

// Session owns everything a running FocusFlow instance needs: storage, the
// task store, the notification sink, the AI collaborators and the
// housekeeper. Nothing here is package-global.
type Session struct {
	Config      config.Config
	Store       *tasks.Store
	Sink        *notify.Sink
	Capturer    *capture.Capturer
	Housekeeper *scheduler.Housekeeper

	repo  storage.Repository
	clock clockwork.Clock
	log   logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	clock       clockwork.Clock
	repo        storage.Repository
	summarizer  ai.Summarizer
	interpreter ai.Interpreter
	desktop     notify.DesktopNotifier
	schedCfg    *scheduler.Config
}

type Option func(*options)

func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRepository skips opening the configured backend.
func WithRepository(r storage.Repository) Option {
	return func(o *options) { o.repo = r }
}

func WithSummarizer(s ai.Summarizer) Option {
	return func(o *options) { o.summarizer = s }
}

func WithInterpreter(i ai.Interpreter) Option {
	return func(o *options) { o.interpreter = i }
}

func WithDesktopNotifier(n notify.DesktopNotifier) Option {
	return func(o *options) { o.desktop = n }
}

func WithSchedulerConfig(c scheduler.Config) Option {
	return func(o *options) { o.schedCfg = &c }
}

// Open wires a session from cfg. Housekeeping does not run until Start.
func Open(ctx context.Context, cfg config.Config, log logrus.FieldLogger, opts ...Option) (*Session, error) {
	o := options{clock: clockwork.NewRealClock(), desktop: notify.ExecDesktopNotifier{}}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	repo := o.repo
	if repo == nil {
		var err error
		repo, err = storage.Open(cfg.Storage.Backend, cfg.StoragePath())
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	store, err := tasks.Open(ctx, repo, o.clock, log)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	client := ai.NewClient(ai.Config{
		APIKey:            cfg.AI.APIKey,
		Model:             cfg.AI.Model,
		BaseURL:           cfg.AI.BaseURL,
		Timeout:           cfg.AI.Timeout,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
	}, log)
	if !client.Configured() {
		log.WithField("component", "session").Warn("no AI api key, capture uses fallbacks and recaps are skipped")
	}
	summarizer := o.summarizer
	if summarizer == nil {
		summarizer = client
	}
	interpreter := o.interpreter
	if interpreter == nil {
		interpreter = ai.NewCachedInterpreter(client, ai.DefaultInterpretTTL)
	}

	sink := notify.NewSink(
		notify.WithClock(o.clock),
		notify.WithLogger(log),
		notify.WithDesktop(o.desktop, cfg.Notifications.Desktop),
	)

	schedCfg := scheduler.DefaultConfig()
	schedCfg.RecapCron = cfg.Recap.Cron
	if o.schedCfg != nil {
		schedCfg = *o.schedCfg
	}
	hk, err := scheduler.New(store, sink, summarizer, scheduler.NewRepoCheckpoint(repo),
		scheduler.WithClock(o.clock),
		scheduler.WithLogger(log),
		scheduler.WithConfig(schedCfg),
	)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &Session{
		Config:      cfg,
		Store:       store,
		Sink:        sink,
		Capturer:    capture.NewCapturer(interpreter, o.clock, log),
		Housekeeper: hk,
		repo:        repo,
		clock:       o.clock,
		log:         log.WithField("component", "session"),
	}, nil
}

// Start begins the housekeeping jobs.
func (s *Session) Start(ctx context.Context) error {
	return s.Housekeeper.Start(ctx)
}

// Close stops housekeeping, abandoning any in-flight recap, and then closes
// storage. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.Housekeeper.Stop(), s.repo.Close())
		entry := s.log.WithFields(logrus.Fields{
			"dropped_notifications": s.Sink.Dropped(),
			"dropped_recaps":        s.Housekeeper.DroppedRecaps(),
		})
		if s.Sink.Dropped() > 0 || s.Housekeeper.DroppedRecaps() > 0 {
			entry.Warn("session closed with undelivered events")
			return
		}
		entry.Debug("session closed")
	})
	return s.closeErr
}

func (s *Session) Clock() clockwork.Clock {
	return s.clock
}

// Today is the current local calendar day.
func (s *Session) Today() model.Day {
	return model.DayOf(s.clock.Now())
}

// Report builds the daily report for today from the current snapshot.
func (s *Session) Report() report.Daily {
	now := s.clock.Now()
	return report.Build(s.Store.Snapshot(), model.DayOf(now), now.Location())
}

// Capture turns an activity into a task and stores it.
func (s *Session) Capture(ctx context.Context, activity string, category *model.Category) (model.Task, error) {
	task, err := s.Capturer.FromActivity(ctx, activity, category)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.Store.Create(ctx, task); err != nil {
		return task, err
	}
	s.Sink.Post("✨ Captured: "+task.Title, model.NotificationInfo)
	return task, nil
}

// RunSweeps runs every housekeeping sweep once, synchronously. It backs
// the headless `sweep` command.
func (s *Session) RunSweeps(ctx context.Context) (reminders, expired int, err error) {
	expired, err = s.Housekeeper.SweepExpired(ctx)
	reminders = s.Housekeeper.SweepReminders()
	s.Housekeeper.SweepRecap(ctx)
	return reminders, expired, err
}
