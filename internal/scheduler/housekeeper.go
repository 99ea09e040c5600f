package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/ai"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/tasks"
	"github.com/sirupsen/logrus"
)

const (
	ReminderInterval = 10 * time.Second
	ExpiryInterval   = time.Hour
	ArchiveRetention = model.ArchiveRetention
)

var (
	ErrAlreadyStarted = errors.New("scheduler: already started")
	ErrStopped        = errors.New("scheduler: stopped")
)

// Poster receives reminder notifications.
type Poster interface {
	Post(message string, kind model.NotificationKind) model.NotificationItem
}

// Recap is one delivered daily briefing.
type Recap struct {
	Day     model.Day
	Text    string
	Overdue int
}

type Config struct {
	ReminderInterval time.Duration
	ExpiryInterval   time.Duration
	Retention        time.Duration
	RecapCron        string
}

func DefaultConfig() Config {
	return Config{
		ReminderInterval: ReminderInterval,
		ExpiryInterval:   ExpiryInterval,
		Retention:        ArchiveRetention,
		RecapCron:        DefaultRecapCron,
	}
}

// Housekeeper runs the reminder, archive expiry and daily recap sweeps over
// a task store. Sweeps never overlap; the recap generator call is the only
// step that runs without the sweep lock.
type Housekeeper struct {
	store      *tasks.Store
	sink       Poster
	summarizer ai.Summarizer
	checkpoint Checkpoint
	clock      clockwork.Clock
	log        logrus.FieldLogger
	cfg        Config

	mu           sync.Mutex
	fired        map[model.FireKey]struct{}
	recapPending bool

	recaps        chan Recap
	droppedRecaps uint64

	lifecycle   sync.Mutex
	sched       gocron.Scheduler
	recapJob    gocron.Job
	ctx         context.Context
	cancel      context.CancelFunc
	changed     chan struct{}
	done        chan struct{}
	unsubscribe func()
	started     bool
	stopped     bool
}

type Option func(*Housekeeper)

func WithClock(c clockwork.Clock) Option {
	return func(h *Housekeeper) { h.clock = c }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(h *Housekeeper) { h.log = l.WithField("component", "scheduler") }
}

func WithConfig(cfg Config) Option {
	return func(h *Housekeeper) { h.cfg = cfg }
}

func New(store *tasks.Store, sink Poster, summarizer ai.Summarizer, checkpoint Checkpoint, opts ...Option) (*Housekeeper, error) {
	if store == nil || sink == nil || checkpoint == nil {
		return nil, errors.New("scheduler: store, sink and checkpoint are required")
	}
	h := &Housekeeper{
		store:      store,
		sink:       sink,
		summarizer: summarizer,
		checkpoint: checkpoint,
		clock:      clockwork.NewRealClock(),
		log:        logrus.StandardLogger().WithField("component", "scheduler"),
		cfg:        DefaultConfig(),
		fired:      make(map[model.FireKey]struct{}),
		recaps:     make(chan Recap, 4),
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cfg.ReminderInterval <= 0 {
		h.cfg.ReminderInterval = ReminderInterval
	}
	if h.cfg.ExpiryInterval <= 0 {
		h.cfg.ExpiryInterval = ExpiryInterval
	}
	if h.cfg.Retention <= 0 {
		h.cfg.Retention = ArchiveRetention
	}
	if h.cfg.RecapCron == "" {
		h.cfg.RecapCron = DefaultRecapCron
	}
	if err := ValidateCron(h.cfg.RecapCron); err != nil {
		return nil, err
	}
	return h, nil
}

// Recaps delivers generated briefings. Briefings that do not fit in the
// buffer are dropped and counted.
func (h *Housekeeper) Recaps() <-chan Recap {
	return h.recaps
}

func (h *Housekeeper) DroppedRecaps() uint64 {
	return atomic.LoadUint64(&h.droppedRecaps)
}

// Start registers the three jobs and begins running them. The expiry and
// recap sweeps run once straight away.
func (h *Housekeeper) Start(ctx context.Context) error {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()
	if h.stopped {
		return ErrStopped
	}
	if h.started {
		return ErrAlreadyStarted
	}

	sched, err := gocron.NewScheduler(
		gocron.WithClock(h.clock),
		gocron.WithLocation(time.Local),
		gocron.WithLogger(gocronLogger{log: h.log}),
		gocron.WithStopTimeout(5*time.Second),
	)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	h.ctx, h.cancel = context.WithCancel(ctx)

	if _, err := sched.NewJob(
		gocron.DurationJob(h.cfg.ReminderInterval),
		gocron.NewTask(func() { h.SweepReminders() }),
		gocron.WithName("reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		h.cancel()
		return fmt.Errorf("schedule reminder sweep: %w", err)
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(h.cfg.ExpiryInterval),
		gocron.NewTask(func() {
			if _, err := h.SweepExpired(h.ctx); err != nil {
				h.log.WithError(err).Warn("expiry sweep")
			}
		}),
		gocron.WithName("archive-expiry"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		h.cancel()
		return fmt.Errorf("schedule expiry sweep: %w", err)
	}

	recapJob, err := sched.NewJob(
		gocron.CronJob(h.cfg.RecapCron, false),
		gocron.NewTask(func() { h.SweepRecap(h.ctx) }),
		gocron.WithName("daily-recap"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		h.cancel()
		return fmt.Errorf("schedule recap sweep: %w", err)
	}

	h.sched = sched
	h.recapJob = recapJob
	h.unsubscribe = h.store.OnChange(func([]model.Task) { h.signalChange() })
	h.started = true

	go h.forwardChanges()
	sched.Start()

	entry := h.log.WithFields(logrus.Fields{
		"reminder_interval": h.cfg.ReminderInterval,
		"expiry_interval":   h.cfg.ExpiryInterval,
		"recap_cron":        h.cfg.RecapCron,
	})
	if next, err := NextCronRun(h.cfg.RecapCron, h.clock.Now()); err == nil {
		entry = entry.WithField("next_recap", next.Format(time.RFC3339))
	}
	entry.Info("housekeeping started")
	return nil
}

// Stop cancels in-flight generator calls and shuts the jobs down. A recap
// that resolves after Stop is discarded. Stop is idempotent.
func (h *Housekeeper) Stop() error {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()
	if h.stopped {
		return nil
	}
	h.stopped = true
	if !h.started {
		return nil
	}

	h.unsubscribe()
	h.cancel()
	<-h.done
	err := h.sched.Shutdown()
	h.log.WithField("dropped_recaps", h.DroppedRecaps()).Info("housekeeping stopped")
	return err
}

func (h *Housekeeper) signalChange() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// forwardChanges turns store changes into recap runs outside the store's
// listener callback.
func (h *Housekeeper) forwardChanges() {
	defer close(h.done)
	for {
		select {
		case <-h.changed:
			if err := h.recapJob.RunNow(); err != nil {
				h.log.WithError(err).Debug("trigger recap")
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// SweepReminders posts a reminder for each active task due today whose
// reminder time matches the current minute, at most once per fire key. It
// returns how many reminders were posted.
func (h *Housekeeper) SweepReminders() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	today := model.DayOf(now)
	for key := range h.fired {
		if key.Day != today {
			delete(h.fired, key)
		}
	}

	posted := 0
	for _, t := range h.store.Snapshot() {
		key, due := model.ReminderDue(t, now)
		if !due {
			continue
		}
		if _, seen := h.fired[key]; seen {
			continue
		}
		h.sink.Post("⏰ Reminder: "+t.Title, model.NotificationReminder)
		h.fired[key] = struct{}{}
		posted++
		h.log.WithFields(logrus.Fields{"task_id": t.ID, "at": key.Time}).Info("reminder fired")
	}
	return posted
}

// SweepExpired deletes archived, non-permanent tasks whose archivedAt is
// older than the retention window.
func (h *Housekeeper) SweepExpired(ctx context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	removed, err := h.store.RemoveWhere(ctx, func(t model.Task) bool {
		return t.Expired(now, h.cfg.Retention)
	})
	if removed > 0 {
		h.log.WithField("removed", removed).Info("expired archived tasks")
	}
	return removed, err
}

// SweepRecap produces at most one briefing per local day. With no overdue
// tasks the day is checkpointed without calling the generator; a generator
// failure also checkpoints the day.
func (h *Housekeeper) SweepRecap(ctx context.Context) {
	h.mu.Lock()
	if h.recapPending {
		h.mu.Unlock()
		return
	}

	today := model.DayOf(h.clock.Now())
	last, err := h.checkpoint.Load(ctx)
	if err != nil {
		h.log.WithError(err).Warn("read recap checkpoint")
	}
	if last == today {
		h.mu.Unlock()
		return
	}

	overdue, dueToday := splitForRecap(h.store.Snapshot(), today)
	if len(overdue) == 0 {
		h.saveCheckpoint(ctx, today)
		h.mu.Unlock()
		return
	}
	h.recapPending = true
	h.mu.Unlock()

	text, genErr := h.summarize(ctx, overdue, dueToday)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.recapPending = false

	if ctx.Err() != nil {
		h.log.Debug("recap resolved after teardown, discarded")
		return
	}
	if genErr != nil {
		h.log.WithError(genErr).WithField("overdue", len(overdue)).Warn("recap generation failed")
	} else {
		h.deliver(Recap{Day: today, Text: text, Overdue: len(overdue)})
	}
	h.saveCheckpoint(ctx, today)
}

func (h *Housekeeper) summarize(ctx context.Context, overdue, dueToday []model.Task) (string, error) {
	if h.summarizer == nil {
		return "", ai.ErrNotConfigured
	}
	return h.summarizer.Summarize(ctx, overdue, dueToday)
}

func (h *Housekeeper) deliver(r Recap) {
	select {
	case h.recaps <- r:
		h.log.WithFields(logrus.Fields{"day": r.Day.String(), "overdue": r.Overdue}).Info("recap delivered")
	default:
		atomic.AddUint64(&h.droppedRecaps, 1)
		h.log.Warn("recap channel full, briefing dropped")
	}
}

func (h *Housekeeper) saveCheckpoint(ctx context.Context, day model.Day) {
	if err := h.checkpoint.Save(ctx, day); err != nil {
		h.log.WithError(err).Warn("save recap checkpoint")
	}
}

// splitForRecap returns the active tasks due before today and those due
// today.
func splitForRecap(all []model.Task, today model.Day) (overdue, dueToday []model.Task) {
	for _, t := range all {
		switch {
		case t.IsOverdue(today):
			overdue = append(overdue, t)
		case t.IsActive() && t.DueDate == today.String():
			dueToday = append(dueToday, t)
		}
	}
	return overdue, dueToday
}
