package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"go.uber.org/zap"
)

// effectTimeout bounds each fire-and-forget side effect.
const effectTimeout = 10 * time.Second

// TimerOptions wires the collaborators of a TimerService. Nil collaborators
// are skipped.
type TimerOptions struct {
	TickInterval time.Duration
	Notifier     ports.Notifier
	Analytics    ports.Analytics
	History      ports.HistoryRepository
	Git          ports.GitDetector
	WorkingDir   string
	Logger       *zap.Logger
}

// TimerService owns the application state. Every change goes through
// Dispatch, which runs the reducer under a lock, publishes the result and
// runs the requested effects in the background.
type TimerService struct {
	opts   TimerOptions
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   domain.AppState
	subs    map[int]chan domain.AppState
	nextSub int
	closed  bool

	// tickGen identifies the live tick loop; ticks from older loops are dropped.
	tickGen    uint64
	tickCancel context.CancelFunc

	ctx     context.Context
	cancel  context.CancelFunc
	effects sync.WaitGroup
}

var _ ports.TimerController = (*TimerService)(nil)

// NewTimerService creates a service holding initial.
func NewTimerService(initial domain.AppState, opts TimerOptions) *TimerService {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &TimerService{
		opts:   opts,
		logger: opts.Logger.Named("timer"),
		now:    time.Now,
		state:  initial,
		subs:   make(map[int]chan domain.AppState),
		ctx:    ctx,
		cancel: cancel,
	}
	s.mu.Lock()
	s.syncTickerLocked()
	s.mu.Unlock()
	return s
}

// State returns the current state.
func (s *TimerService) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action and returns the resulting state.
func (s *TimerService) Dispatch(action domain.Action) domain.AppState {
	next, _ := s.apply(action, 0)
	return next
}

// Subscribe returns a channel that holds the latest state after each change.
// Slow readers only ever miss intermediate states, never the newest one.
func (s *TimerService) Subscribe() (<-chan domain.AppState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.AppState, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
}

// Track records an analytics event outside of a transition, such as App Opened.
func (s *TimerService) Track(event domain.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	jobs := []func(context.Context){func(ctx context.Context) { s.track(ctx, event) }}
	s.effects.Add(len(jobs))
	s.mu.Unlock()
	s.launch(jobs)
}

// Close stops the tick loop, closes subscriber channels and waits for
// in-flight effects.
func (s *TimerService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.tickCancel != nil {
		s.tickCancel()
		s.tickCancel = nil
	}
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	s.effects.Wait()
	s.cancel()
}

// apply runs the reducer. A non-zero gen marks a tick that is dropped unless
// it comes from the live loop.
func (s *TimerService) apply(action domain.Action, gen uint64) (domain.AppState, bool) {
	s.mu.Lock()
	if s.closed || (gen != 0 && (gen != s.tickGen || s.tickCancel == nil)) {
		state := s.state
		s.mu.Unlock()
		return state, false
	}

	prev := s.state
	tr := domain.Reduce(prev, action)
	s.state = tr.State
	changed := tr.Changed(prev)
	if changed {
		s.publishLocked(tr.State)
	}
	s.syncTickerLocked()
	jobs := s.effectJobs(tr, domain.EventsFor(prev, action, tr))
	s.effects.Add(len(jobs))
	s.mu.Unlock()

	if action.Type != domain.ActionTick {
		s.logger.Debug("dispatch",
			zap.String("action", string(action.Type)),
			zap.String("phase", string(tr.State.Timer.Phase())),
			zap.Bool("changed", changed),
		)
	}

	s.launch(jobs)
	return tr.State, changed
}

// publishLocked replaces whatever is waiting in each mailbox with state.
func (s *TimerService) publishLocked(state domain.AppState) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// syncTickerLocked starts or stops the tick loop so that exactly one runs
// while the timer is ticking.
func (s *TimerService) syncTickerLocked() {
	ticking := s.state.Timer.Ticking() && !s.closed
	switch {
	case ticking && s.tickCancel == nil:
		s.tickGen++
		ctx, cancel := context.WithCancel(s.ctx)
		s.tickCancel = cancel
		go s.tickLoop(ctx, s.tickGen)
	case !ticking && s.tickCancel != nil:
		s.tickCancel()
		s.tickCancel = nil
	}
}

func (s *TimerService) tickLoop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.apply(domain.Tick(), gen)
		}
	}
}

// effectJobs turns events and reducer effects into background jobs.
func (s *TimerService) effectJobs(tr domain.Transition, events []domain.Event) []func(context.Context) {
	var jobs []func(context.Context)
	for _, event := range events {
		jobs = append(jobs, func(ctx context.Context) { s.track(ctx, event) })
	}

	state := tr.State
	for _, effect := range tr.Effects {
		switch effect.Kind {
		case domain.EffectChime:
			jobs = append(jobs, func(context.Context) { s.chime() })
		case domain.EffectIntervalFinished:
			at := s.now()
			jobs = append(jobs, func(ctx context.Context) {
				s.recordInterval(ctx, effect, state.CurrentVibe, at)
				s.notifyFinished(effect, state)
			})
		case domain.EffectPlanCompleted:
			jobs = append(jobs, func(context.Context) { s.notifyPlanCompleted(state) })
		}
	}
	return jobs
}

// launch runs jobs in the background. The caller has already added them to
// s.effects. Effects never block Dispatch and their failures are logged.
func (s *TimerService) launch(jobs []func(context.Context)) {
	for _, job := range jobs {
		go func(job func(context.Context)) {
			defer s.effects.Done()
			ctx, cancel := context.WithTimeout(s.ctx, effectTimeout)
			defer cancel()
			job(ctx)
		}(job)
	}
}

func (s *TimerService) track(ctx context.Context, event domain.Event) {
	if s.opts.Analytics == nil {
		return
	}
	if err := s.opts.Analytics.Track(ctx, event); err != nil {
		s.logger.Warn("failed to track event", zap.String("event", string(event.Name)), zap.Error(err))
	}
}

func (s *TimerService) chime() {
	if s.opts.Notifier == nil {
		return
	}
	if err := s.opts.Notifier.Chime(); err != nil {
		s.logger.Warn("failed to play chime", zap.Error(err))
	}
}

func (s *TimerService) recordInterval(ctx context.Context, effect domain.Effect, vibe *domain.Vibe, at time.Time) {
	if s.opts.History == nil {
		return
	}
	entry := domain.NewHistoryEntry(effect, vibe, at)
	if s.opts.Git != nil {
		if info, err := s.opts.Git.Detect(ctx, s.opts.WorkingDir); err == nil {
			entry.SetGitContext(info.Branch, info.Commit)
		}
	}
	if err := s.opts.History.Save(ctx, entry); err != nil {
		s.logger.Error("failed to save history entry", zap.String("mode", string(effect.Mode)), zap.Error(err))
	}
}

func (s *TimerService) notifyFinished(effect domain.Effect, state domain.AppState) {
	if s.opts.Notifier == nil || !state.AppSettings.NotificationsEnabled || state.Timer.Completed {
		return
	}
	title, message := "Break over", "Press h when you are back to start the next focus session."
	if effect.Mode == domain.ModeFocus {
		title = fmt.Sprintf("Focus session %d complete", effect.Session)
		message = fmt.Sprintf("Take a %d minute break.", state.Settings.BreakDuration)
	}
	if err := s.opts.Notifier.Notify(title, message); err != nil {
		s.logger.Warn("failed to show notification", zap.Error(err))
	}
}

func (s *TimerService) notifyPlanCompleted(state domain.AppState) {
	if s.opts.Notifier == nil || !state.AppSettings.NotificationsEnabled {
		return
	}
	message := fmt.Sprintf("You finished all %d sessions.", state.Timer.TotalSessions)
	if err := s.opts.Notifier.Notify("Plan complete", message); err != nil {
		s.logger.Warn("failed to show notification", zap.Error(err))
	}
}
