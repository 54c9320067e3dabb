package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/evaluator"
	"github.com/suu3play/hobby-weather-sub000/internal/models"
	"github.com/suu3play/hobby-weather-sub000/internal/notification"
	"github.com/suu3play/hobby-weather-sub000/internal/notify"
)

const (
	// sweepInterval is the safety-net cadence for catching timers that
	// were missed, e.g. after the process was suspended.
	sweepInterval = time.Minute

	// maxTimerDelay caps a single timer arming. Runs further out than
	// this are re-armed in chunks so very long delays survive timer
	// resolution limits.
	maxTimerDelay = 24 * 24 * time.Hour

	// alertRecheckInterval is how often an immediate-frequency config
	// is re-evaluated after it fires.
	alertRecheckInterval = 5 * time.Minute
)

// Task is a single scheduled evaluation of a notification config.
type Task struct {
	ID       string
	ConfigID string
	NextRun  time.Time
	LastRun  *time.Time
	Config   models.NotificationConfig
}

// Status is a point-in-time snapshot of the scheduler.
type Status struct {
	Running    bool
	TaskCount  int
	NextRun    *time.Time
	NextTaskID string
	LastError  string
}

// Scheduler arms one timer per upcoming run of every enabled config,
// evaluates the config's conditions when the timer fires, and sends a
// notification when they hold.
type Scheduler struct {
	store      *notification.Store
	dispatcher notify.Dispatcher
	evaluators map[models.NotificationType]evaluator.Evaluator
	clock      Clock

	mu         sync.Mutex
	running    bool
	ctx        context.Context
	cancel     context.CancelFunc
	tasks      map[string]*Task
	timers     map[string]Timer
	sweepTimer Timer
	lastError  string
}

func New(store *notification.Store, dispatcher notify.Dispatcher, evaluators []evaluator.Evaluator, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	byType := make(map[models.NotificationType]evaluator.Evaluator, len(evaluators))
	for _, ev := range evaluators {
		byType[ev.Type()] = ev
	}
	return &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		evaluators: byType,
		clock:      clock,
		tasks:      make(map[string]*Task),
		timers:     make(map[string]Timer),
	}
}

// Start loads all enabled configs and schedules their upcoming runs.
// Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.mu.Unlock()

	configs, err := s.store.Configs.GetEnabled(s.ctx)
	if err != nil {
		s.Stop()
		return fmt.Errorf("load enabled configs: %w", err)
	}

	s.mu.Lock()
	if !s.running {
		// Stop landed while the configs were loading.
		s.mu.Unlock()
		return nil
	}
	now := s.clock.Now()
	for _, config := range configs {
		s.armConfigLocked(config, now, nil)
	}
	s.sweepTimer = s.clock.AfterFunc(sweepInterval, s.sweep)
	s.mu.Unlock()

	log.Printf("scheduler started with %d configs", len(configs))
	return nil
}

// Stop cancels all pending timers and clears the task table. Calling
// Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	if s.sweepTimer != nil {
		s.sweepTimer.Stop()
		s.sweepTimer = nil
	}
	s.tasks = make(map[string]*Task)
	log.Printf("scheduler stopped")
}

// ScheduleConfigTasks replaces all pending tasks for the config with a
// fresh set computed from its current schedule. A disabled config ends
// up with no tasks.
func (s *Scheduler) ScheduleConfigTasks(config *models.NotificationConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unscheduleLocked(config.ID)
	if !s.running || !config.Enabled {
		return
	}
	s.armConfigLocked(config, s.clock.Now(), nil)
}

// UnscheduleConfigTasks drops every pending task for the config.
func (s *Scheduler) UnscheduleConfigTasks(configID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unscheduleLocked(configID)
}

func (s *Scheduler) unscheduleLocked(configID string) {
	for id, task := range s.tasks {
		if task.ConfigID != configID {
			continue
		}
		if timer, ok := s.timers[id]; ok {
			timer.Stop()
			delete(s.timers, id)
		}
		delete(s.tasks, id)
	}
}

func (s *Scheduler) armConfigLocked(config *models.NotificationConfig, from time.Time, lastRun *time.Time) {
	runs := NextRuns(config.Schedule, from)
	if len(runs) > maxRunsPerConfig {
		runs = runs[:maxRunsPerConfig]
	}
	for _, runAt := range runs {
		id := taskID(config.ID, runAt)
		if _, exists := s.tasks[id]; exists {
			continue
		}
		s.tasks[id] = &Task{
			ID:       id,
			ConfigID: config.ID,
			NextRun:  runAt,
			LastRun:  lastRun,
			Config:   *config,
		}
		s.armTimerLocked(id, runAt)
	}
}

func taskID(configID string, runAt time.Time) string {
	return fmt.Sprintf("%s:%d", configID, runAt.Unix())
}

func (s *Scheduler) armTimerLocked(id string, runAt time.Time) {
	delay := runAt.Sub(s.clock.Now())
	switch {
	case delay <= 0:
		go s.executeTask(id)
	case delay > maxTimerDelay:
		s.timers[id] = s.clock.AfterFunc(maxTimerDelay, func() { s.rearm(id) })
	default:
		s.timers[id] = s.clock.AfterFunc(delay, func() { s.executeTask(id) })
	}
}

// rearm re-evaluates the remaining delay of a long-range task after a
// timer chunk elapses.
func (s *Scheduler) rearm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	task, ok := s.tasks[id]
	if !ok {
		return
	}
	delete(s.timers, id)
	s.armTimerLocked(id, task.NextRun)
}

func (s *Scheduler) executeTask(taskID string) {
	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if !ok {
		// Already claimed by a concurrent timer or sweep, or the
		// config was unscheduled before firing.
		s.mu.Unlock()
		return
	}
	delete(s.tasks, taskID)
	if timer, exists := s.timers[taskID]; exists {
		timer.Stop()
		delete(s.timers, taskID)
	}
	ctx := s.ctx
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: task %s panicked: %v", taskID, r)
			s.setLastError(fmt.Sprintf("task %s: %v", taskID, r))
		}
		s.rescheduleAfter(ctx, task)
	}()

	if err := s.runTask(ctx, task); err != nil {
		log.Printf("scheduler: task %s: %v", taskID, err)
		s.setLastError(err.Error())
	}
}

func (s *Scheduler) runTask(ctx context.Context, task *Task) error {
	config := &task.Config

	allowed, reason, err := s.store.IsNotificationTimeAllowed(ctx, config, s.clock.Now())
	if err != nil {
		return fmt.Errorf("check time policy: %w", err)
	}
	if !allowed {
		log.Printf("scheduler: %s skipped: %s", config.Type, reason)
		return nil
	}

	reached, err := s.store.HasReachedDailyLimit(ctx, config.Type, s.clock.Now())
	if err != nil {
		return fmt.Errorf("check daily limit: %w", err)
	}
	if reached {
		log.Printf("scheduler: %s skipped: daily limit reached", config.Type)
		return nil
	}

	ev, ok := s.evaluators[config.Type]
	if !ok {
		return fmt.Errorf("no evaluator registered for type %q", config.Type)
	}

	result, err := ev.Evaluate(ctx, evaluator.EvalContext{Config: config, Now: s.clock.Now()})
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", config.Type, err)
	}
	if !result.Notify {
		log.Printf("scheduler: %s not sent: %s", config.Type, result.Reason)
		return nil
	}

	settings, err := s.store.Settings.GetOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	sent, err := s.dispatcher.Send(ctx, notify.Payload{
		Title:              result.Title,
		Message:            result.Message,
		Data:               result.Data,
		RequireInteraction: result.Priority == models.PriorityUrgent,
		Silent:             !settings.SoundEnabled,
	})
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", config.Type, err)
	}
	if !sent {
		log.Printf("scheduler: %s not delivered", config.Type)
		return nil
	}

	history := &models.NotificationHistory{
		ConfigID:   config.ID,
		Type:       config.Type,
		Title:      result.Title,
		Message:    result.Message,
		Priority:   result.Priority,
		SubjectKey: result.SubjectKey,
		Data:       result.Data,
		SentAt:     s.clock.Now(),
	}
	if err := s.store.RecordSent(ctx, history); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// rescheduleAfter arms the next run of a just-fired task. The config is
// re-fetched so edits or deletion that happened while the task ran take
// effect immediately.
func (s *Scheduler) rescheduleAfter(ctx context.Context, task *Task) {
	config, err := s.store.Configs.GetByID(ctx, task.ConfigID)
	if err != nil {
		log.Printf("scheduler: reload config %s: %v", task.ConfigID, err)
		s.setLastError(err.Error())
		return
	}
	if config == nil || !config.Enabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	lastRun := task.NextRun
	if config.Schedule.Frequency == models.FrequencyImmediate {
		// Anchoring at the fired instant would re-fire every second;
		// immediate configs fall back to a fixed re-check cadence.
		runAt := s.clock.Now().Add(alertRecheckInterval)
		id := taskID(config.ID, runAt)
		if _, exists := s.tasks[id]; !exists {
			s.tasks[id] = &Task{
				ID:       id,
				ConfigID: config.ID,
				NextRun:  runAt,
				LastRun:  &lastRun,
				Config:   *config,
			}
			s.armTimerLocked(id, runAt)
		}
		return
	}
	s.armConfigLocked(config, task.NextRun, &lastRun)
}

// sweep fires any task whose run time has passed without its timer
// firing, then re-arms itself.
func (s *Scheduler) sweep() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	var due []string
	for id, task := range s.tasks {
		if !task.NextRun.After(now) {
			due = append(due, id)
		}
	}
	s.sweepTimer = s.clock.AfterFunc(sweepInterval, s.sweep)
	s.mu.Unlock()

	for _, id := range due {
		s.executeTask(id)
	}
}

func (s *Scheduler) setLastError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

// Status reports the scheduler's current state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := Status{
		Running:   s.running,
		TaskCount: len(s.tasks),
		LastError: s.lastError,
	}
	for id, task := range s.tasks {
		if status.NextRun == nil || task.NextRun.Before(*status.NextRun) {
			next := task.NextRun
			status.NextRun = &next
			status.NextTaskID = id
		}
	}
	return status
}

// CurrentTasks returns a copy of the pending tasks ordered by run time.
func (s *Scheduler) CurrentTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].NextRun.Before(tasks[j].NextRun) })
	return tasks
}
