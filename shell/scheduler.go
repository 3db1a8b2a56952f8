package shell

import (
	"context"
	"sync"
	"time"
)

// Task is a named recurring job. Run receives the scheduler's context and
// reports errors for logging only; a failing run never stops the schedule.
// Task bodies are plain functions so tests invoke them directly with an
// injected clock instead of waiting for ticks.
type Task struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Scheduler drives registered tasks on fixed intervals. It replaces globally
// registered timers with an explicit, startable and stoppable task list.
type Scheduler struct {
	tasks  []Task
	logger Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  bool
	stopOnce sync.Once
}

// NewScheduler creates a scheduler. logger may be nil.
func NewScheduler(logger Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds a task. Must be called before Start.
func (s *Scheduler) Register(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, task)
}

// Start launches one goroutine per task. It is a no-op when already started.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.started = true

	for _, task := range s.tasks {
		s.wg.Add(1)

		go s.runTask(runCtx, task)
	}
}

// Stop cancels all task loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancel := s.cancel
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}

		s.wg.Wait()
	})
}

func (s *Scheduler) runTask(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := task.Run(ctx); err != nil && s.logger != nil {
				s.logger.Error("scheduled task failed", "task", task.Name, LogAttrError, err.Error())
			}
		}
	}
}
