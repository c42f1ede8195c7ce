package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var ErrJobNotFound = fmt.Errorf("scheduled job not found")
var ErrDuplicateJob = fmt.Errorf("scheduled job already registered")
var ErrSchedulerStopped = fmt.Errorf("scheduler is stopped")

// Scheduler runs named callbacks on cron specifications. Overlapping runs of
// the same job are skipped and panics are recovered, so a job never takes the
// host process down.
type Scheduler struct {
	cronEngine *cron.Cron
	logger     *logrus.Entry

	mu        sync.Mutex
	entries   map[string]cron.EntryID
	stopped   bool
	triggered sync.WaitGroup // Runs started by Trigger, outside cron's own waiter
}

// New creates a scheduler that evaluates specs in loc.
func New(logger *logrus.Entry, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{entry: logger}
	return &Scheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Register adds fn under name, firing on spec (standard 5-field cron syntax).
func (s *Scheduler) Register(name, spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	id, err := s.cronEngine.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("could not add cron job %q with spec %q: %w", name, spec, err)
	}
	s.entries[name] = id

	s.logger.WithField("job", name).WithField("spec", spec).Info("Job registered")
	return nil
}

// Trigger runs the named job synchronously through the same wrapper chain as
// a scheduled firing. It returns immediately if that job is already running.
// Stop waits for triggered runs as it does for scheduled ones.
func (s *Scheduler) Trigger(name string) error {
	entry, err := s.entry(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrSchedulerStopped
	}
	s.triggered.Add(1)
	s.mu.Unlock()
	defer s.triggered.Done()

	entry.WrappedJob.Run()
	return nil
}

// Next returns the next time the named job will fire. It is zero until Start.
func (s *Scheduler) Next(name string) (time.Time, error) {
	entry, err := s.entry(name)
	if err != nil {
		return time.Time{}, err
	}
	return entry.Next, nil
}

func (s *Scheduler) entry(name string) (cron.Entry, error) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return cron.Entry{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.cronEngine.Entry(id), nil
}

func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler...")
	s.cronEngine.Start()
	s.logger.Info("Scheduler started with jobs.")
}

// Stop prevents new firings and waits for running jobs, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scheduler...")
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	cronDone := s.cronEngine.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.triggered.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler gracefully stopped.")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop interrupted before running jobs finished.")
		return ctx.Err()
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
