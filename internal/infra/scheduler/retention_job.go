package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"notification_janitor/internal/app"

	"github.com/sirupsen/logrus"
)

// RetentionJobName is the name the retention job is registered under.
const RetentionJobName = "notification-retention"

// JobState is the lifecycle state of a recurring job.
type JobState int32

const (
	StateIdle JobState = iota
	StateRunning
)

func (s JobState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Purger is the part of app.RetentionService the job depends on.
type Purger interface {
	Purge(ctx context.Context) app.PurgeOutcome
}

// RetentionJob runs one purge per firing, logs the outcome and swallows failures.
type RetentionJob struct {
	purger   Purger
	reporter app.OutcomeReporter // Optional
	timeout  time.Duration       // Zero means no deadline beyond the store's own
	logger   *logrus.Entry

	state JobState // Accessed atomically

	mu          sync.Mutex
	lastOutcome *app.PurgeOutcome
}

func NewRetentionJob(purger Purger, reporter app.OutcomeReporter, timeout time.Duration, logger *logrus.Entry) *RetentionJob {
	return &RetentionJob{
		purger:   purger,
		reporter: reporter,
		timeout:  timeout,
		logger:   logger.WithField("job", RetentionJobName),
	}
}

// State reports whether a run is in progress.
func (j *RetentionJob) State() JobState {
	return JobState(atomic.LoadInt32((*int32)(&j.state)))
}

// LastOutcome returns the outcome of the most recent completed run, if any.
func (j *RetentionJob) LastOutcome() (app.PurgeOutcome, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastOutcome == nil {
		return app.PurgeOutcome{}, false
	}
	return *j.lastOutcome, true
}

// Run executes one firing. It never returns an error and never panics on
// storage failure; the next firing is the retry.
func (j *RetentionJob) Run() {
	atomic.StoreInt32((*int32)(&j.state), int32(StateRunning))
	defer atomic.StoreInt32((*int32)(&j.state), int32(StateIdle))

	j.logger.Info("Retention run triggered.")
	purgeCtx, cancelPurge := j.stepContext()
	outcome := j.purger.Purge(purgeCtx)
	cancelPurge()

	j.mu.Lock()
	j.lastOutcome = &outcome
	j.mu.Unlock()

	logCtx := j.logger.WithFields(logrus.Fields{
		"cutoff":      outcome.Cutoff.Format(time.RFC3339),
		"started_at":  outcome.StartedAt.Format(time.RFC3339),
		"duration_ms": outcome.Duration.Milliseconds(),
	})
	if outcome.Succeeded() {
		logCtx.WithField("deleted", outcome.Deleted).Info("Retention run completed.")
	} else {
		logCtx.WithError(outcome.Err).Error("Retention run failed; eligible notifications kept until the next run.")
	}

	if j.reporter != nil {
		// Fresh context, never the one the purge used.
		reportCtx, cancelReport := j.stepContext()
		defer cancelReport()
		j.reporter.Report(reportCtx, outcome)
	}
}

func (j *RetentionJob) stepContext() (context.Context, context.CancelFunc) {
	if j.timeout > 0 {
		return context.WithTimeout(context.Background(), j.timeout)
	}
	return context.WithCancel(context.Background())
}

// Register adds the job to s under RetentionJobName.
func (j *RetentionJob) Register(s *Scheduler, spec string) error {
	return s.Register(RetentionJobName, spec, j.Run)
}
