// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"strconv"
	"time"

	"kondate-planner/internal/common/config"
	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/metrics"
	"kondate-planner/internal/invocation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Action is a handler that can serve a Zeebe job. Job variables arrive as a
// direct parameter map; the returned value becomes the completion variables.
type Action interface {
	ExecuteJob(ctx context.Context, params invocation.Parameters) (interface{}, error)
}

// Recorder receives one observation per finished job.
type Recorder interface {
	RecordInvocation(ctx context.Context, taskType, status string)
	RecordDuration(ctx context.Context, taskType string, duration time.Duration)
}

// JobRunner adapts an Action to the Zeebe job handler signature.
type JobRunner struct {
	taskType     string
	action       Action
	timeout      time.Duration
	retry        *RetryConfig
	recorder     Recorder
	errorHandler *apperr.ErrorHandler
	logger       logger.Logger
}

func NewJobRunner(taskType string, action Action, timeout time.Duration, log logger.Logger) *JobRunner {
	l := log.WithFields(map[string]interface{}{"taskType": taskType})
	return &JobRunner{
		taskType:     taskType,
		action:       action,
		timeout:      timeout,
		retry:        DefaultRetryConfig,
		errorHandler: apperr.NewErrorHandler(l),
		logger:       l,
	}
}

// WithRecorder reports every finished job to rec as well as to the
// Prometheus counters.
func (r *JobRunner) WithRecorder(rec Recorder) *JobRunner {
	r.recorder = rec
	return r
}

func (r *JobRunner) observe(ctx context.Context, status string, started time.Time) {
	metrics.ObserveInvocation(r.taskType, status, started)
	if r.recorder != nil {
		r.recorder.RecordInvocation(ctx, r.taskType, status)
		r.recorder.RecordDuration(ctx, r.taskType, time.Since(started))
	}
}

func (r *JobRunner) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	vars, err := job.GetVariablesAsMap()
	if err != nil {
		stdErr := apperr.NewInvalidShapeError("variables", "job variables must be a JSON object")
		metrics.RecordFailure(r.taskType, stdErr)
		r.fail(ctx, client, job, stdErr, started)
		return
	}

	output, err := r.action.ExecuteJob(ctx, invocation.Parameters(vars))
	if err != nil {
		r.fail(ctx, client, job, err, started)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.fail(ctx, client, job, apperr.NewInternalError(err), started)
		return
	}
	send := func(ctx context.Context) (interface{}, error) { return cmd.Send(ctx) }
	if _, err := executeWithRetry(ctx, r.retry, send, "complete job"); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}

	r.observe(ctx, "200", started)
	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"durationMs": time.Since(started).Milliseconds(),
	})
}

func (r *JobRunner) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, started time.Time) {
	code := apperr.CodeOf(err)
	r.observe(ctx, strconv.Itoa(apperr.HTTPStatus(code)), started)
	r.errorHandler.HandleJobError(ctx, client, job, err)
}

// CamundaWorker is one open job subscription.
type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType with the worker's own limits.
func NewWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, runner *JobRunner, log logger.Logger) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(runner.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout":       wcfg.Timeout,
	})

	return &CamundaWorker{worker: jobWorker, logger: log, taskType: taskType}
}

func (w *CamundaWorker) TaskType() string { return w.taskType }

// Stop closes the subscription and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
