package pipeline

import (
	"context"
	"errors"
	"fmt"

	"twitter-etl/models/constants"
	"twitter-etl/pkg/observer"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func New(pipeline Pipeline) (*Impl, error) {
	order, err := Order(pipeline.Tasks)
	if err != nil {
		return nil, err
	}

	return &Impl{
		pipeline:  pipeline,
		order:     order,
		observers: map[observer.Observer]struct{}{},
	}, nil
}

func (service *Impl) RegisterObserver(o observer.Observer) {
	service.observers[o] = struct{}{}
}

func (service *Impl) notify(e observer.Event) {
	for o := range service.observers {
		o.OnNotify(e)
	}
}

// Schedule registers the pipeline as a single cron job. Singleton mode keeps two
// periods from overlapping and gocron never replays missed windows.
func (service *Impl) Schedule(ctx context.Context, scheduler gocron.Scheduler) (gocron.Job, error) {
	return scheduler.NewJob(
		gocron.CronJob(service.pipeline.Cadence, false),
		gocron.NewTask(func() error { return service.Run(ctx) }),
		gocron.WithName(service.pipeline.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(jobID uuid.UUID, jobName string, err error) {
				log.Error().Err(err).
					Str(constants.LogJobID, jobID.String()).
					Str(constants.LogPipeline, jobName).
					Msg("Pipeline run ended with failed task(s)")
			}),
		),
	)
}

// Run executes every task once, in dependency order. A failed task does not stop
// its successors; the returned error joins the errors of the failed tasks.
func (service *Impl) Run(ctx context.Context) error {
	log.Info().Str(constants.LogPipeline, service.pipeline.Name).Msg("Start pipeline run")

	var errs []error
	for _, task := range service.order {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		attempts, err := service.runTask(ctx, task)
		if err != nil {
			log.Error().Err(err).
				Str(constants.LogTask, task.Name).
				Int(constants.LogAttempt, attempts).
				Msg("Task failed, continuing with next task")
			service.notify(observer.NewTaskFailedEvent(task.Name, attempts, err))
			errs = append(errs, fmt.Errorf("%s: %w", task.Name, err))
			continue
		}

		log.Info().
			Str(constants.LogTask, task.Name).
			Int(constants.LogAttempt, attempts).
			Msg("Task succeeded")
		service.notify(observer.NewTaskSucceededEvent(task.Name, attempts))
	}

	log.Info().Str(constants.LogPipeline, service.pipeline.Name).Msg("End pipeline run")
	return errors.Join(errs...)
}

func (service *Impl) runTask(ctx context.Context, task Task) (int, error) {
	attempts := 0
	retries := max(task.Retries, 0)
	policy := retrypolicy.NewBuilder[any]().
		WithMaxRetries(retries).
		WithDelay(task.RetryDelay).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[any]) {
			log.Warn().Err(e.LastError()).
				Str(constants.LogTask, task.Name).
				Int(constants.LogAttempt, e.Attempts()).
				Dur("delay", task.RetryDelay).
				Msg("Retrying task")
			service.notify(observer.NewTaskRetriedEvent(task.Name, e.Attempts(), e.LastError()))
		}).
		Build()

	err := failsafe.With(policy).WithContext(ctx).Run(func() error {
		attempts++
		return task.Run(ctx)
	})
	return attempts, err
}

// Order sorts tasks so that every task comes after its predecessors, keeping the
// declaration order between independent tasks.
func Order(tasks []Task) ([]Task, error) {
	if len(tasks) == 0 {
		return nil, ErrEmptyPipeline
	}

	byName := make(map[string]Task, len(tasks))
	for _, task := range tasks {
		if _, exists := byName[task.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, task.Name)
		}
		byName[task.Name] = task
	}

	for _, task := range tasks {
		for _, predecessor := range task.DependsOn {
			if _, exists := byName[predecessor]; !exists {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrUnknownPredecessor, task.Name, predecessor)
			}
		}
	}

	done := make(map[string]bool, len(tasks))
	order := make([]Task, 0, len(tasks))
	for len(order) < len(tasks) {
		progressed := false
		for _, task := range tasks {
			if done[task.Name] || !ready(task, done) {
				continue
			}
			done[task.Name] = true
			order = append(order, task)
			progressed = true
		}
		if !progressed {
			return nil, ErrCycle
		}
	}

	return order, nil
}

func ready(task Task, done map[string]bool) bool {
	for _, predecessor := range task.DependsOn {
		if !done[predecessor] {
			return false
		}
	}
	return true
}
