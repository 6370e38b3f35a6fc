package pipeline

import (
	"context"
	"errors"
	"time"

	"twitter-etl/pkg/observer"

	"github.com/go-co-op/gocron/v2"
)

var (
	ErrEmptyPipeline      = errors.New("pipeline has no task")
	ErrDuplicateTask      = errors.New("duplicate task name")
	ErrUnknownPredecessor = errors.New("unknown predecessor")
	ErrCycle              = errors.New("tasks depend on each other")
)

// Task is one scheduled unit of work. It starts once every task in DependsOn has
// completed, whatever their outcome.
type Task struct {
	Name       string
	DependsOn  []string
	Retries    int
	RetryDelay time.Duration
	Run        func(ctx context.Context) error
}

// Pipeline is the scheduling configuration: a cron cadence and a task graph.
type Pipeline struct {
	Name    string
	Cadence string
	Tasks   []Task
}

type Service interface {
	Run(ctx context.Context) error
	Schedule(ctx context.Context, scheduler gocron.Scheduler) (gocron.Job, error)
	RegisterObserver(o observer.Observer)
}

type Impl struct {
	pipeline  Pipeline
	order     []Task
	observers map[observer.Observer]struct{}
}
