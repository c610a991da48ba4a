package experiment

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/limaJavier/projection/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Trial is one deterministic run of a projection, parameterized by a drawn global assignment
type Trial struct {
	Id         uuid.UUID
	Experiment uuid.UUID
	Draw       model.Draw
}

type Result[R any] struct {
	Trial  Trial
	Output R
}

type Report[R any] struct {
	Experiment uuid.UUID
	Results    []Result[R] // Draw order
}

// Calculator runs the deterministic computation of a single trial (e.g. a cohort-component projection)
type Calculator[R any] interface {
	Calculate(ctx context.Context, trial Trial) (R, error)
}

type CalculatorFunc[R any] func(ctx context.Context, trial Trial) (R, error)

func (f CalculatorFunc[R]) Calculate(ctx context.Context, trial Trial) (R, error) {
	return f(ctx, trial)
}

// Driver draws the assignments of an experiment one at a time and runs their trials concurrently.
// The generator is owned by the driver: it must not be used by anyone else while the driver is alive.
type Driver[R any] struct {
	id         uuid.UUID
	mutex      sync.Mutex // Serializes access to the generator
	generator  model.AssignmentGenerator
	calculator Calculator[R]
	workers    int
	logger     *zap.Logger
}

type Option func(*driverConfig)

type driverConfig struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers bounds the number of trials computed concurrently (non-positive values fall back to GOMAXPROCS)
func WithWorkers(workers int) Option {
	return func(config *driverConfig) {
		config.workers = workers
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(config *driverConfig) {
		config.logger = logger
	}
}

func NewDriver[R any](generator model.AssignmentGenerator, calculator Calculator[R], options ...Option) *Driver[R] {
	config := driverConfig{
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(&config)
	}
	if config.workers < 1 {
		config.workers = runtime.GOMAXPROCS(0)
	}

	return &Driver[R]{
		id:         uuid.New(),
		generator:  generator,
		calculator: calculator,
		workers:    config.workers,
		logger:     config.logger,
	}
}

func (driver *Driver[R]) Id() uuid.UUID {
	return driver.id
}

// Next draws the next trial; ok is false once the generator has no assignments left
func (driver *Driver[R]) Next() (trial Trial, ok bool) {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	draw, warnings, ok := driver.generator.ChooseParamAssignments()
	if !ok {
		return Trial{}, false
	}
	for _, warning := range warnings {
		driver.logger.Warn(warning.Message, zap.Uint64("run", draw.Run))
	}
	return Trial{Id: uuid.New(), Experiment: driver.id, Draw: draw}, true
}

// AssignmentsLeft returns the number of draws left in the underlying generator
func (driver *Driver[R]) AssignmentsLeft() uint64 {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()
	return driver.generator.AssignmentsLeft()
}

// Run draws every remaining trial and computes them concurrently. The first failing trial cancels the rest.
func (driver *Driver[R]) Run(ctx context.Context) (Report[R], error) {
	results := make([]Result[R], 0)
	err := driver.Stream(ctx, func(result Result[R]) error {
		results = append(results, result)
		return nil
	})
	if err != nil {
		return Report[R]{}, err
	}
	return Report[R]{Experiment: driver.id, Results: results}, nil
}

// Stream draws every remaining trial, computes them concurrently and hands each result to emit in draw order.
// A result is emitted as soon as every earlier trial is done; emit is never called concurrently.
// The first failing trial (or emit call) cancels the rest.
func (driver *Driver[R]) Stream(ctx context.Context, emit func(Result[R]) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(driver.workers)

	var mutex sync.Mutex
	pending := make(map[int]Result[R]) // Sequence -> completed result waiting for an earlier trial
	next, emitted := 0, 0
	release := func(sequence int, result Result[R]) error {
		mutex.Lock()
		defer mutex.Unlock()

		pending[sequence] = result
		for {
			ready, ok := pending[next]
			if !ok {
				return nil
			}
			delete(pending, next)
			next++
			if err := emit(ready); err != nil {
				return fmt.Errorf("cannot emit trial %d (%v): %w", ready.Trial.Draw.Run, ready.Trial.Id, err)
			}
			emitted++
		}
	}

	driver.logger.Info("experiment started",
		zap.Stringer("experiment", driver.id),
		zap.Int("workers", driver.workers),
	)

	for sequence := 0; groupCtx.Err() == nil; sequence++ {
		trial, ok := driver.Next()
		if !ok || groupCtx.Err() != nil {
			break
		}

		sequence := sequence
		group.Go(func() error {
			// Another trial may have failed while this one waited for a worker
			if groupCtx.Err() != nil {
				return nil
			}

			output, err := driver.calculator.Calculate(groupCtx, trial)
			if err != nil {
				return fmt.Errorf("trial %d (%v) failed: %w", trial.Draw.Run, trial.Id, err)
			}
			return release(sequence, Result[R]{Trial: trial, Output: output})
		})
	}

	if err := group.Wait(); err != nil {
		driver.logger.Error("experiment failed", zap.Stringer("experiment", driver.id), zap.Error(err))
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	driver.logger.Info("experiment finished",
		zap.Stringer("experiment", driver.id),
		zap.Int("trials", emitted),
	)
	return nil
}
