package model

import "go.uber.org/zap"

// Draw is one complete global assignment: every parameter instance of the configuration mapped to one of its assignments
type Draw struct {
	Run         uint64                         // 1-based draw number
	Probability float64                        // Combined probability across set types
	Sets        []uint64                       // Chosen set per set type (set type declaration order)
	Mapping     map[uint64]ParameterAssignment // Parameter instance -> assignment
}

// AssignmentGenerator chooses the parameter assignments of successive trials of an experiment.
// Implementations are not safe for concurrent use; callers must serialize calls on a single generator.
type AssignmentGenerator interface {
	// Draws the next global assignment; ok is false (and draw is the zero value) once no assignment is left
	ChooseParamAssignments() (draw Draw, warnings []Warning, ok bool)

	// Returns the number of remaining draws under the current configuration and stopping state (0 means exhausted or stopped)
	AssignmentsLeft() uint64
}

type Option func(*generatorConfig)

type generatorConfig struct {
	experiment ExperimentOptions
	logger     *zap.Logger
}

// WithExperiment replaces the stopping policy read from the configuration
func WithExperiment(experiment ExperimentOptions) Option {
	return func(config *generatorConfig) {
		config.experiment = experiment
	}
}

func WithMaxNumRuns(runs uint64) Option {
	return func(config *generatorConfig) {
		config.experiment.MaxNumRuns = runs
	}
}

func WithDesiredOverallProbability(probability float64) Option {
	return func(config *generatorConfig) {
		config.experiment.DesiredOverallProbability = probability
	}
}

func WithCutOffProbability(probability float64) Option {
	return func(config *generatorConfig) {
		config.experiment.CutOffProbability = probability
	}
}

func WithMaxRunFraction(fraction float64) Option {
	return func(config *generatorConfig) {
		config.experiment.MaxRunFraction = fraction
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(config *generatorConfig) {
		config.logger = logger
	}
}
