package model

import (
	"maps"

	"github.com/limaJavier/projection/pkg/lattice"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Absolute tolerance used when comparing the cumulative probability against the desired overall probability
const probabilityTolerance = 1e-12

type stopReason string

const (
	maxNumRunsReached       stopReason = "maximum number of runs reached"
	desiredProbabilityDrawn stopReason = "desired overall probability drawn"
	belowCutOffProbability  stopReason = "drawn probability below cut-off"
	combinationsExhausted   stopReason = "combinations exhausted"
)

// ExhaustiveGenerator draws complete global assignments in non-increasing probability order without repetitions
type ExhaustiveGenerator struct {
	parameters []ParameterInstance
	managers   []*setTypeManager
	frontier   lattice.Frontier
	experiment ExperimentOptions
	logger     *zap.Logger

	total      uint64
	runs       uint64
	cumulative float64
	stopped    bool
}

func NewExhaustiveGenerator(input ProjectionInput, options ...Option) (*ExhaustiveGenerator, error) {
	config := generatorConfig{
		experiment: input.Experiment,
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		option(&config)
	}
	if config.experiment.MaxRunFraction == 0 {
		config.experiment.MaxRunFraction = 1
	}
	if err := validateExperiment(config.experiment); err != nil {
		return nil, err
	}
	if len(input.SetTypes) == 0 {
		return nil, configurationErrorf("no set types are defined")
	}

	managers := make([]*setTypeManager, 0, len(input.SetTypes))
	for _, setType := range input.SetTypes {
		manager, err := newSetTypeManager(input, setType, config.logger)
		if err != nil {
			return nil, err
		}
		managers = append(managers, manager)
	}

	total := lo.Reduce(managers, func(product uint64, manager *setTypeManager, _ int) uint64 {
		return saturatingMul(product, manager.combinations())
	}, 1)

	config.logger.Debug("exhaustive generator initialized",
		zap.Int("setTypes", len(managers)),
		zap.Uint64("totalCombinations", total),
	)

	return &ExhaustiveGenerator{
		parameters: input.Parameters,
		managers:   managers,
		frontier: lattice.NewFrontier(lo.Map(managers, func(manager *setTypeManager, _ int) lattice.Dimension {
			return manager
		})...),
		experiment: config.experiment,
		logger:     config.logger,
		total:      total,
	}, nil
}

func (generator *ExhaustiveGenerator) ChooseParamAssignments() (Draw, []Warning, bool) {
	if generator.AssignmentsLeft() == 0 {
		return Draw{}, nil, false
	}

	vector, ok := generator.frontier.Pop()
	if !ok {
		generator.stop(combinationsExhausted)
		return Draw{}, nil, false
	}

	draw := Draw{
		Probability: vector.Probability,
		Sets:        make([]uint64, len(generator.managers)),
		Mapping:     make(map[uint64]ParameterAssignment, len(generator.parameters)),
	}
	for i, manager := range generator.managers {
		entry := manager.getAssignment(vector.Coordinates[i])
		draw.Sets[i] = entry.Set
		maps.Copy(draw.Mapping, entry.Mapping)
	}

	generator.runs++
	generator.cumulative += vector.Probability
	draw.Run = generator.runs

	generator.logger.Debug("assignment drawn",
		zap.Uint64("run", draw.Run),
		zap.Float64("probability", draw.Probability),
		zap.Float64("cumulativeProbability", generator.cumulative),
		zap.Int("frontier", generator.frontier.Len()),
		zap.Int("explored", generator.frontier.Seen()),
	)

	generator.evaluateStoppingCriteria(vector.Probability)
	return draw, nil, true
}

func (generator *ExhaustiveGenerator) AssignmentsLeft() uint64 {
	if generator.stopped || generator.frontier.Exhausted() {
		return 0
	}

	limit := quota(generator.total, generator.experiment.MaxRunFraction)
	if generator.experiment.MaxNumRuns > 0 {
		limit = generator.experiment.MaxNumRuns
	}
	if generator.runs >= limit {
		return 0
	}
	return limit - generator.runs
}

// TotalCombinations returns the number of distinct global assignments (saturated at math.MaxUint64)
func (generator *ExhaustiveGenerator) TotalCombinations() uint64 {
	return generator.total
}

func (generator *ExhaustiveGenerator) Runs() uint64 {
	return generator.runs
}

// CumulativeProbability returns the sum of the probabilities drawn so far
func (generator *ExhaustiveGenerator) CumulativeProbability() float64 {
	return generator.cumulative
}

// Stopped checks whether a stopping predicate has tripped (this never reverts)
func (generator *ExhaustiveGenerator) Stopped() bool {
	return generator.stopped
}

func (generator *ExhaustiveGenerator) evaluateStoppingCriteria(probability float64) {
	experiment := generator.experiment
	switch {
	case experiment.MaxNumRuns > 0 && generator.runs >= experiment.MaxNumRuns:
		generator.stop(maxNumRunsReached)
	case experiment.DesiredOverallProbability > 0 && generator.cumulative >= experiment.DesiredOverallProbability-probabilityTolerance:
		generator.stop(desiredProbabilityDrawn)
	case experiment.CutOffProbability > 0 && probability < experiment.CutOffProbability:
		generator.stop(belowCutOffProbability)
	case generator.frontier.Exhausted():
		generator.stop(combinationsExhausted)
	}
}

func (generator *ExhaustiveGenerator) stop(reason stopReason) {
	if generator.stopped {
		return
	}
	generator.stopped = true
	generator.logger.Info("exhaustive experiment stopped",
		zap.String("reason", string(reason)),
		zap.Uint64("runs", generator.runs),
		zap.Float64("cumulativeProbability", generator.cumulative),
	)
}

func validateExperiment(experiment ExperimentOptions) error {
	if !validProbability(experiment.DesiredOverallProbability) {
		return configurationErrorf("desired overall probability must lie in [0, 1]: %v", experiment.DesiredOverallProbability)
	} else if !validProbability(experiment.CutOffProbability) {
		return configurationErrorf("cut-off probability must lie in [0, 1]: %v", experiment.CutOffProbability)
	} else if !(experiment.MaxRunFraction > 0 && experiment.MaxRunFraction <= 1) {
		return configurationErrorf("maximum run fraction must lie in (0, 1]: %v", experiment.MaxRunFraction)
	}
	return nil
}
