package model

import (
	"github.com/limaJavier/projection/pkg/lattice"
	"github.com/samber/lo"
)

// setManager enumerates the parameter-assignment combinations of a single set in non-increasing probability order
type setManager struct {
	set        Set
	order      int // Declaration order of the set within its type (used to break ties)
	parameters []uint64
	dimensions []*lattice.WeightedList[ParameterAssignment]
	frontier   lattice.Frontier
	current    lattice.Vector
}

// newSetManager builds the manager of a set covering the given parameter instances.
// If the set lacks candidates for some parameter instances, no manager is built and those instances are returned.
func newSetManager(set Set, order int, parameters []uint64) (manager *setManager, missing []uint64) {
	dimensions := make([]*lattice.WeightedList[ParameterAssignment], 0, len(parameters))
	for _, parameter := range parameters {
		assignments := set.Assignments[parameter]
		if len(assignments) == 0 {
			missing = append(missing, parameter)
			continue
		}
		dimensions = append(dimensions, lattice.NewWeightedList(lo.Map(assignments, func(assignment ParameterAssignment, _ int) lattice.Candidate[ParameterAssignment] {
			return lattice.Candidate[ParameterAssignment]{Probability: assignment.Probability, Payload: assignment}
		})))
	}
	if len(missing) > 0 {
		return nil, missing
	}

	manager = &setManager{
		set:        set,
		order:      order,
		parameters: parameters,
		dimensions: dimensions,
		frontier: lattice.NewFrontier(lo.Map(dimensions, func(dimension *lattice.WeightedList[ParameterAssignment], _ int) lattice.Dimension {
			return dimension
		})...),
	}
	manager.advance()
	return manager, nil
}

// advance moves to the next most probable combination; it returns false once the set is exhausted
func (manager *setManager) advance() bool {
	vector, ok := manager.frontier.Pop()
	if !ok {
		return false
	}
	manager.current = vector
	return true
}

// probability returns the overall probability of the current combination (set prior times combination probability)
func (manager *setManager) probability() float64 {
	return manager.set.Probability * manager.current.Probability
}

// currentMapping resolves the current combination into parameter instance -> assignment
func (manager *setManager) currentMapping() map[uint64]ParameterAssignment {
	mapping := make(map[uint64]ParameterAssignment, len(manager.parameters))
	for i, parameter := range manager.parameters {
		mapping[parameter] = manager.dimensions[i].At(manager.current.Coordinates[i]).Payload
	}
	return mapping
}

// combinations returns the number of parameter-assignment combinations of the set
func (manager *setManager) combinations() uint64 {
	return lo.Reduce(manager.dimensions, func(product uint64, dimension *lattice.WeightedList[ParameterAssignment], _ int) uint64 {
		return saturatingMul(product, uint64(dimension.Len()))
	}, 1)
}
