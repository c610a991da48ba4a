package model

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

// Verify checks that a draw is a consistent global assignment of the given configuration
func Verify(draw Draw, input ProjectionInput) bool {
	// Check that every parameter instance is assigned exactly once
	if len(draw.Mapping) != len(input.Parameters) || lo.SomeBy(input.Parameters, func(parameter ParameterInstance) bool {
		_, ok := draw.Mapping[parameter.Id]
		return !ok
	}) {
		return false
	}
	if len(draw.Sets) != len(input.SetTypes) {
		return false
	}

	probability := 1.0
	for i, setType := range input.SetTypes {
		set, ok := input.Set(draw.Sets[i])
		// Check that:
		// - The chosen set exists and belongs to the set type
		// - Every covered parameter instance is assigned one of the set's own assignments
		if !ok || set.SetType != setType.Id {
			return false
		}
		setProbability := set.Probability
		for _, parameter := range setType.Parameters {
			assignment := draw.Mapping[parameter]
			if !slices.ContainsFunc(set.Assignments[parameter], func(candidate ParameterAssignment) bool {
				return candidate.Id == assignment.Id
			}) {
				return false
			}
			setProbability *= assignment.Probability
		}
		probability *= setProbability
	}

	// Check that the reported probability matches the product of its components
	return math.Abs(probability-draw.Probability) <= 1e-9
}

// Names returns parameter instance name -> assignment name for a draw
func Names(draw Draw, input ProjectionInput) map[string]string {
	names := make(map[string]string, len(draw.Mapping))
	for parameterId, assignment := range draw.Mapping {
		parameter, ok := input.Parameter(parameterId)
		if !ok {
			continue
		}
		names[parameter.Name] = assignment.Name
	}
	return names
}
