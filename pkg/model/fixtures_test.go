package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func assignment(id uint64, name string, parameter uint64, probability float64) ParameterAssignment {
	return ParameterAssignment{Id: id, Name: name, Parameter: parameter, Probability: probability, Value: [][]float64{{probability}}}
}

// workedExampleInput is one set type covering parameter P with sets A (0.6: a1 0.7, a2 0.3) and B (0.4: b1 1.0)
func workedExampleInput() RawProjectionInput {
	return RawProjectionInput{
		Parameters: []ParameterInstance{{Id: 0, Name: "P"}},
		SetTypes:   []RawSetType{{Id: 0, Name: "fertility", Parameters: []uint64{0}}},
		Sets: []RawSet{
			{Id: 0, Name: "A", SetType: 0, Probability: 0.6, Assignments: []ParameterAssignment{
				assignment(0, "a1", 0, 0.7),
				assignment(1, "a2", 0, 0.3),
			}},
			{Id: 1, Name: "B", SetType: 0, Probability: 0.4, Assignments: []ParameterAssignment{
				assignment(2, "b1", 0, 1.0),
			}},
		},
	}
}

// twoParameterInput is a single set (prior 1.0) covering P1 {x1 0.5, x2 0.5} and P2 {y1 0.9, y2 0.1}
func twoParameterInput() RawProjectionInput {
	return RawProjectionInput{
		Parameters: []ParameterInstance{{Id: 0, Name: "P1"}, {Id: 1, Name: "P2"}},
		SetTypes:   []RawSetType{{Id: 0, Name: "migration", Parameters: []uint64{0, 1}}},
		Sets: []RawSet{
			{Id: 0, Name: "S", SetType: 0, Probability: 1.0, Assignments: []ParameterAssignment{
				assignment(0, "x1", 0, 0.5),
				assignment(1, "x2", 0, 0.5),
				assignment(2, "y1", 1, 0.9),
				assignment(3, "y2", 1, 0.1),
			}},
		},
	}
}

// multiTypeInput combines both previous inputs as two disjoint set types plus a third type with three sets
func multiTypeInput() RawProjectionInput {
	return RawProjectionInput{
		Parameters: []ParameterInstance{
			{Id: 0, Name: "fertility", Generation: 1, Population: "urban"},
			{Id: 1, Name: "mortality-male", Generation: 1, Population: "urban"},
			{Id: 2, Name: "mortality-female", Generation: 1, Population: "urban"},
			{Id: 3, Name: "migration", Generation: 2, Population: "rural"},
		},
		SetTypes: []RawSetType{
			{Id: 10, Name: "fertility", Parameters: []uint64{0}},
			{Id: 20, Name: "mortality", Parameters: []uint64{1, 2}},
			{Id: 30, Name: "migration", Parameters: []uint64{3}},
		},
		Sets: []RawSet{
			{Id: 0, Name: "fertility-high", SetType: 10, Probability: 0.6, Assignments: []ParameterAssignment{
				assignment(0, "tfr-2.1", 0, 0.7),
				assignment(1, "tfr-1.9", 0, 0.3),
			}},
			{Id: 1, Name: "fertility-low", SetType: 10, Probability: 0.4, Assignments: []ParameterAssignment{
				assignment(2, "tfr-1.4", 0, 1.0),
			}},
			{Id: 2, Name: "mortality-trend", SetType: 20, Probability: 1.0, Assignments: []ParameterAssignment{
				assignment(3, "male-trend", 1, 0.5),
				assignment(4, "male-flat", 1, 0.5),
				assignment(5, "female-trend", 2, 0.9),
				assignment(6, "female-flat", 2, 0.1),
			}},
			{Id: 3, Name: "migration-none", SetType: 30, Probability: 0.5, Assignments: []ParameterAssignment{
				assignment(7, "zero", 3, 1.0),
			}},
			{Id: 4, Name: "migration-inflow", SetType: 30, Probability: 0.3, Assignments: []ParameterAssignment{
				assignment(8, "inflow-small", 3, 0.8),
				assignment(9, "inflow-large", 3, 0.2),
			}},
			{Id: 5, Name: "migration-outflow", SetType: 30, Probability: 0.2, Assignments: []ParameterAssignment{
				assignment(10, "outflow", 3, 1.0),
			}},
		},
	}
}

func mustInput(t *testing.T, rawInput RawProjectionInput) ProjectionInput {
	t.Helper()
	input, err := ProcessRawInput(rawInput)
	require.NoError(t, err)
	return input
}

func drawAll(generator AssignmentGenerator) []Draw {
	draws := make([]Draw, 0)
	for draw, _, ok := generator.ChooseParamAssignments(); ok; draw, _, ok = generator.ChooseParamAssignments() {
		draws = append(draws, draw)
	}
	return draws
}

func assignmentNames(draw Draw, parameters ...uint64) []string {
	names := make([]string, 0, len(parameters))
	for _, parameter := range parameters {
		names = append(names, draw.Mapping[parameter].Name)
	}
	return names
}
