package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRawInput(t *testing.T) {
	// Arrange
	rawInput := multiTypeInput()

	// Act
	input, err := ProcessRawInput(rawInput)

	// Assert
	require.NoError(t, err)
	assert.Len(t, input.Parameters, 4)
	require.Len(t, input.SetTypes, 3)
	assert.Equal(t, []uint64{0, 1}, input.SetTypes[0].Sets)
	assert.Equal(t, []uint64{2}, input.SetTypes[1].Sets)
	assert.Equal(t, []uint64{3, 4, 5}, input.SetTypes[2].Sets)
	assert.Len(t, input.Sets[2].Assignments[1], 2)
	assert.Len(t, input.Sets[2].Assignments[2], 2)

	set, ok := input.Set(4)
	require.True(t, ok)
	assert.Equal(t, "migration-inflow", set.Name)

	parameter, ok := input.Parameter(3)
	require.True(t, ok)
	assert.Equal(t, "rural", parameter.Population)
}

func TestProcessRawInputConfigurationErrors(t *testing.T) {
	scenarios := map[string]func(input *RawProjectionInput){
		"no set types": func(input *RawProjectionInput) {
			input.SetTypes = nil
		},
		"duplicate parameter": func(input *RawProjectionInput) {
			input.Parameters = append(input.Parameters, ParameterInstance{Id: 0, Name: "again"})
		},
		"duplicate set type": func(input *RawProjectionInput) {
			input.SetTypes = append(input.SetTypes, RawSetType{Id: 10, Name: "again"})
		},
		"unknown covered parameter": func(input *RawProjectionInput) {
			input.SetTypes[0].Parameters = append(input.SetTypes[0].Parameters, 99)
		},
		"overlapping set types": func(input *RawProjectionInput) {
			input.SetTypes[0].Parameters = append(input.SetTypes[0].Parameters, 3)
		},
		"uncovered parameter": func(input *RawProjectionInput) {
			input.Parameters = append(input.Parameters, ParameterInstance{Id: 4, Name: "orphan"})
		},
		"duplicate set": func(input *RawProjectionInput) {
			input.Sets[1].Id = 0
		},
		"unknown set type": func(input *RawProjectionInput) {
			input.Sets[0].SetType = 99
		},
		"negative set probability": func(input *RawProjectionInput) {
			input.Sets[0].Probability = -0.1
		},
		"set probability above one": func(input *RawProjectionInput) {
			input.Sets[0].Probability = 1.5
		},
		"NaN assignment probability": func(input *RawProjectionInput) {
			input.Sets[0].Assignments[0].Probability = math.NaN()
		},
		"foreign parameter": func(input *RawProjectionInput) {
			input.Sets[0].Assignments[0].Parameter = 3
		},
		"duplicate assignment": func(input *RawProjectionInput) {
			input.Sets[0].Assignments[1].Id = input.Sets[0].Assignments[0].Id
		},
		"assignment shared across sets": func(input *RawProjectionInput) {
			input.Sets[4].Assignments[0].Id = input.Sets[3].Assignments[0].Id
		},
	}

	for name, mutate := range scenarios {
		t.Run(name, func(t *testing.T) {
			// Arrange
			rawInput := multiTypeInput()
			mutate(&rawInput)

			// Act
			_, err := ProcessRawInput(rawInput)

			// Assert
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			var configurationError *ConfigurationError
			assert.True(t, errors.As(err, &configurationError))
			assert.NotEmpty(t, configurationError.Reason)
		})
	}
}

const jsonConfiguration = `{
	"parameters": [{"id": 0, "name": "P", "generation": 1, "population": "total"}],
	"setTypes": [{"id": 0, "name": "fertility", "parameters": [0]}],
	"sets": [
		{"id": 0, "name": "A", "setType": 0, "probability": 0.6, "assignments": [
			{"id": 0, "name": "a1", "parameter": 0, "probability": 0.7, "value": [[1.2, 1.3], [1.4, 1.5]]},
			{"id": 1, "name": "a2", "parameter": 0, "probability": 0.3, "value": [[0.9]]}
		]},
		{"id": 1, "name": "B", "setType": 0, "probability": 0.4, "assignments": [
			{"id": 2, "name": "b1", "parameter": 0, "probability": 1.0, "value": [[2]]}
		]}
	],
	"experiment": {"maxNumRuns": 2, "cutOffProbability": 0.01}
}`

const yamlConfiguration = `
parameters:
  - id: 0
    name: P
    generation: 1
    population: total
setTypes:
  - id: 0
    name: fertility
    parameters: [0]
sets:
  - id: 0
    name: A
    setType: 0
    probability: 0.6
    assignments:
      - {id: 0, name: a1, parameter: 0, probability: 0.7, value: [[1.2, 1.3], [1.4, 1.5]]}
      - {id: 1, name: a2, parameter: 0, probability: 0.3, value: [[0.9]]}
  - id: 1
    name: B
    setType: 0
    probability: 0.4
    assignments:
      - {id: 2, name: b1, parameter: 0, probability: 1, value: [[2]]}
experiment:
  maxNumRuns: 2
  cutOffProbability: 0.01
`

func TestInputFromFile(t *testing.T) {
	files := map[string]string{
		"configuration.json": jsonConfiguration,
		"configuration.yaml": yamlConfiguration,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			// Arrange
			file := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(file, []byte(content), 0666))

			// Act
			input, err := InputFromFile(file)

			// Assert
			require.NoError(t, err)
			require.Len(t, input.Sets, 2)
			assert.Equal(t, "total", input.Parameters[0].Population)
			assert.Equal(t, uint64(1), input.Parameters[0].Generation)
			assert.Equal(t, 0.6, input.Sets[0].Probability)
			assert.Equal(t, [][]float64{{1.2, 1.3}, {1.4, 1.5}}, input.Sets[0].Assignments[0][0].Value)
			assert.Equal(t, 1.0, input.Sets[1].Assignments[0][0].Probability)
			assert.Equal(t, uint64(2), input.Experiment.MaxNumRuns)
			assert.Equal(t, 0.01, input.Experiment.CutOffProbability)
		})
	}
}

func TestInputFromFileErrors(t *testing.T) {
	_, err := InputFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(file, []byte("{"), 0666))
	_, err = InputFromFile(file)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfiguration))
}
