package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type ParameterInstance struct {
	Id         uint64
	Name       string
	Generation uint64
	Population string
}

type ParameterAssignment struct {
	Id          uint64
	Name        string
	Parameter   uint64
	Probability float64
	Value       [][]float64
}

type RawSet struct {
	Id          uint64
	Name        string
	SetType     uint64 `mapstructure:"setType"`
	Probability float64
	Assignments []ParameterAssignment
}

type RawSetType struct {
	Id         uint64
	Name       string
	Parameters []uint64
}

type RawProjectionInput struct {
	Parameters []ParameterInstance
	SetTypes   []RawSetType `mapstructure:"setTypes"`
	Sets       []RawSet
	Experiment ExperimentOptions
}

type Set struct {
	Id          uint64
	Name        string
	SetType     uint64
	Probability float64
	Assignments map[uint64][]ParameterAssignment // Assignments per covered parameter instance (declaration order)
}

type SetType struct {
	Id         uint64
	Name       string
	Parameters []uint64 // Covered parameter instances
	Sets       []uint64 // Indices (into ProjectionInput.Sets) of the sets of this type (declaration order)
}

// ExperimentOptions holds the stopping policy of an exhaustive experiment. Zero values disable the corresponding predicate.
type ExperimentOptions struct {
	MaxNumRuns                uint64  `mapstructure:"maxNumRuns"`
	DesiredOverallProbability float64 `mapstructure:"desiredOverallProbability"`
	CutOffProbability         float64 `mapstructure:"cutOffProbability"`
	MaxRunFraction            float64 `mapstructure:"maxRunFraction"` // Defaults to 1
}

type ProjectionInput struct {
	Parameters []ParameterInstance
	SetTypes   []SetType
	Sets       []Set
	Experiment ExperimentOptions
}

// Returns the parameter instance with the given id
func (input ProjectionInput) Parameter(id uint64) (ParameterInstance, bool) {
	return lo.Find(input.Parameters, func(parameter ParameterInstance) bool { return parameter.Id == id })
}

// Returns the set with the given id
func (input ProjectionInput) Set(id uint64) (Set, bool) {
	return lo.Find(input.Sets, func(set Set) bool { return set.Id == id })
}

// InputFromFile reads a projection configuration from a JSON or YAML (.yaml, .yml) file
func InputFromFile(file string) (ProjectionInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ProjectionInput{}, fmt.Errorf("cannot read configuration file: %w", err)
	}

	var document map[string]any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &document)
	default:
		err = json.Unmarshal(bytes, &document)
	}
	if err != nil {
		return ProjectionInput{}, fmt.Errorf("cannot parse configuration file %q: %w", file, err)
	}

	var rawInput RawProjectionInput
	if err := mapstructure.Decode(document, &rawInput); err != nil {
		return ProjectionInput{}, fmt.Errorf("cannot decode configuration file %q: %w", file, err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawProjectionInput) (ProjectionInput, error) {
	if len(rawInput.SetTypes) == 0 {
		return ProjectionInput{}, configurationErrorf("no set types are defined")
	}

	//** Manage parameters
	parameters := make(map[uint64]ParameterInstance)
	for _, parameter := range rawInput.Parameters {
		if _, ok := parameters[parameter.Id]; ok {
			return ProjectionInput{}, configurationErrorf("duplicate parameter instance %d", parameter.Id)
		}
		parameters[parameter.Id] = parameter
	}

	//** Manage set types
	// Make sure that set types are disjoint and cover every parameter instance
	owners := make(map[uint64]uint64) // Parameter instance -> set type
	setTypes := make([]SetType, 0, len(rawInput.SetTypes))
	setTypeIndex := make(map[uint64]int)
	for _, rawSetType := range rawInput.SetTypes {
		if _, ok := setTypeIndex[rawSetType.Id]; ok {
			return ProjectionInput{}, configurationErrorf("duplicate set type %d", rawSetType.Id)
		}
		for _, parameter := range rawSetType.Parameters {
			if _, ok := parameters[parameter]; !ok {
				return ProjectionInput{}, configurationErrorf("set type %q covers unknown parameter instance %d", rawSetType.Name, parameter)
			}
			if owner, ok := owners[parameter]; ok {
				return ProjectionInput{}, configurationErrorf("parameter instance %q is covered by set types %d and %d", parameters[parameter].Name, owner, rawSetType.Id)
			}
			owners[parameter] = rawSetType.Id
		}
		setTypeIndex[rawSetType.Id] = len(setTypes)
		setTypes = append(setTypes, SetType{
			Id:         rawSetType.Id,
			Name:       rawSetType.Name,
			Parameters: slices.Clone(rawSetType.Parameters),
			Sets:       make([]uint64, 0),
		})
	}
	if uncovered, ok := lo.Find(rawInput.Parameters, func(parameter ParameterInstance) bool {
		_, covered := owners[parameter.Id]
		return !covered
	}); ok {
		return ProjectionInput{}, configurationErrorf("parameter instance %q is not covered by any set type", uncovered.Name)
	}

	//** Manage sets
	sets := make([]Set, 0, len(rawInput.Sets))
	setIds := make(map[uint64]bool)
	assignmentOwners := make(map[uint64]string) // Assignment id -> name of the declaring set
	for _, rawSet := range rawInput.Sets {
		if setIds[rawSet.Id] {
			return ProjectionInput{}, configurationErrorf("duplicate set %d", rawSet.Id)
		}
		setIds[rawSet.Id] = true

		index, ok := setTypeIndex[rawSet.SetType]
		if !ok {
			return ProjectionInput{}, configurationErrorf("set %q references unknown set type %d", rawSet.Name, rawSet.SetType)
		}
		if !validProbability(rawSet.Probability) {
			return ProjectionInput{}, configurationErrorf("set %q has an inconsistent probability %v", rawSet.Name, rawSet.Probability)
		}

		set := Set{
			Id:          rawSet.Id,
			Name:        rawSet.Name,
			SetType:     rawSet.SetType,
			Probability: rawSet.Probability,
			Assignments: make(map[uint64][]ParameterAssignment),
		}
		for _, assignment := range rawSet.Assignments {
			// Make sure that the assignment targets a parameter instance of the set's type
			if !slices.Contains(setTypes[index].Parameters, assignment.Parameter) {
				return ProjectionInput{}, configurationErrorf("assignment %q of set %q targets parameter instance %d, which is not covered by set type %q", assignment.Name, rawSet.Name, assignment.Parameter, setTypes[index].Name)
			}
			if !validProbability(assignment.Probability) {
				return ProjectionInput{}, configurationErrorf("assignment %q of set %q has an inconsistent probability %v", assignment.Name, rawSet.Name, assignment.Probability)
			}
			// Assignment ids are unique across every set
			if owner, ok := assignmentOwners[assignment.Id]; ok {
				return ProjectionInput{}, configurationErrorf("duplicate assignment %d in set %q (already declared by set %q)", assignment.Id, rawSet.Name, owner)
			}
			assignmentOwners[assignment.Id] = rawSet.Name
			set.Assignments[assignment.Parameter] = append(set.Assignments[assignment.Parameter], assignment)
		}

		setTypes[index].Sets = append(setTypes[index].Sets, uint64(len(sets)))
		sets = append(sets, set)
	}

	return ProjectionInput{
		Parameters: slices.Clone(rawInput.Parameters),
		SetTypes:   setTypes,
		Sets:       sets,
		Experiment: rawInput.Experiment,
	}, nil
}

func validProbability(probability float64) bool {
	return !math.IsNaN(probability) && probability >= 0 && probability <= 1
}
