package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/limaJavier/projection/pkg/model"
	"github.com/samber/lo"
)

const MB float32 = 1024 * 1024

type StopType int

const (
	exhaustive StopType = iota
	maxRuns
	cutOff
	desiredProbability
)

var stopTypes = map[StopType]string{
	exhaustive:         "exhaustive",
	maxRuns:            "max-runs",
	cutOff:             "cut-off",
	desiredProbability: "desired-probability",
}

// Scenario describes a synthetic configuration: every set type has the same shape
type Scenario struct {
	SetTypes          int
	SetsPerType       int
	ParametersPerType int
	Candidates        int // Assignments per parameter instance within each set
}

type StopPolicy struct {
	Type  StopType
	Value float64
}

type BenchmarkResult struct {
	Scenario     Scenario
	Policy       StopPolicy
	Combinations uint64
	Draws        uint64
	Probability  float64
	Duration     int64 // Milliseconds
	Memory       float32
}

func main() {
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where results will be written")
	seedPtr := flag.Int64("seed", 1, "Seed of the synthetic configurations")
	flag.Parse()

	random := rand.New(rand.NewSource(*seedPtr))
	results := make([]BenchmarkResult, 0)

	for _, scenario := range getScenarios() {
		input, err := model.ProcessRawInput(buildInput(scenario, random))
		if err != nil {
			log.Fatalf("cannot build synthetic configuration: %v", err)
		}

		for _, policy := range getPolicies() {
			fmt.Printf("Benchmarking scenario %+v with policy \"%v\" (%v)\n", scenario, stopTypes[policy.Type], policy.Value)
			result, err := measure(input, policy)
			if err != nil {
				log.Fatalf("an error occurred during the enumeration: %v", err)
			}
			result.Scenario = scenario
			results = append(results, result)
		}
	}

	toCsv(*outPtr, results)
}

func getScenarios() []Scenario {
	return []Scenario{
		{SetTypes: 1, SetsPerType: 2, ParametersPerType: 2, Candidates: 3},
		{SetTypes: 2, SetsPerType: 3, ParametersPerType: 2, Candidates: 3},
		{SetTypes: 3, SetsPerType: 3, ParametersPerType: 3, Candidates: 2},
		{SetTypes: 4, SetsPerType: 4, ParametersPerType: 3, Candidates: 3},
	}
}

func getPolicies() []StopPolicy {
	return []StopPolicy{
		{Type: maxRuns, Value: 1000},
		{Type: cutOff, Value: 1e-4},
		{Type: desiredProbability, Value: 0.9},
		{Type: exhaustive},
	}
}

// buildInput generates a configuration whose probabilities are normalized per set type and per parameter instance
func buildInput(scenario Scenario, random *rand.Rand) model.RawProjectionInput {
	rawInput := model.RawProjectionInput{}
	var parameterId, setId, assignmentId uint64

	for setTypeId, rangeEnd := uint64(0), uint64(scenario.SetTypes); setTypeId < rangeEnd; setTypeId++ {
		setType := model.RawSetType{Id: setTypeId, Name: fmt.Sprintf("type-%d", setTypeId)}
		for rangeIdx, rangeEnd := 0, scenario.ParametersPerType; rangeIdx < rangeEnd; rangeIdx++ {
			rawInput.Parameters = append(rawInput.Parameters, model.ParameterInstance{
				Id:         parameterId,
				Name:       fmt.Sprintf("parameter-%d", parameterId),
				Generation: setTypeId,
			})
			setType.Parameters = append(setType.Parameters, parameterId)
			parameterId++
		}
		rawInput.SetTypes = append(rawInput.SetTypes, setType)

		for _, setProbability := range normalized(scenario.SetsPerType, random) {
			set := model.RawSet{Id: setId, Name: fmt.Sprintf("set-%d", setId), SetType: setTypeId, Probability: setProbability}
			for _, parameter := range setType.Parameters {
				for _, probability := range normalized(scenario.Candidates, random) {
					set.Assignments = append(set.Assignments, model.ParameterAssignment{
						Id:          assignmentId,
						Name:        fmt.Sprintf("assignment-%d", assignmentId),
						Parameter:   parameter,
						Probability: probability,
					})
					assignmentId++
				}
			}
			rawInput.Sets = append(rawInput.Sets, set)
			setId++
		}
	}
	return rawInput
}

func normalized(size int, random *rand.Rand) []float64 {
	weights := lo.Times(size, func(_ int) float64 { return random.Float64() + 0.01 })
	total := lo.Sum(weights)
	return lo.Map(weights, func(weight float64, _ int) float64 { return weight / total })
}

func measure(input model.ProjectionInput, policy StopPolicy) (BenchmarkResult, error) {
	options := make([]model.Option, 0)
	switch policy.Type {
	case maxRuns:
		options = append(options, model.WithMaxNumRuns(uint64(policy.Value)))
	case cutOff:
		options = append(options, model.WithCutOffProbability(policy.Value))
	case desiredProbability:
		options = append(options, model.WithDesiredOverallProbability(policy.Value))
	}

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()

	generator, err := model.NewExhaustiveGenerator(input, options...)
	if err != nil {
		return BenchmarkResult{}, err
	}
	for _, _, ok := generator.ChooseParamAssignments(); ok; _, _, ok = generator.ChooseParamAssignments() {
	}

	duration := time.Since(start)
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	return BenchmarkResult{
		Policy:       policy,
		Combinations: generator.TotalCombinations(),
		Draws:        generator.Runs(),
		Probability:  generator.CumulativeProbability(),
		Duration:     duration.Milliseconds(),
		Memory:       float32(after.TotalAlloc-before.TotalAlloc) / MB,
	}, nil
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Set Types", "Sets per Type", "Parameters per Type", "Candidates", "Policy", "Threshold", "Combinations", "Draws", "Cumulative Probability", "Duration(ms)", "Allocated(MB)"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(toRecord(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func toRecord(result BenchmarkResult) []string {
	return []string{
		fmt.Sprintf("%d", result.Scenario.SetTypes),
		fmt.Sprintf("%d", result.Scenario.SetsPerType),
		fmt.Sprintf("%d", result.Scenario.ParametersPerType),
		fmt.Sprintf("%d", result.Scenario.Candidates),
		stopTypes[result.Policy.Type],
		fmt.Sprintf("%g", result.Policy.Value),
		fmt.Sprintf("%d", result.Combinations),
		fmt.Sprintf("%d", result.Draws),
		fmt.Sprintf("%f", result.Probability),
		fmt.Sprintf("%d", result.Duration),
		fmt.Sprintf("%.1f", result.Memory),
	}
}
