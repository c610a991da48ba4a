package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/limaJavier/projection/pkg/experiment"
	"github.com/limaJavier/projection/pkg/model"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type enumerateFlags struct {
	file               string
	out                string
	workers            int
	maxRuns            uint64
	desiredProbability float64
	cutOff             float64
	fraction           float64
}

// record is the JSON line written for every drawn assignment
type record struct {
	Run         uint64            `json:"run"`
	Trial       string            `json:"trial"`
	Probability float64           `json:"probability"`
	Sets        []string          `json:"sets"`
	Assignments map[string]string `json:"assignments"`
}

func newEnumerateCmd() *cobra.Command {
	flags := &enumerateFlags{}
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Draw assignments in non-increasing probability order",
		Long: `Loads a projection configuration (JSON or YAML) and writes one JSON line per
drawn assignment until the stopping policy trips or every combination is drawn.

Stopping flags override the "experiment" section of the configuration.

Example:
  projection enumerate --file assumptions.yaml --cutoff 0.001 --out draws.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnumerate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Path to the projection configuration")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Path to the file where draws will be written; if empty, they're written into the Standard Output")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Number of trials computed concurrently (0 uses every CPU)")
	cmd.Flags().Uint64Var(&flags.maxRuns, "max-runs", 0, "Maximum number of draws")
	cmd.Flags().Float64Var(&flags.desiredProbability, "desired-probability", 0, "Stop once the drawn probabilities add up to this value")
	cmd.Flags().Float64Var(&flags.cutOff, "cutoff", 0, "Stop once a drawn probability falls below this value")
	cmd.Flags().Float64Var(&flags.fraction, "fraction", 0, "Fraction (between 0 and 1) of all combinations to draw")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runEnumerate(cmd *cobra.Command, flags *enumerateFlags) error {
	input, err := model.InputFromFile(flags.file)
	if err != nil {
		return err
	}

	generator, err := model.NewExhaustiveGenerator(input, generatorOptions(cmd, flags)...)
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		zap.String("file", flags.file),
		zap.Uint64("totalCombinations", generator.TotalCombinations()),
		zap.Uint64("assignmentsLeft", generator.AssignmentsLeft()),
	)

	var writer io.Writer = cmd.OutOrStdout()
	if flags.out != "" {
		file, err := os.Create(flags.out)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := experiment.NewDriver[record](generator, newRecordCalculator(input), experiment.WithWorkers(flags.workers), experiment.WithLogger(logger))

	encoder := json.NewEncoder(writer)
	err = driver.Stream(ctx, func(result experiment.Result[record]) error {
		return writeRecord(encoder, result.Output)
	})
	if err != nil {
		return fmt.Errorf("an error occurred during the experiment: %w", err)
	}
	return nil
}

// generatorOptions turns the explicitly set stopping flags into generator options
func generatorOptions(cmd *cobra.Command, flags *enumerateFlags) []model.Option {
	options := []model.Option{model.WithLogger(logger)}
	if cmd.Flags().Changed("max-runs") {
		options = append(options, model.WithMaxNumRuns(flags.maxRuns))
	}
	if cmd.Flags().Changed("desired-probability") {
		options = append(options, model.WithDesiredOverallProbability(flags.desiredProbability))
	}
	if cmd.Flags().Changed("cutoff") {
		options = append(options, model.WithCutOffProbability(flags.cutOff))
	}
	if cmd.Flags().Changed("fraction") {
		options = append(options, model.WithMaxRunFraction(flags.fraction))
	}
	return options
}

// newRecordCalculator turns every verified draw into its output record
func newRecordCalculator(input model.ProjectionInput) experiment.CalculatorFunc[record] {
	return func(ctx context.Context, trial experiment.Trial) (record, error) {
		if !model.Verify(trial.Draw, input) {
			return record{}, fmt.Errorf("draw %d is not a consistent assignment of the configuration", trial.Draw.Run)
		}
		return newRecord(trial, input), nil
	}
}

func newRecord(trial experiment.Trial, input model.ProjectionInput) record {
	return record{
		Run:         trial.Draw.Run,
		Trial:       trial.Id.String(),
		Probability: trial.Draw.Probability,
		Sets: lo.Map(trial.Draw.Sets, func(id uint64, _ int) string {
			set, _ := input.Set(id)
			return set.Name
		}),
		Assignments: model.Names(trial.Draw, input),
	}
}

func writeRecord(encoder *json.Encoder, record record) error {
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("an error occurred while writing draw %d: %w", record.Run, err)
	}
	return nil
}
