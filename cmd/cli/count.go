package main

import (
	"fmt"

	"github.com/limaJavier/projection/pkg/model"
	"github.com/spf13/cobra"
)

func newCountCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of distinct global assignments of a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := model.InputFromFile(file)
			if err != nil {
				return err
			}
			generator, err := model.NewExhaustiveGenerator(input, model.WithLogger(logger))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Combinations: %d\n", generator.TotalCombinations())
			fmt.Fprintf(cmd.OutOrStdout(), "Assignments left: %d\n", generator.AssignmentsLeft())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the projection configuration")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
