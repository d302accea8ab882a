package main

import (
	"fmt"

	"github.com/futig/practice-analyzer/internal/training"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var prepareFlags struct {
	input  string
	output string
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Build instruction-formatted training data from analysis/sheet pairs",
	Long: `Reads JSONL with fields analysis and reference_sheet (plus optional
event, division, source) and writes one {"text","meta"} sample per usable line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := training.PrepareFile(prepareFlags.input, prepareFlags.output)
		if err != nil {
			return err
		}

		logger.Debug("dataset prepared", zap.Int("examples", n), zap.String("output", prepareFlags.output))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d training examples to %s\n", n, prepareFlags.output)
		return nil
	},
}

func init() {
	prepareCmd.Flags().StringVar(&prepareFlags.input, "input", "", "Raw JSONL with analysis and reference_sheet fields")
	prepareCmd.Flags().StringVar(&prepareFlags.output, "output", "", "Where to write the training JSONL")
	_ = prepareCmd.MarkFlagRequired("input")
	_ = prepareCmd.MarkFlagRequired("output")
}
