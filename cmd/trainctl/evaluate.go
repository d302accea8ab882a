package main

import (
	"fmt"

	"github.com/futig/practice-analyzer/internal/integration/localmodel"
	"github.com/futig/practice-analyzer/internal/training"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var evaluateFlags struct {
	input      string
	output     string
	resume     bool
	checkpoint string
	mock       bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Generate reference sheets for held-out analyses with the local model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var generator training.Generator
		if evaluateFlags.mock {
			generator = localmodel.NewMockConnector()
		} else {
			generator = localmodel.NewConnector(cfg.LocalModelCfg, logger)
		}

		var cp *training.Checkpoint
		if evaluateFlags.resume {
			path := evaluateFlags.checkpoint
			if path == "" {
				path = evaluateFlags.output + ".checkpoint.db"
			}
			var err error
			cp, err = training.OpenCheckpoint(path)
			if err != nil {
				return err
			}
			defer cp.Close()

			done, err := cp.Count()
			if err != nil {
				return err
			}
			logger.Info("resuming evaluation", zap.String("checkpoint", path), zap.Int("already_generated", done))
		}

		e := training.NewEvaluator(generator, cp, cmd.ErrOrStderr(), logger)
		n, err := e.RunFile(cmd.Context(), evaluateFlags.input, evaluateFlags.output)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d eval generations to %s\n", n, evaluateFlags.output)
		return nil
	},
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVar(&evaluateFlags.input, "input", "", "JSONL with analysis and optional reference_sheet")
	f.StringVar(&evaluateFlags.output, "output", "", "Where to write generated outputs JSONL")
	f.BoolVar(&evaluateFlags.resume, "resume", false, "Append to output and skip analyses recorded in the checkpoint")
	f.StringVar(&evaluateFlags.checkpoint, "checkpoint", "", "Checkpoint database path (default <output>.checkpoint.db)")
	f.BoolVar(&evaluateFlags.mock, "mock", false, "Use the canned local model instead of the server")

	_ = evaluateCmd.MarkFlagRequired("input")
	_ = evaluateCmd.MarkFlagRequired("output")
}
