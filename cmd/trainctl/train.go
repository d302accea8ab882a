package main

import (
	"fmt"

	"github.com/futig/practice-analyzer/internal/training"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	trainOpts = training.DefaultTrainOptions()
	dryRun    bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Write an adapter job manifest and run the external trainer",
	Long: `Validates the training files, writes adapter_job.yaml into the output
directory, then runs TRAINER_COMMAND with the manifest path appended.

Example:
  trainctl train --base-model mistralai/Mistral-7B-Instruct-v0.3 \
    --train-file data/train.jsonl --output-dir adapters/sheet-lora`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trainOpts.Validate(); err != nil {
			return err
		}

		n, err := training.ValidateTrainingFile(trainOpts.TrainFile)
		if err != nil {
			return err
		}
		logger.Info("training file validated", zap.Int("examples", n))

		if trainOpts.EvalFile != "" {
			n, err := training.ValidateTrainingFile(trainOpts.EvalFile)
			if err != nil {
				return err
			}
			logger.Info("eval file validated", zap.Int("examples", n))
		}

		path, err := training.WriteManifest(trainOpts.OutputDir, training.NewManifest(trainOpts))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote adapter job manifest to %s\n", path)

		if dryRun {
			return nil
		}

		return training.NewLauncher(cfg.TrainerCommand, logger).Run(cmd.Context(), path)
	},
}

func init() {
	f := trainCmd.Flags()
	f.StringVar(&trainOpts.BaseModel, "base-model", "", "Base model id or path, e.g. mistralai/Mistral-7B-Instruct-v0.3")
	f.StringVar(&trainOpts.TrainFile, "train-file", "", "Prepared training JSONL with a text field")
	f.StringVar(&trainOpts.OutputDir, "output-dir", "", "Where the trainer saves adapter checkpoints")
	f.StringVar(&trainOpts.EvalFile, "eval-file", "", "Optional eval JSONL in the same format")
	f.Float64Var(&trainOpts.NumEpochs, "num-epochs", trainOpts.NumEpochs, "Training epochs")
	f.Float64Var(&trainOpts.LearningRate, "learning-rate", trainOpts.LearningRate, "Learning rate")
	f.IntVar(&trainOpts.BatchSize, "batch-size", trainOpts.BatchSize, "Per-device train batch size")
	f.IntVar(&trainOpts.GradAccum, "grad-accum", trainOpts.GradAccum, "Gradient accumulation steps")
	f.IntVar(&trainOpts.MaxSeqLen, "max-seq-len", trainOpts.MaxSeqLen, "Maximum sequence length")
	f.IntVar(&trainOpts.LoraR, "lora-r", trainOpts.LoraR, "LoRA rank")
	f.IntVar(&trainOpts.LoraAlpha, "lora-alpha", trainOpts.LoraAlpha, "LoRA alpha")
	f.Float64Var(&trainOpts.LoraDropout, "lora-dropout", trainOpts.LoraDropout, "LoRA dropout")
	f.IntVar(&trainOpts.SaveSteps, "save-steps", trainOpts.SaveSteps, "Checkpoint every N steps")
	f.IntVar(&trainOpts.LoggingSteps, "logging-steps", trainOpts.LoggingSteps, "Log every N steps")
	f.BoolVar(&dryRun, "dry-run", false, "Stop after writing the manifest")

	_ = trainCmd.MarkFlagRequired("base-model")
	_ = trainCmd.MarkFlagRequired("train-file")
	_ = trainCmd.MarkFlagRequired("output-dir")
}
