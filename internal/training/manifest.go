package training

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file written into the output directory.
const ManifestName = "adapter_job.yaml"

// TrainOptions are the knobs of one adapter training run.
type TrainOptions struct {
	BaseModel    string
	TrainFile    string
	EvalFile     string
	OutputDir    string
	NumEpochs    float64
	LearningRate float64
	BatchSize    int
	GradAccum    int
	MaxSeqLen    int
	LoraR        int
	LoraAlpha    int
	LoraDropout  float64
	SaveSteps    int
	LoggingSteps int
}

// DefaultTrainOptions returns the defaults of the train command.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		NumEpochs:    2,
		LearningRate: 2e-4,
		BatchSize:    1,
		GradAccum:    16,
		MaxSeqLen:    4096,
		LoraR:        16,
		LoraAlpha:    32,
		LoraDropout:  0.05,
		SaveSteps:    100,
		LoggingSteps: 10,
	}
}

func (o TrainOptions) Validate() error {
	var errs []string
	if strings.TrimSpace(o.BaseModel) == "" {
		errs = append(errs, "base model is required")
	}
	if strings.TrimSpace(o.TrainFile) == "" {
		errs = append(errs, "train file is required")
	}
	if strings.TrimSpace(o.OutputDir) == "" {
		errs = append(errs, "output dir is required")
	}
	if o.NumEpochs <= 0 {
		errs = append(errs, fmt.Sprintf("num epochs must be positive, got %g", o.NumEpochs))
	}
	if o.LearningRate <= 0 {
		errs = append(errs, fmt.Sprintf("learning rate must be positive, got %g", o.LearningRate))
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"batch size", o.BatchSize},
		{"grad accum", o.GradAccum},
		{"max seq len", o.MaxSeqLen},
		{"lora r", o.LoraR},
		{"lora alpha", o.LoraAlpha},
		{"save steps", o.SaveSteps},
		{"logging steps", o.LoggingSteps},
	} {
		if f.v < 1 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got %d", f.name, f.v))
		}
	}
	if o.LoraDropout < 0 || o.LoraDropout >= 1 {
		errs = append(errs, fmt.Sprintf("lora dropout must be in [0, 1), got %g", o.LoraDropout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

// Manifest describes an adapter job for the external trainer.
type Manifest struct {
	BaseModel        string       `yaml:"base_model"`
	TrainFile        string       `yaml:"train_file"`
	EvalFile         string       `yaml:"eval_file,omitempty"`
	DatasetTextField string       `yaml:"dataset_text_field"`
	MaxSeqLength     int          `yaml:"max_seq_length"`
	Lora             LoraConfig   `yaml:"lora"`
	TrainingArgs     TrainingArgs `yaml:"training_args"`
}

type LoraConfig struct {
	R        int     `yaml:"r"`
	Alpha    int     `yaml:"lora_alpha"`
	Dropout  float64 `yaml:"lora_dropout"`
	Bias     string  `yaml:"bias"`
	TaskType string  `yaml:"task_type"`
}

type TrainingArgs struct {
	OutputDir                 string  `yaml:"output_dir"`
	NumTrainEpochs            float64 `yaml:"num_train_epochs"`
	PerDeviceTrainBatchSize   int     `yaml:"per_device_train_batch_size"`
	GradientAccumulationSteps int     `yaml:"gradient_accumulation_steps"`
	LearningRate              float64 `yaml:"learning_rate"`
	LoggingSteps              int     `yaml:"logging_steps"`
	SaveSteps                 int     `yaml:"save_steps"`
	FP16                      bool    `yaml:"fp16"`
	BF16                      bool    `yaml:"bf16"`
	ReportTo                  string  `yaml:"report_to"`
	SaveTotalLimit            int     `yaml:"save_total_limit"`
}

// NewManifest fills the fixed parts of the job around o.
func NewManifest(o TrainOptions) Manifest {
	return Manifest{
		BaseModel:        o.BaseModel,
		TrainFile:        o.TrainFile,
		EvalFile:         o.EvalFile,
		DatasetTextField: "text",
		MaxSeqLength:     o.MaxSeqLen,
		Lora: LoraConfig{
			R:        o.LoraR,
			Alpha:    o.LoraAlpha,
			Dropout:  o.LoraDropout,
			Bias:     "none",
			TaskType: "CAUSAL_LM",
		},
		TrainingArgs: TrainingArgs{
			OutputDir:                 o.OutputDir,
			NumTrainEpochs:            o.NumEpochs,
			PerDeviceTrainBatchSize:   o.BatchSize,
			GradientAccumulationSteps: o.GradAccum,
			LearningRate:              o.LearningRate,
			LoggingSteps:              o.LoggingSteps,
			SaveSteps:                 o.SaveSteps,
			FP16:                      false,
			BF16:                      true,
			ReportTo:                  "none",
			SaveTotalLimit:            3,
		},
	}
}

// WriteManifest writes m into dir, creating dir if needed, and returns the path.
func WriteManifest(dir string, m Manifest) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}
