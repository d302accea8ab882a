package training

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/pkg/prompt"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
)

// Generator produces a reference sheet from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*entity.Generation, error)
}

// EvalRecord is one line of the generations file.
type EvalRecord struct {
	Analysis                string `json:"analysis"`
	GoldReferenceSheet      any    `json:"gold_reference_sheet"`
	GeneratedReferenceSheet string `json:"generated_reference_sheet"`
	ModelUsed               string `json:"model_used"`
}

// Evaluator runs held-out analyses through a generator.
type Evaluator struct {
	generator  Generator
	checkpoint *Checkpoint
	progress   io.Writer
	logger     *zap.Logger
}

// NewEvaluator builds an evaluator. checkpoint may be nil; progress nil
// disables the progress bar.
func NewEvaluator(generator Generator, checkpoint *Checkpoint, progress io.Writer, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		generator:  generator,
		checkpoint: checkpoint,
		progress:   progress,
		logger:     logger,
	}
}

// RunFile generates for every analysis in inputPath and writes records to
// outputPath. With a checkpoint the output is appended and analyses already
// recorded are skipped. It returns how many records this run wrote.
func (e *Evaluator) RunFile(ctx context.Context, inputPath, outputPath string) (int, error) {
	total, err := countLines(inputPath)
	if err != nil {
		return 0, err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if e.checkpoint != nil {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	out, err := os.OpenFile(outputPath, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	return e.Run(ctx, in, out, total)
}

// Run is RunFile over streams; total sizes the progress bar.
func (e *Evaluator) Run(ctx context.Context, r io.Reader, w io.Writer, total int) (int, error) {
	bar, wait := e.newBar(total)
	defer wait()

	enc := newEncoder(w)
	count := 0

	err := forEachLine(r, func(lineNo int, line string) error {
		defer bar.Increment()

		if err := ctx.Err(); err != nil {
			return err
		}

		var row RawExample
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return fmt.Errorf("line %d: %w: %w", lineNo, ErrInvalidLine, err)
		}
		analysis := strings.TrimSpace(row.Analysis)
		if analysis == "" {
			return nil
		}

		if e.checkpoint != nil {
			done, err := e.checkpoint.Done(analysis)
			if err != nil {
				return fmt.Errorf("read checkpoint: %w", err)
			}
			if done {
				e.logger.Debug("skipping generated analysis", zap.Int("line_no", lineNo))
				return nil
			}
		}

		gen, err := e.generator.Generate(ctx, prompt.Evaluation(analysis))
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		record := EvalRecord{
			Analysis:                analysis,
			GoldReferenceSheet:      row.ReferenceSheet,
			GeneratedReferenceSheet: gen.Text,
			ModelUsed:               gen.ModelUsed,
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("write record for line %d: %w", lineNo, err)
		}

		if e.checkpoint != nil {
			if err := e.checkpoint.MarkDone(analysis); err != nil {
				return fmt.Errorf("update checkpoint: %w", err)
			}
		}

		count++
		e.logger.Debug("generated reference sheet",
			zap.Int("line_no", lineNo),
			zap.String("model_used", gen.ModelUsed),
		)
		return nil
	})

	return count, err
}

type incrementer interface {
	Increment()
}

type noBar struct{}

func (noBar) Increment() {}

// newBar starts the progress bar. wait completes the bar and blocks until
// it is rendered.
func (e *Evaluator) newBar(total int) (incrementer, func()) {
	if e.progress == nil {
		return noBar{}, func() {}
	}

	p := mpb.New(mpb.WithOutput(e.progress), mpb.WithWidth(60))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Generating: "),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)

	return bar, func() {
		bar.SetTotal(-1, true)
		p.Wait()
	}
}

// countLines counts the non-blank lines of path.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	n := 0
	err = forEachLine(bufio.NewReader(f), func(int, string) error {
		n++
		return nil
	})
	return n, err
}
