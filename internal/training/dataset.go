package training

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/futig/practice-analyzer/internal/pkg/prompt"
)

var (
	ErrInvalidLine  = errors.New("invalid JSON line")
	ErrMissingText  = errors.New("training line has no text")
	ErrNoExamples   = errors.New("training file has no examples")
	ErrInvalidInput = errors.New("invalid input")
)

// RawExample is one line of the collected analysis/sheet pairs.
type RawExample struct {
	Analysis       string `json:"analysis"`
	ReferenceSheet any    `json:"reference_sheet"`
	Event          any    `json:"event"`
	Division       any    `json:"division"`
	Source         any    `json:"source"`
}

// Sample is one supervised fine-tuning example.
type Sample struct {
	Text string     `json:"text"`
	Meta SampleMeta `json:"meta"`
}

type SampleMeta struct {
	Event    any `json:"event"`
	Division any `json:"division"`
	Source   any `json:"source"`
	LineNo   int `json:"line_no"`
}

// sheetText returns the reference sheet when it is a string.
func (r RawExample) sheetText() string {
	s, _ := r.ReferenceSheet.(string)
	return strings.TrimSpace(s)
}

// forEachLine calls fn for every non-blank line with its 1-based physical
// line number. Lines of any length are accepted.
func forEachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				if ferr := fn(lineNo, trimmed); ferr != nil {
					return ferr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line %d: %w", lineNo+1, err)
		}
	}
}

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// Prepare converts raw pairs into instruction-formatted samples and returns
// how many were written. Lines missing either side are skipped.
func Prepare(r io.Reader, w io.Writer) (int, error) {
	enc := newEncoder(w)
	written := 0

	err := forEachLine(r, func(lineNo int, line string) error {
		var row RawExample
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return fmt.Errorf("line %d: %w: %w", lineNo, ErrInvalidLine, err)
		}

		analysis := strings.TrimSpace(row.Analysis)
		sheet := row.sheetText()
		if analysis == "" || sheet == "" {
			return nil
		}

		sample := Sample{
			Text: prompt.Instruction(prompt.ReferenceSheet(analysis), sheet),
			Meta: SampleMeta{
				Event:    row.Event,
				Division: row.Division,
				Source:   row.Source,
				LineNo:   lineNo,
			},
		}
		if err := enc.Encode(sample); err != nil {
			return fmt.Errorf("write sample for line %d: %w", lineNo, err)
		}
		written++
		return nil
	})

	return written, err
}

// PrepareFile runs Prepare from inputPath into a newly created outputPath.
func PrepareFile(inputPath, outputPath string) (int, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	bw := bufio.NewWriter(out)
	n, err := Prepare(in, bw)
	if err != nil {
		out.Close()
		return n, err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return n, fmt.Errorf("flush output: %w", err)
	}
	return n, out.Close()
}

// ValidateTrainingFile checks that every non-blank line of path is a JSON
// object with a non-empty text field and returns the number of examples.
func ValidateTrainingFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	count := 0
	err = forEachLine(f, func(lineNo int, line string) error {
		var row struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return fmt.Errorf("%s line %d: %w: %w", path, lineNo, ErrInvalidLine, err)
		}
		if strings.TrimSpace(row.Text) == "" {
			return fmt.Errorf("%s line %d: %w", path, lineNo, ErrMissingText)
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	if count == 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrNoExamples)
	}
	return count, nil
}
