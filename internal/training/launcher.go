package training

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

var ErrNoTrainerCommand = errors.New("trainer command is empty")

// Launcher runs the external trainer on a manifest.
type Launcher struct {
	command []string
	logger  *zap.Logger
}

// NewLauncher takes the trainer argv; the manifest path is appended to it.
func NewLauncher(command []string, logger *zap.Logger) *Launcher {
	return &Launcher{command: command, logger: logger}
}

// Run starts the trainer and streams its output to the log line by line.
// It returns when the process exits or ctx is cancelled.
func (l *Launcher) Run(ctx context.Context, manifestPath string) error {
	if len(l.command) == 0 {
		return ErrNoTrainerCommand
	}

	args := append(append([]string{}, l.command[1:]...), manifestPath)
	cmd := exec.CommandContext(ctx, l.command[0], args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	l.logger.Info("starting trainer",
		zap.String("command", l.command[0]),
		zap.Strings("args", args),
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start trainer: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go l.stream(&wg, stdout, "stdout")
	go l.stream(&wg, stderr, "stderr")
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("trainer failed: %w", err)
	}

	l.logger.Info("trainer finished")
	return nil
}

func (l *Launcher) stream(wg *sync.WaitGroup, r io.Reader, name string) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		l.logger.Info("trainer output",
			zap.String("stream", name),
			zap.String("line", scanner.Text()),
		)
	}
	if err := scanner.Err(); err != nil {
		l.logger.Warn("trainer output read failed", zap.String("stream", name), zap.Error(err))
	}
}
