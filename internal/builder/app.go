package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const minShutdownTimeout = 30 * time.Second

// App is the HTTP service with its optional history pool.
type App struct {
	server *http.Server
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Run serves until SIGINT/SIGTERM or a listener error, then shuts down.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.serve(ctx, a.server.ListenAndServe)
}

func (a *App) serve(ctx context.Context, listen func() error) error {
	defer a.closeDB()

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		return err
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}

	// In-flight analyses get at least the write timeout to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), max(a.server.WriteTimeout, minShutdownTimeout))
	defer cancel()

	a.logger.Info("Shutting down server gracefully")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}

func (a *App) closeDB() {
	if a.db != nil {
		a.logger.Info("Closing database connections")
		a.db.Close()
	}
}
