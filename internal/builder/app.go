package builder

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futig/consult-assistant/internal/theme"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App represents the application with all its components
type App struct {
	server *http.Server
	db     *pgxpool.Pool
	sqlDB  *sql.DB
	redis  *redis.Client
	themes *theme.Tracker
	logger *zap.Logger
}

// Run starts the HTTP server and blocks until a shutdown signal or server error
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.close()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.close()
	a.logger.Info("Application stopped gracefully")
	return nil
}

// close releases every backend connection that was opened
func (a *App) close() {
	if a.themes != nil {
		a.themes.Stop()
	}
	if a.redis != nil {
		a.logger.Info("Closing key-value connections")
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close key-value client", zap.Error(err))
		}
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
	if a.db != nil {
		a.logger.Info("Closing database connections")
		a.db.Close()
	}
	_ = a.logger.Sync()
}
