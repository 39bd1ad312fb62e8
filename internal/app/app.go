// Package app wires the application together: config, lock file, storage,
// store, notifications, and the reminder scanner.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/dori/zenith/internal/config"
	"github.com/dori/zenith/internal/notify"
	"github.com/dori/zenith/internal/reminder"
	"github.com/dori/zenith/internal/storage"
	"github.com/dori/zenith/internal/store"
)

// App holds the application state and dependencies
type App struct {
	Config   config.Config
	Store    *store.Store
	Notifier *notify.Desktop
	Scanner  *reminder.Scanner
	Logger   *log.Logger

	kv          *storage.SQLite
	lockFile    *flock.Flock
	logFile     *os.File
	stopScanner context.CancelFunc
}

// New creates a new application instance from the config at cfgPath
// (the default location when empty).
func New(cfgPath string) (*App, error) {
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{Config: cfg}

	// Log to a file; writing to stderr would corrupt the TUI
	logPath := filepath.Join(cfg.DataDir, "zenith.log")
	a.logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		a.Logger = log.New(os.Stderr)
	} else {
		a.Logger = log.New(a.logFile)
	}

	// Single instance only: the kv writes assume one process
	if err := a.acquireLock(); err != nil {
		a.closeLog()
		return nil, err
	}

	a.kv, err = storage.Open(cfg.DBPath)
	if err != nil {
		a.releaseLock()
		a.closeLog()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a.Store = store.New(a.kv, a.Logger)
	if err := a.Store.Load(); err != nil {
		a.kv.Close()
		a.releaseLock()
		a.closeLog()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	a.Notifier = notify.NewDesktop()
	if !cfg.Notifications {
		a.Notifier.Deny()
	}

	a.Scanner = reminder.New(a.Store, a.Notifier, a.Logger,
		reminder.WithInterval(cfg.PollInterval()))

	return a, nil
}

// StartScanner launches the reminder scanner in the background. It stops
// when Close runs.
func (a *App) StartScanner() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopScanner = cancel
	go a.Scanner.Run(ctx)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "zenith.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance of zenith is already running")
	}
	return nil
}

func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.stopScanner != nil {
		a.stopScanner()
	}

	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}

	a.releaseLock()
	a.closeLog()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
