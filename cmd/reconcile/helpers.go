package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	clientapi "github.com/expense-ledger/internal/client/api"
	"github.com/expense-ledger/internal/client/query"
	"github.com/expense-ledger/internal/client/reconcile"
	"github.com/expense-ledger/internal/client/session"
	"github.com/expense-ledger/internal/client/upload"
)

// app bundles everything a command needs: the session, the API client, the
// query cache and the mutation surfaces built on top of them.
type app struct {
	logger     *slog.Logger
	session    *session.Session
	client     *clientapi.Client
	cache      *query.Cache
	dispatcher *reconcile.Dispatcher
	uploader   *upload.Pipeline
}

func newApp() (*app, error) {
	logger := newLogger()

	sessionPath := viper.GetString("session.path")
	if sessionPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		sessionPath = filepath.Join(home, ".config", "expense-ledger", "session.json")
	}

	sess, err := session.Load(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	client := clientapi.NewClient(viper.GetString("server.url"), sess, logger)
	cache := query.NewCache(logger)

	return &app{
		logger:     logger,
		session:    sess,
		client:     client,
		cache:      cache,
		dispatcher: reconcile.NewDispatcher(client, cache, logger),
		uploader:   upload.NewPipeline(client, cache, logger),
	}, nil
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch viper.GetString("logging.level") {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// requireLogin refuses to run a command without a verified session.
func (a *app) requireLogin() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in; run 'ledger login' first")
	}
	return nil
}

// formatValue renders minor units as a currency amount. Expenses are shown
// negative.
func formatValue(value int64, entryType string) string {
	sign := ""
	if entryType == "EXPENSE" {
		sign = "-"
	}
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
}
