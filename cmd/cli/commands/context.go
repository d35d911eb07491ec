package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/core/services"
	"github.com/jakechorley/rider-rota/pkg/db"
)

// ErrNoDatabase is returned by commands that need stored runs when no databaseURL is configured
var ErrNoDatabase = errors.New("databaseURL is not configured")

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.RunStore
	Logger   *zap.Logger
	Ctx      context.Context
	Env      string

	// NewPublisher builds the spreadsheet publisher. It is only called by commands that
	// publish, so the OAuth flow never runs for local work.
	NewPublisher func() (services.SchedulePublisher, error)

	publisher services.SchedulePublisher
}

// Publisher returns the spreadsheet publisher, creating it on first use
func (a *AppContext) Publisher() (services.SchedulePublisher, error) {
	if a.publisher != nil {
		return a.publisher, nil
	}
	if a.NewPublisher == nil {
		return nil, errors.New("no schedule publisher available")
	}

	publisher, err := a.NewPublisher()
	if err != nil {
		return nil, err
	}
	a.publisher = publisher
	return publisher, nil
}

func (a *AppContext) requireDatabase() (db.RunStore, error) {
	if a.Database == nil {
		return nil, ErrNoDatabase
	}
	return a.Database, nil
}
