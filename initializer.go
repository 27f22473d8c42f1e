// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"context"
	"fmt"
	"log/slog"
)

// DatabaseInitializer prepares a datastore during startup. It reports
// whether any script was executed.
type DatabaseInitializer interface {
	InitializeDatabase(ctx context.Context) (bool, error)
}

// Initializer runs schema scripts and then data scripts against a target.
// Whether the scripts actually execute is decided by its Mode each time
// InitializeDatabase is called.
type Initializer struct {
	target   Target
	settings Settings
	mode     Mode
	loader   ResourceLoader
	logger   *slog.Logger
}

// NewInitializer returns an initializer. A nil logger uses slog.Default().
func NewInitializer(target Target, settings Settings, mode Mode, loader ResourceLoader, logger *slog.Logger) *Initializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Initializer{
		target:   target,
		settings: settings,
		mode:     mode,
		loader:   loader,
		logger:   logger,
	}
}

func (i *Initializer) Target() Target     { return i.target }
func (i *Initializer) Settings() Settings { return i.settings }
func (i *Initializer) Mode() Mode         { return i.mode }

// InitializeDatabase resolves the schema and data locations and runs them.
// Missing required locations are reported even when the mode skips
// execution.
func (i *Initializer) InitializeDatabase(ctx context.Context) (bool, error) {
	schema, err := i.loader.Resolve(i.settings.schemaLocations)
	if err != nil {
		return false, fmt.Errorf("schema: %w", err)
	}
	ranSchema, err := i.apply(ctx, "schema", schema)
	if err != nil {
		return ranSchema, fmt.Errorf("schema: %w", err)
	}

	data, err := i.loader.Resolve(i.settings.dataLocations)
	if err != nil {
		return ranSchema, fmt.Errorf("data: %w", err)
	}
	ranData, err := i.apply(ctx, "data", data)
	if err != nil {
		return ranSchema || ranData, fmt.Errorf("data: %w", err)
	}
	return ranSchema || ranData, nil
}

func (i *Initializer) apply(ctx context.Context, kind string, resources []Resource) (bool, error) {
	if len(resources) == 0 {
		return false, nil
	}
	if !i.mode.shouldRun(i.target.Embedded()) {
		i.logger.Debug("skipping sql scripts", "kind", kind, "mode", i.mode.String(), "target", i.target.String(), "scripts", len(resources))
		return false, nil
	}

	sess, err := i.target.Connect(ctx)
	if err != nil {
		return false, fmt.Errorf("connect %s: %w", i.target, err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			i.logger.Warn("closing session", "target", i.target.String(), "error", err)
		}
	}()

	if err := runScripts(ctx, sess, resources, i.settings, i.logger); err != nil {
		return false, err
	}
	return true, nil
}
