// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"context"
	"fmt"
	"log/slog"
)

// ScriptError reports the statement that stopped a script run.
// Statement is zero when the script could not be parsed.
type ScriptError struct {
	Script    string
	Statement int
	SQL       string
	Err       error
}

func (e *ScriptError) Error() string {
	if e.Statement == 0 {
		return fmt.Sprintf("%s: %v", e.Script, e.Err)
	}
	return fmt.Sprintf("%s: statement #%d failed: %v", e.Script, e.Statement, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// runScripts executes every statement of every resource in order on sess.
//
// With continueOnError a failing statement is logged and skipped;
// otherwise the first failure is returned as a *ScriptError.
func runScripts(ctx context.Context, sess Session, resources []Resource, settings Settings, logger *slog.Logger) error {
	for _, r := range resources {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := r.Read()
		if err != nil {
			return fmt.Errorf("read %s: %w", r, err)
		}
		script, err := settings.decode(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", r, err)
		}

		stmts, err := SplitStatements(script, settings.Separator())
		if err != nil {
			return &ScriptError{Script: r.Name, Err: err}
		}
		logger.Debug("executing sql script", "script", r.Name, "statements", len(stmts))

		failed := 0
		for n, stmt := range stmts {
			if err := sess.Exec(ctx, stmt); err != nil {
				if !settings.ContinueOnError() || ctx.Err() != nil {
					return &ScriptError{Script: r.Name, Statement: n + 1, SQL: stmt, Err: err}
				}
				failed++
				logger.Debug("statement failed, continuing", "script", r.Name, "statement", n+1, "error", err)
			}
		}
		logger.Info("executed sql script", "script", r.Name, "statements", len(stmts), "failed", failed)
	}
	return nil
}
