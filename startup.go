// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrDependencyCycle is returned when initializers depend on each other.
var ErrDependencyCycle = errors.New("initializer dependency cycle")

// InitializationOrder returns the registered initializers ordered so that
// every component follows the components it depends on. Components with no
// ordering constraint between them keep their registration order.
func InitializationOrder(reg *Registry) ([]Component, error) {
	inits := reg.OfKind(KindInitializer)
	index := make(map[string]int, len(inits))
	for i, c := range inits {
		index[c.Name] = i
	}

	pending := make([]int, len(inits))
	dependents := make([][]int, len(inits))
	for i, c := range inits {
		for _, dep := range c.DependsOn {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("%s depends on unknown initializer %q", c.Name, dep)
			}
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	done := make([]bool, len(inits))
	order := make([]Component, 0, len(inits))
	for len(order) < len(inits) {
		next := -1
		for i := range inits {
			if !done[i] && pending[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i, c := range inits {
				if !done[i] {
					stuck = append(stuck, c.Name)
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(stuck, ", "))
		}
		done[next] = true
		order = append(order, inits[next])
		for _, d := range dependents[next] {
			pending[d]--
		}
	}
	return order, nil
}

// Startup runs every registered initializer in dependency order and stops
// at the first failure.
func Startup(ctx context.Context, reg *Registry, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	order, err := InitializationOrder(reg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	for _, c := range order {
		started := time.Now()
		ran, err := c.Value.(DatabaseInitializer).InitializeDatabase(ctx)
		if err != nil {
			return fmt.Errorf("startup: %s: %w", c.Name, err)
		}
		logger.Info("initializer finished", "name", c.Name, "ran", ran, "duration", time.Since(started))
	}
	return nil
}
