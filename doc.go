// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package sqlinit initializes a relational datastore's schema and data from
// SQL scripts when an application starts.
//
// Configure inspects the application's properties and its component
// registry and decides whether to register initializers:
//   - nothing, when initialization is disabled, an initializer is already
//     registered, no datastore is registered, or no property is configured
//   - one initializer running schema then data scripts, when any
//     initialization property is configured
//   - two initializers, schema (DDL) then data (DML), when a schema-username
//     or data-username is configured
//
// A registered pgx pool takes precedence over a database/sql datastore.
// Startup then runs the registered initializers in dependency order.
//
// # Basic Usage
//
//	env, err := sqlinit.NewEnvironment(
//	    sqlinit.FromYAMLFile("app.yaml"),
//	    sqlinit.FromEnv("APP_"),
//	)
//	reg := sqlinit.NewRegistry()
//	target, err := sqlinit.NewSQLiteTarget(":memory:")
//	err = reg.RegisterDataSource("dataSource", target)
//	report, err := sqlinit.Configure(env, reg, sqlinit.Config{Classpath: scriptsFS})
//	err = sqlinit.Startup(ctx, reg, logger)
//
// # Script Locations
//
// Without explicit locations, the initializer looks for the optional
// scripts schema-{platform}.sql and schema.sql (and likewise data) in the
// classpath filesystem. Platform defaults to "all".
//
// # Modes
//
// The initialization-mode property controls execution: "always" runs the
// scripts, "embedded" runs them only against an in-process datastore such as
// sqlite, "never" and an unset mode skip them.
//
// # Driver Support
//
// Applications register their database/sql drivers. NewSQLiteTarget uses the
// sqlite driver selected by build tags:
//   - modernc.org/sqlite (default, pure Go, no CGO)
//   - github.com/mattn/go-sqlite3 (CGO, use -tags mattn)
package sqlinit
