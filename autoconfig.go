// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
)

// Names of the initializer components registered by Configure.
const (
	InitializerName       = "sqlInitializer"
	SchemaInitializerName = "sqlInitializerSchema"
	DataInitializerName   = "sqlInitializerData"
)

// Config holds the options for Configure.
type Config struct {
	// Prefix is the property prefix. Default: "datasource".
	Prefix string

	// Classpath is the filesystem that classpath locations resolve against.
	// Optional - if nil, only file: locations can be found.
	Classpath fs.FS

	// Logger for operational logging. Uses slog.Default() if nil.
	Logger *slog.Logger
}

// defaults returns a copy of cfg with default values applied.
func (cfg Config) defaults() Config {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// ReportEntry is one evaluated step of Configure.
type ReportEntry struct {
	Step    string
	Outcome Outcome
}

// Report records every condition Configure evaluated and the components it
// registered.
type Report struct {
	Entries    []ReportEntry
	Registered []string
	// Target is the connection target initialization was configured for.
	Target string
}

func (r *Report) record(step string, o Outcome) bool {
	r.Entries = append(r.Entries, ReportEntry{Step: step, Outcome: o})
	return o.Match
}

// Outcome returns the outcome recorded for step.
func (r *Report) Outcome(step string) (Outcome, bool) {
	for _, e := range r.Entries {
		if e.Step == step {
			return e.Outcome, true
		}
	}
	return Outcome{}, false
}

func (r *Report) String() string {
	var sb strings.Builder
	for _, e := range r.Entries {
		verdict := "no match"
		if e.Outcome.Match {
			verdict = "match"
		}
		fmt.Fprintf(&sb, "%-22s %-8s %s\n", e.Step, verdict, e.Outcome.Message)
	}
	if len(r.Registered) == 0 {
		sb.WriteString("no initializers registered\n")
	} else {
		fmt.Fprintf(&sb, "registered %s for %s\n", strings.Join(r.Registered, ", "), r.Target)
	}
	return sb.String()
}

// Report steps.
const (
	StepEnabled              = "enabled"
	StepMissingInitializer   = "missing-initializer"
	StepPool                 = "single-pool"
	StepDataSource           = "single-datasource"
	StepDifferentCredentials = "different-credentials"
	StepSharedCredentials    = "shared-credentials"
)

// Configure decides whether script initialization applies to the registered
// datastore and registers the initializer components that carry it out.
//
// A pool target takes precedence over a database/sql target. When a
// schema-username or data-username is configured, two initializers are
// registered and the data step depends on the schema step. Otherwise, when
// any initialization property is configured, a single initializer runs
// schema then data scripts.
func Configure(env *Environment, reg *Registry, cfg Config) (*Report, error) {
	cfg = cfg.defaults()
	report := &Report{}
	cctx := &ConditionContext{Env: env, Registry: reg}
	key := func(k string) string { return qualify(cfg.Prefix, k) }

	if !report.record(StepEnabled, OnPropertyValue(key(KeyEnabled), "true", true)(cctx)) {
		return report, nil
	}
	if !report.record(StepMissingInitializer, OnMissingComponent(KindInitializer)(cctx)) {
		return report, nil
	}

	var base Target
	if report.record(StepPool, OnSingleCandidate(KindPool)(cctx)) {
		c, _ := reg.SingleCandidate(KindPool)
		base = c.Value.(Target)
	} else if report.record(StepDataSource, OnSingleCandidate(KindDataSource)(cctx)) {
		c, _ := reg.SingleCandidate(KindDataSource)
		base = c.Value.(Target)
	} else {
		return report, nil
	}
	report.Target = base.String()

	props, err := BindProperties(env, cfg.Prefix)
	if err != nil {
		return report, fmt.Errorf("configure: %w", err)
	}
	mode, err := ParseMode(props.Mode)
	if err != nil {
		return report, fmt.Errorf("configure: %w", err)
	}
	loader := ResourceLoader{Classpath: cfg.Classpath}
	schema := ScriptLocations(props.Schema, "schema", props.Platform)
	data := ScriptLocations(props.Data, "data", props.Platform)

	newInitializer := func(username, password string, schema, data []string) (*Initializer, error) {
		target, err := ResolveTarget(base, username, password)
		if err != nil {
			return nil, err
		}
		settings, err := NewSettings(SettingsSpec{
			SchemaLocations: schema,
			DataLocations:   data,
			ContinueOnError: props.ContinueOnError,
			Separator:       props.Separator,
			Encoding:        props.Encoding,
		})
		if err != nil {
			return nil, err
		}
		return NewInitializer(target, settings, mode, loader, cfg.Logger), nil
	}

	if report.record(StepDifferentCredentials, DifferentCredentialsCondition(cfg.Prefix)(cctx)) {
		ddl, err := newInitializer(props.SchemaUsername, props.SchemaPassword, schema, nil)
		if err != nil {
			return report, fmt.Errorf("configure %s: %w", SchemaInitializerName, err)
		}
		dml, err := newInitializer(props.DataUsername, props.DataPassword, nil, data)
		if err != nil {
			return report, fmt.Errorf("configure %s: %w", DataInitializerName, err)
		}
		for _, name := range []string{SchemaInitializerName, DataInitializerName} {
			if c, ok := reg.Lookup(name); ok {
				return report, fmt.Errorf("configure: %s is already registered as a %s", name, c.Kind)
			}
		}
		if err := reg.RegisterInitializer(SchemaInitializerName, ddl); err != nil {
			return report, fmt.Errorf("configure: %w", err)
		}
		if err := reg.RegisterInitializer(DataInitializerName, dml, SchemaInitializerName); err != nil {
			return report, fmt.Errorf("configure: %w", err)
		}
		report.Registered = append(report.Registered, SchemaInitializerName, DataInitializerName)
		cfg.Logger.Debug("configured sql initialization", "target", report.Target, "mode", mode.String(), "initializers", report.Registered)
		return report, nil
	}

	if report.record(StepSharedCredentials, SharedCredentialsCondition(cfg.Prefix)(cctx)) {
		shared, err := newInitializer(props.Username, props.Password, schema, data)
		if err != nil {
			return report, fmt.Errorf("configure %s: %w", InitializerName, err)
		}
		if err := reg.RegisterInitializer(InitializerName, shared); err != nil {
			return report, fmt.Errorf("configure: %w", err)
		}
		report.Registered = append(report.Registered, InitializerName)
		cfg.Logger.Debug("configured sql initialization", "target", report.Target, "mode", mode.String(), "initializers", report.Registered)
	}
	return report, nil
}
