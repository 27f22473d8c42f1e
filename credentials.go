// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// ResolveTarget returns the target an initializer should use.
// When both username and password are non-empty it returns a copy of base
// carrying those credentials; otherwise base is returned unchanged.
func ResolveTarget(base Target, username, password string) (Target, error) {
	if username == "" || password == "" {
		return base, nil
	}
	derived, err := base.WithCredentials(username, password)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", base, err)
	}
	return derived, nil
}

// deriveDSN rewrites dsn for driver with the given credentials.
func deriveDSN(driver, dsn, username, password string) (string, error) {
	switch driver {
	case "mysql":
		return deriveMySQL(dsn, username, password)
	case "pgx":
		return derivePgx(dsn, username, password)
	case "postgres":
		return derivePostgres(dsn, username, password)
	case "sqlite", "sqlite3":
		// sqlite has no notion of credentials
		return dsn, nil
	}
	return "", fmt.Errorf("cannot derive credentials for driver %q", driver)
}

func deriveMySQL(dsn, username, password string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.User = username
	cfg.Passwd = password
	return cfg.FormatDSN(), nil
}

func derivePgx(dsn, username, password string) (string, error) {
	var derived string
	if isPostgresURL(dsn) {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
		u.User = url.UserPassword(username, password)
		derived = u.String()
	} else {
		derived = appendKeywords(dsn, username, password)
	}
	if _, err := pgx.ParseConfig(derived); err != nil {
		return "", fmt.Errorf("parse pgx dsn: %w", err)
	}
	return derived, nil
}

func derivePostgres(dsn, username, password string) (string, error) {
	if isPostgresURL(dsn) {
		kv, err := pq.ParseURL(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
		dsn = kv
	}
	derived := appendKeywords(dsn, username, password)
	if _, err := pq.NewConnector(derived); err != nil {
		return "", fmt.Errorf("parse postgres dsn: %w", err)
	}
	return derived, nil
}

func isPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// appendKeywords adds user and password to a keyword/value connection
// string. Later keywords override earlier ones in both pgx and lib/pq.
func appendKeywords(dsn, username, password string) string {
	quote := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	kv := "user='" + quote.Replace(username) + "' password='" + quote.Replace(password) + "'"
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return kv
	}
	return dsn + " " + kv
}
