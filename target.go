// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Target is a handle to the datastore an initializer runs scripts against.
type Target interface {
	// Embedded reports whether the datastore runs in-process.
	Embedded() bool

	// WithCredentials returns a copy of the target that connects with the
	// given username and password. A malformed target is an error.
	WithCredentials(username, password string) (Target, error)

	// Connect opens a session for executing statements.
	Connect(ctx context.Context) (Session, error)

	String() string
}

// Session executes statements against an open connection.
type Session interface {
	Exec(ctx context.Context, stmt string) error
	Close() error
}

// SQLTarget is a database/sql target identified by driver name and DSN.
// The driver must be registered with database/sql by the application.
type SQLTarget struct {
	Driver string
	DSN    string
}

// Embedded returns true for in-memory sqlite databases. A file-backed
// sqlite database persists across restarts and is treated like a server.
func (t SQLTarget) Embedded() bool {
	switch t.Driver {
	case "sqlite", "sqlite3":
		return isMemoryDSN(t.DSN)
	}
	return false
}

// isMemoryDSN reports whether a sqlite DSN names an in-memory database.
func isMemoryDSN(dsn string) bool {
	if strings.Contains(dsn, ":memory:") {
		return true
	}
	_, query, _ := strings.Cut(dsn, "?")
	for _, param := range strings.Split(query, "&") {
		if param == "mode=memory" {
			return true
		}
	}
	return false
}

func (t SQLTarget) WithCredentials(username, password string) (Target, error) {
	dsn, err := deriveDSN(t.Driver, t.DSN, username, password)
	if err != nil {
		return nil, err
	}
	return SQLTarget{Driver: t.Driver, DSN: dsn}, nil
}

// Connect opens the database and pins a single connection so that
// session state (temp tables, pragmas) survives across statements.
func (t SQLTarget) Connect(ctx context.Context) (Session, error) {
	db, err := sql.Open(t.Driver, t.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("conn: %w", err)
	}
	return &sqlSession{db: db, conn: conn}, nil
}

// String identifies the target without leaking credentials.
func (t SQLTarget) String() string {
	return t.Driver + ":" + redact(t.Driver, t.DSN)
}

type sqlSession struct {
	db   *sql.DB
	conn *sql.Conn
}

func (s *sqlSession) Exec(ctx context.Context, stmt string) error {
	_, err := s.conn.ExecContext(ctx, stmt)
	return err
}

func (s *sqlSession) Close() error {
	connErr := s.conn.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return connErr
}

// redact masks the password in a DSN.
func redact(driver, dsn string) string {
	if driver == "mysql" {
		if cfg, err := mysql.ParseDSN(dsn); err == nil {
			if cfg.Passwd != "" {
				cfg.Passwd = "xxxxx"
			}
			return cfg.FormatDSN()
		}
	}
	if scheme, rest, ok := strings.Cut(dsn, "://"); ok {
		end := strings.IndexAny(rest, "/?")
		if end < 0 {
			end = len(rest)
		}
		at := strings.LastIndex(rest[:end], "@")
		if at < 0 {
			return dsn
		}
		user, _, hasPassword := strings.Cut(rest[:at], ":")
		if !hasPassword {
			return dsn
		}
		return scheme + "://" + user + ":xxxxx" + rest[at:]
	}
	if i := strings.Index(dsn, "password="); i >= 0 {
		rest := dsn[i+len("password="):]
		end := len(rest)
		if strings.HasPrefix(rest, "'") {
			for k := 1; k < len(rest); k++ {
				if rest[k] == '\\' {
					k++
					continue
				}
				if rest[k] == '\'' {
					end = k + 1
					break
				}
			}
		} else if k := strings.IndexAny(rest, " &"); k >= 0 {
			end = k
		}
		return dsn[:i] + "password=xxxxx" + rest[end:]
	}
	return dsn
}
