// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolTarget is a native pgx pool target. When one is registered it takes
// precedence over any database/sql target.
type PoolTarget struct {
	Config *pgxpool.Config
}

// NewPoolTarget parses a PostgreSQL connection string into a PoolTarget.
func NewPoolTarget(connString string) (*PoolTarget, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	return &PoolTarget{Config: cfg}, nil
}

// Embedded is always false; a pool talks to a server.
func (t *PoolTarget) Embedded() bool { return false }

func (t *PoolTarget) WithCredentials(username, password string) (Target, error) {
	if t == nil || t.Config == nil || t.Config.ConnConfig == nil {
		return nil, errors.New("pool target has no config")
	}
	cfg := t.Config.Copy()
	cfg.ConnConfig.User = username
	cfg.ConnConfig.Password = password
	return &PoolTarget{Config: cfg}, nil
}

// Connect opens a pool and acquires one connection from it so that session
// state (search_path, temp tables) survives across statements.
func (t *PoolTarget) Connect(ctx context.Context) (Session, error) {
	if t == nil || t.Config == nil {
		return nil, errors.New("pool target has no config")
	}
	pool, err := pgxpool.NewWithConfig(ctx, t.Config)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	acquire := func(ctx context.Context) (pooledConn, error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	sess, err := openPoolSession(ctx, acquire, pool.Close)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (t *PoolTarget) String() string {
	if t == nil || t.Config == nil || t.Config.ConnConfig == nil {
		return "pgxpool:<nil>"
	}
	cc := t.Config.ConnConfig
	return fmt.Sprintf("pgxpool:%s@%s:%d/%s", cc.User, cc.Host, cc.Port, cc.Database)
}

// pgxExecer is the subset of *pgxpool.Conn used to run statements.
type pgxExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// pooledConn is a connection acquired from a pool.
type pooledConn interface {
	pgxExecer
	Release()
}

// openPoolSession acquires a connection for the session. closePool is
// called when the session closes, or right away when acquiring fails.
func openPoolSession(ctx context.Context, acquire func(context.Context) (pooledConn, error), closePool func()) (*poolSession, error) {
	conn, err := acquire(ctx)
	if err != nil {
		closePool()
		return nil, fmt.Errorf("acquire: %w", err)
	}
	return &poolSession{conn: conn, closePool: closePool}, nil
}

type poolSession struct {
	conn      pooledConn
	closePool func()
}

func (s *poolSession) Exec(ctx context.Context, stmt string) error {
	_, err := s.conn.Exec(ctx, stmt)
	return err
}

// Close releases the connection and then closes the pool.
func (s *poolSession) Close() error {
	s.conn.Release()
	if s.closePool != nil {
		s.closePool()
	}
	return nil
}
