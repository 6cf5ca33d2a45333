package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
)

const (
	defaultConnectTimeout = 30 * time.Second
	connMaxIdleTime       = 5 * time.Minute
	connMaxLifetime       = 30 * time.Minute
)

type Connection struct {
	*sql.DB
}

// NewConnection abre o pool e espera o banco responder ao ping, com backoff exponencial
// limitado por cfg.ConnectTimeout.
func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = timeout

	attempt := 0
	ping := func() error {
		attempt++
		return db.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		logrus.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait,
		}).Warn("PostgreSQL ainda indisponível, tentando novamente")
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		db.Close()
		return nil, err
	}

	return &Connection{DB: db}, nil
}
