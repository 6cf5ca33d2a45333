package store

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

type retrying struct {
	next Store
	cfg  RetryConfig
}

// NewRetrying envolve o Store com novas tentativas exponenciais.
// Registro inexistente, cancelamento e ErrInvalid não são repetidos.
func NewRetrying(next Store, cfg RetryConfig) Store {
	return &retrying{next: next, cfg: cfg}
}

func (r *retrying) Get(ctx context.Context, collection Collection, id string) (Record, error) {
	var record Record
	err := r.do(ctx, "get", collection, func() error {
		var err error
		record, err = r.next.Get(ctx, collection, id)
		return err
	})
	return record, err
}

func (r *retrying) Put(ctx context.Context, collection Collection, id string, record Record) error {
	return r.do(ctx, "put", collection, func() error {
		return r.next.Put(ctx, collection, id, record)
	})
}

func (r *retrying) Update(ctx context.Context, collection Collection, id string, fields Record) error {
	return r.do(ctx, "update", collection, func() error {
		return r.next.Update(ctx, collection, id, fields)
	})
}

func (r *retrying) Scan(ctx context.Context, collection Collection) ([]Record, error) {
	var records []Record
	err := r.do(ctx, "scan", collection, func() error {
		var err error
		records, err = r.next.Scan(ctx, collection)
		return err
	})
	return records, err
}

func (r *retrying) Query(ctx context.Context, collection Collection, filters []Filter) ([]Record, error) {
	var records []Record
	err := r.do(ctx, "query", collection, func() error {
		var err error
		records, err = r.next.Query(ctx, collection, filters)
		return err
	})
	return records, err
}

func (r *retrying) do(ctx context.Context, op string, collection Collection, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	if r.cfg.InitialInterval > 0 {
		b.InitialInterval = r.cfg.InitialInterval
	}
	if r.cfg.MaxInterval > 0 {
		b.MaxInterval = r.cfg.MaxInterval
	}
	if r.cfg.MaxElapsedTime > 0 {
		b.MaxElapsedTime = r.cfg.MaxElapsedTime
	}

	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		switch Classify(err) {
		case StatusNotFound, StatusCancelled:
			return backoff.Permanent(err)
		}
		if errors.Is(err, ErrInvalid) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logrus.WithError(err).WithFields(logrus.Fields{
			"operation":  op,
			"collection": collection,
			"retry_in":   wait.String(),
		}).Warn("store: falha na operação, tentando novamente")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return ErrCancelled
	}
	return err
}
