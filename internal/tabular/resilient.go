package tabular

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Resilient wraps a Backend with the failure-handling policy the rest of
// the process relies on:
//
//   - retryable errors (quota, transient unavailability) are retried with
//     exponential backoff and surfaced to the caller once retries are
//     exhausted;
//   - ReadRows results are cached for a short TTL so dashboard reads do not
//     hammer the spreadsheet quota;
//   - when the backend is unavailable, reads fall back to the last good
//     result (logged as degraded); writes always surface the error.
//
// Column listings are deliberately not cached: the schema reconciler must
// see the live header immediately before appending columns.
type Resilient struct {
	inner      Backend
	cache      *gocache.Cache
	ttl        time.Duration
	maxRetries uint64
	log        *logrus.Logger
	newBackOff func() backoff.BackOff
}

func NewResilient(inner Backend, ttl time.Duration, maxRetries uint64, log *logrus.Logger) *Resilient {
	return &Resilient{
		inner:      inner,
		cache:      gocache.New(ttl, 2*ttl),
		ttl:        ttl,
		maxRetries: maxRetries,
		log:        log,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

func (r *Resilient) retry(ctx context.Context, op func() error) error {
	attempt := func() error {
		err := op()
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	return backoff.Retry(attempt, policy)
}

func (r *Resilient) ListTables(ctx context.Context) ([]string, error) {
	var tables []string
	err := r.retry(ctx, func() error {
		var e error
		tables, e = r.inner.ListTables(ctx)
		return e
	})
	return tables, err
}

func (r *Resilient) CreateTable(ctx context.Context, table string, columns []string) error {
	err := r.retry(ctx, func() error {
		return r.inner.CreateTable(ctx, table, columns)
	})
	if err == nil {
		r.invalidate(table)
	}
	return err
}

func (r *Resilient) ListColumns(ctx context.Context, table string) ([]string, error) {
	var columns []string
	err := r.retry(ctx, func() error {
		var e error
		columns, e = r.inner.ListColumns(ctx, table)
		return e
	})
	return columns, err
}

func (r *Resilient) AppendColumns(ctx context.Context, table string, columns []string) error {
	err := r.retry(ctx, func() error {
		return r.inner.AppendColumns(ctx, table, columns)
	})
	if err == nil {
		r.invalidate(table)
	}
	return err
}

func (r *Resilient) AppendRow(ctx context.Context, table string, row Row) error {
	err := r.retry(ctx, func() error {
		return r.inner.AppendRow(ctx, table, row)
	})
	if err == nil {
		r.invalidate(table)
	}
	return err
}

func (r *Resilient) ReadRows(ctx context.Context, table string) ([]Row, error) {
	if cached, ok := r.cache.Get(freshKey(table)); ok {
		return cached.([]Row), nil
	}

	var rows []Row
	err := r.retry(ctx, func() error {
		var e error
		rows, e = r.inner.ReadRows(ctx, table)
		return e
	})
	if err == nil {
		r.cache.Set(freshKey(table), rows, r.ttl)
		r.cache.Set(staleKey(table), rows, gocache.NoExpiration)
		return rows, nil
	}

	// Degraded mode: serve the last good read if the backend is down.
	if IsRetryable(err) {
		if stale, ok := r.cache.Get(staleKey(table)); ok {
			r.log.WithFields(logrus.Fields{
				"table": table,
				"error": err,
			}).Warn("backend unavailable, serving last cached rows")
			return stale.([]Row), nil
		}
	}
	return nil, err
}

func (r *Resilient) invalidate(table string) {
	r.cache.Delete(freshKey(table))
}

func freshKey(table string) string { return "rows:" + table }
func staleKey(table string) string { return "stale:" + table }
