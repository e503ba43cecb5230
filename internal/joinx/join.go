// Package joinx resolves an ordered list of references into the records they
// point to. All lookups run concurrently; the result keeps the order of the
// references, not the order in which lookups finish.
package joinx

import (
	"context"

	"github.com/dmitrijs2005/campushire/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit caps the number of lookups in flight at once.
const DefaultLimit = 20

// FetchFunc looks up a single record. ok=false means the record does not
// exist; a non-nil error means the lookup failed. Either way the record is
// left out of the join.
type FetchFunc[K comparable, V any] func(ctx context.Context, id K) (v V, ok bool, err error)

type config struct {
	limit  int
	logger logging.Logger
}

// Option configures Fetch.
type Option func(*config)

// WithLimit sets the maximum number of concurrent lookups. Values below 1
// fall back to DefaultLimit.
func WithLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger reports dropped records to l.
func WithLogger(l logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

type slot[V any] struct {
	v   V
	ok  bool
	err error
}

// Fetch calls fetchOne for every distinct id and returns the records found,
// in the order their ids first appear in ids. Missing records and failed
// lookups are skipped; they never fail the join.
//
// Fetch returns only after every lookup has finished, unless ctx is done
// first: then it returns ctx.Err() right away and whatever the outstanding
// lookups produce later is discarded.
func Fetch[K comparable, V any](ctx context.Context, ids []K, fetchOne FetchFunc[K, V], opts ...Option) ([]V, error) {
	if len(ids) == 0 {
		return []V{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config{limit: DefaultLimit, logger: logging.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	order := make([]K, 0, len(ids))
	seen := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}

	// each goroutine owns slots[i]; they are read only after Wait
	slots := make([]slot[V], len(order))

	done := make(chan struct{})
	go func() {
		defer close(done)

		var g errgroup.Group
		g.SetLimit(cfg.limit)
		for i, id := range order {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					slots[i].err = err
					return nil
				}
				v, ok, err := fetchOne(ctx, id)
				slots[i] = slot[V]{v: v, ok: ok, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// a join that already reached the barrier keeps its result
		select {
		case <-done:
		default:
			return nil, ctx.Err()
		}
	}

	out := make([]V, 0, len(order))
	for i, s := range slots {
		switch {
		case s.err != nil:
			cfg.logger.Warn(ctx, "join lookup failed", "id", order[i], "error", s.err)
		case !s.ok:
			cfg.logger.Debug(ctx, "join record missing", "id", order[i])
		default:
			out = append(out, s.v)
		}
	}
	return out, nil
}
