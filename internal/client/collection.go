package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// Validator is implemented by every draft and patch in internal/model.
type Validator interface {
	Validate() error
}

// Notifier is told about every failed operation, the way a UI shows a
// toast. It must not block.
type Notifier func(err error)

// Collection is a cached view of one REST collection. T is the entity, D
// the create body and P the partial update body.
type Collection[T Entity, D Validator, P Validator] struct {
	api    *api
	name   string
	path   string
	logger *slog.Logger
	notify Notifier

	// updateMethod is PATCH unless the resource only takes PUT.
	updateMethod string
	// appendOnAdd keeps date-ordered collections in order.
	appendOnAdd bool
	authed      bool

	cache cache[T]
}

type collectionOpts struct {
	updateMethod string
	appendOnAdd  bool
	authed       bool
}

func newCollection[T Entity, D Validator, P Validator](c *Client, name, path string, opts collectionOpts) *Collection[T, D, P] {
	if opts.updateMethod == "" {
		opts.updateMethod = http.MethodPatch
	}
	return &Collection[T, D, P]{
		api:          c.api,
		name:         name,
		path:         path,
		logger:       c.logger.With("collection", name),
		notify:       c.notify,
		updateMethod: opts.updateMethod,
		appendOnAdd:  opts.appendOnAdd,
		authed:       opts.authed,
	}
}

// List returns a copy of the cached items in their current order.
func (c *Collection[T, D, P]) List() []T {
	return c.cache.snapshot()
}

// Get returns the cached item with id.
func (c *Collection[T, D, P]) Get(id int64) (T, bool) {
	return c.cache.find(id)
}

func (c *Collection[T, D, P]) itemPath(id int64) string {
	return c.path + "/" + strconv.FormatInt(id, 10)
}

// fail logs err, hands it to the notifier and returns it.
func (c *Collection[T, D, P]) fail(op string, err error) error {
	err = fmt.Errorf("%s %s: %w", op, c.name, err)
	c.logger.Error("operation failed", "op", op, "error", err)
	if c.notify != nil {
		c.notify(err)
	}
	return err
}

// Refetch replaces the cache with the server's list. A response arriving
// after Close is dropped.
func (c *Collection[T, D, P]) Refetch(ctx context.Context) error {
	var items []T
	if err := c.api.do(ctx, http.MethodGet, c.path, c.authed, nil, &items); err != nil {
		return c.fail("refetch", err)
	}
	if !c.cache.set(items) {
		c.logger.Debug("refetch discarded after close")
	}
	return nil
}

// Add validates d, creates it on the server and inserts the created item.
func (c *Collection[T, D, P]) Add(ctx context.Context, d D) (T, error) {
	var created T
	if err := d.Validate(); err != nil {
		return created, c.fail("add", err)
	}
	if err := c.api.do(ctx, http.MethodPost, c.path, c.authed, d, &created); err != nil {
		return created, c.fail("add", err)
	}
	if c.appendOnAdd {
		c.cache.append(created)
	} else {
		c.cache.prepend(created)
	}
	return created, nil
}

// Update sends p for id and replaces the cached item with the result.
func (c *Collection[T, D, P]) Update(ctx context.Context, id int64, p P) (T, error) {
	var updated T
	if err := p.Validate(); err != nil {
		return updated, c.fail("update", err)
	}
	if err := c.api.do(ctx, c.updateMethod, c.itemPath(id), c.authed, p, &updated); err != nil {
		return updated, c.fail("update", err)
	}
	c.cache.replace(updated)
	return updated, nil
}

// Delete removes id on the server, then from the cache.
func (c *Collection[T, D, P]) Delete(ctx context.Context, id int64) error {
	if err := c.api.do(ctx, http.MethodDelete, c.itemPath(id), c.authed, nil, nil); err != nil {
		return c.fail("delete", err)
	}
	c.cache.remove(id)
	return nil
}

// Close stops the collection from accepting further cache writes.
func (c *Collection[T, D, P]) Close() {
	c.cache.close()
}

// Feed is a read-only collection, used for append-only history.
type Feed[T Entity] struct {
	api    *api
	name   string
	path   string
	logger *slog.Logger
	notify Notifier

	cache cache[T]
}

func newFeed[T Entity](c *Client, name, path string) *Feed[T] {
	return &Feed[T]{
		api:    c.api,
		name:   name,
		path:   path,
		logger: c.logger.With("collection", name),
		notify: c.notify,
	}
}

func (f *Feed[T]) List() []T {
	return f.cache.snapshot()
}

func (f *Feed[T]) Refetch(ctx context.Context) error {
	var items []T
	if err := f.api.do(ctx, http.MethodGet, f.path, false, nil, &items); err != nil {
		err = fmt.Errorf("refetch %s: %w", f.name, err)
		f.logger.Error("operation failed", "op", "refetch", "error", err)
		if f.notify != nil {
			f.notify(err)
		}
		return err
	}
	f.cache.set(items)
	return nil
}

func (f *Feed[T]) Close() {
	f.cache.close()
}
