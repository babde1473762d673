package app

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// ThingCache is a read-through cache in front of a ThingService.
//
// A successful lookup is stored and never fetched again. A miss is not
// stored, so the next Get for the same id asks the service again. Errors
// from the service are returned unchanged and nothing is stored.
//
// Concurrent Gets for the same missing id share a single service call.
// The shared call is not cancelled by any one caller; each caller stops
// waiting when its own context is done.
type ThingCache struct {
	service ports.ThingService
	store   ports.ThingStore
	logger  ports.Logger
	group   singleflight.Group
}

// fetchResult carries a service lookup through singleflight.
type fetchResult struct {
	thing domain.Thing
	found bool
}

// NewThingCache creates a cache over service, holding entries in store.
func NewThingCache(service ports.ThingService, store ports.ThingStore, logger ports.Logger) *ThingCache {
	return &ThingCache{
		service: service,
		store:   store,
		logger:  orDiscard(logger),
	}
}

// Get returns the thing for id, consulting the service only when the id
// has not been resolved before.
func (c *ThingCache) Get(ctx context.Context, id string) (domain.Thing, bool, error) {
	if thing, ok := c.store.Get(id); ok {
		c.logger.Debug("thing cache hit", ports.String("id", id))
		return thing, true, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (interface{}, error) {
		// Another caller may have stored it between our check and DoChan.
		if thing, ok := c.store.Get(id); ok {
			return fetchResult{thing: thing, found: true}, nil
		}

		thing, found, err := c.service.Read(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		if found {
			c.store.Set(id, thing)
		}
		return fetchResult{thing: thing, found: found}, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.Thing{}, false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return domain.Thing{}, false, res.Err
	}

	fetched := res.Val.(fetchResult)
	c.logger.Debug("thing cache miss",
		ports.String("id", id),
		ports.Bool("found", fetched.found),
		ports.Bool("shared", res.Shared),
	)
	if !fetched.found {
		return domain.Thing{}, false, nil
	}
	return fetched.thing, true, nil
}

// Len returns the number of cached things.
func (c *ThingCache) Len() int {
	return c.store.Len()
}
