package cache

import (
	"context"
	"sync"
	"time"

	"github.com/MarcoSafwat16/AMScout/hydrate"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/utils/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// subscribedCollections are wired in Start. Users must come first: it is a
// dependency of every other collection's hydration and failing to establish
// it is fatal, while any other subscription failing only degrades the
// corresponding view.
var subscribedCollections = []string{
	store.CollectionUsers,
	store.CollectionPosts,
	store.CollectionProducts,
	store.CollectionUserStories,
	store.CollectionGroupChat,
	store.CollectionNotifications,
	store.CollectionSettings,
}

type event struct {
	collection string
	docs       []store.Document
	err        error
}

// Engine owns the entity cache and runs the reconciliation loop. All
// snapshot application and hydration happens on one goroutine; subscription
// callbacks only enqueue events. Every applied snapshot triggers a full
// resolve pass whose result is stored as Latest and fanned out to
// listeners.
type Engine struct {
	source store.SubscriptionSource
	cache  *Cache
	events chan event
	now    func() time.Time
	onErr  func(collection string, err error)

	// mu guards latest and listeners only. The cache itself needs no lock:
	// it has a single writer, the event loop.
	mu        sync.RWMutex
	latest    *hydrate.Result
	listeners map[string]chan *hydrate.Result

	unsubscribes []store.UnsubscribeFunc
}

type Option func(*Engine)

// WithClock overrides the engine clock, used to pin story expiry in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSubscriptionErrorHandler installs a callback invoked on every
// subscription error, in addition to logging. The affected collection keeps
// its last-known snapshot either way.
func WithSubscriptionErrorHandler(handler func(collection string, err error)) Option {
	return func(e *Engine) { e.onErr = handler }
}

func NewEngine(source store.SubscriptionSource, opts ...Option) *Engine {
	e := &Engine{
		source:    source,
		cache:     NewCache(),
		events:    make(chan event, 256),
		now:       time.Now,
		listeners: make(map[string]chan *hydrate.Result),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.latest = hydrate.Resolve(e.cache.Collections(), e.now())
	return e
}

// Start establishes all collection subscriptions and spins up the event
// loop. A users subscription failure is fatal: nothing can hydrate without
// it. Failures on other collections are surfaced and skipped, leaving that
// view empty until a restart.
//
// Cancelling ctx stops the loop and cancels every subscription.
func (e *Engine) Start(ctx context.Context) error {
	for _, collection := range subscribedCollections {
		collection := collection
		unsubscribe, err := e.source.Subscribe(ctx, collection,
			func(docs []store.Document) {
				select {
				case e.events <- event{collection: collection, docs: docs}:
				case <-ctx.Done():
				}
			},
			func(err error) {
				select {
				case e.events <- event{collection: collection, err: err}:
				case <-ctx.Done():
				}
			},
		)
		if err != nil {
			if collection == store.CollectionUsers {
				e.stopSubscriptions()
				return errors.Wrap(err, "users subscription could not be established")
			}
			e.reportError(collection, err)
			continue
		}
		e.unsubscribes = append(e.unsubscribes, unsubscribe)
	}

	go e.loop(ctx)
	return nil
}

func (e *Engine) loop(ctx context.Context) {
	defer e.stopSubscriptions()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.events:
			if ev.err != nil {
				// Retain the stale snapshot; the collection stays readable.
				e.reportError(ev.collection, ev.err)
				continue
			}
			if err := e.cache.Apply(ev.collection, ev.docs); err != nil {
				log.Log.Error("failed to apply snapshot for ", ev.collection, ": ", err)
				continue
			}
			e.publish(hydrate.Resolve(e.cache.Collections(), e.now()))
		}
	}
}

func (e *Engine) reportError(collection string, err error) {
	log.Log.Error("subscription error on ", collection, ": ", err)
	if e.onErr != nil {
		e.onErr(collection, err)
	}
}

func (e *Engine) stopSubscriptions() {
	for _, unsubscribe := range e.unsubscribes {
		unsubscribe()
	}
	e.unsubscribes = nil
}

// Latest returns the most recent resolve result. Never nil; before the
// first snapshot it is an empty result.
func (e *Engine) Latest() *hydrate.Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.latest
}

func (e *Engine) publish(res *hydrate.Result) {
	e.mu.Lock()
	e.latest = res
	channels := make([]chan *hydrate.Result, 0, len(e.listeners))
	for _, ch := range e.listeners {
		channels = append(channels, ch)
	}
	e.mu.Unlock()

	for _, ch := range channels {
		// A slow listener only ever sees the newest result: replace the
		// buffered one instead of blocking the loop.
		select {
		case ch <- res:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- res:
			default:
			}
		}
	}
}

// AddListener registers a channel that receives every new resolve result
// until ctx terminates. Deletion is handled by a background cleanup
// goroutine watching the context.
func (e *Engine) AddListener(ctx context.Context) <-chan *hydrate.Result {
	id := "lst_" + uuid.New().String()
	ch := make(chan *hydrate.Result, 1)

	e.mu.Lock()
	e.listeners[id] = ch
	e.mu.Unlock()

	go e.cleanUp(ctx, id)

	return ch
}

func (e *Engine) cleanUp(ctx context.Context, id string) {
	<-ctx.Done()

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, id)
}

// ActiveListenerCount is a monitoring hook.
func (e *Engine) ActiveListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
