package fakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store is an in-memory document store with synchronous snapshot fanout.
// Every successful write re-delivers the affected collection's full snapshot
// to all of its subscribers, which makes the subscription echo observable in
// tests without a real backend. It also serves local development runs.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	subs        map[string]map[string]*subscription
	now         func() time.Time
}

type subscription struct {
	onSnapshot func([]store.Document)
	onError    func(error)
}

func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]map[string]interface{}),
		subs:        make(map[string]map[string]*subscription),
		now:         time.Now,
	}
}

// SetNow overrides the store clock, used to pin server timestamps in tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Seed inserts a document without going through sentinel resolution and
// fans out the new snapshot.
func (s *Store) Seed(collection string, id string, fields map[string]interface{}) {
	s.mu.Lock()
	s.ensureCollection(collection)[id] = fields
	s.mu.Unlock()
	s.broadcast(collection)
}

func (s *Store) ensureCollection(collection string) map[string]map[string]interface{} {
	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	return s.collections[collection]
}

// Subscribe registers the callbacks and synchronously delivers the current
// snapshot, matching the push-based model of the real backend.
func (s *Store) Subscribe(ctx context.Context, collection string, onSnapshot func([]store.Document), onError func(error)) (store.UnsubscribeFunc, error) {
	subId := uuid.New().String()

	s.mu.Lock()
	if _, ok := s.subs[collection]; !ok {
		s.subs[collection] = make(map[string]*subscription)
	}
	s.subs[collection][subId] = &subscription{onSnapshot: onSnapshot, onError: onError}
	docs := s.snapshotLocked(collection)
	s.mu.Unlock()

	onSnapshot(docs)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[collection], subId)
			s.mu.Unlock()
		})
	}
	return unsubscribe, nil
}

// EmitError pushes a subscription error to every subscriber of the
// collection. The stored snapshot is untouched.
func (s *Store) EmitError(collection string, err error) {
	s.mu.Lock()
	listeners := s.listenersLocked(collection)
	s.mu.Unlock()

	for _, sub := range listeners {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

func (s *Store) Get(ctx context.Context, collection string, id string) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return store.Document{}, errors.Wrap(err, "marshal document")
	}
	return store.Document{Id: id, Data: data}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection string, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	if _, ok := s.collections[collection][id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	s.mergeLocked(collection, id, fields)
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

func (s *Store) Set(ctx context.Context, collection string, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	s.mergeLocked(collection, id, fields)
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string, id string) error {
	s.mu.Lock()
	delete(s.collections[collection], id)
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

func (s *Store) mergeLocked(collection string, id string, fields map[string]interface{}) {
	col := s.ensureCollection(collection)
	if _, ok := col[id]; !ok {
		col[id] = make(map[string]interface{})
	}
	store.MergeFields(col[id], fields, s.now())
}

func (s *Store) snapshotLocked(collection string) []store.Document {
	docs := []store.Document{}
	for id, fields := range s.collections[collection] {
		data, err := json.Marshal(fields)
		if err != nil {
			continue
		}
		docs = append(docs, store.Document{Id: id, Data: data})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Id < docs[j].Id })
	return docs
}

func (s *Store) listenersLocked(collection string) []*subscription {
	listeners := []*subscription{}
	for _, sub := range s.subs[collection] {
		listeners = append(listeners, sub)
	}
	return listeners
}

func (s *Store) broadcast(collection string) {
	s.mu.Lock()
	docs := s.snapshotLocked(collection)
	listeners := s.listenersLocked(collection)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.onSnapshot(docs)
	}
}

// Auth is an in-memory Authenticator for tests and local runs.
type Auth struct {
	mu        sync.Mutex
	userId    string
	callbacks map[string]func(string)
}

func NewAuth() *Auth {
	return &Auth{callbacks: make(map[string]func(string))}
}

func (a *Auth) OnAuthChange(cb func(userId string)) func() {
	a.mu.Lock()
	cbId := uuid.New().String()
	a.callbacks[cbId] = cb
	current := a.userId
	a.mu.Unlock()

	cb(current)

	return func() {
		a.mu.Lock()
		delete(a.callbacks, cbId)
		a.mu.Unlock()
	}
}

// SignIn marks the user as the current identity and notifies listeners.
func (a *Auth) SignIn(userId string) {
	a.setIdentity(userId)
}

func (a *Auth) SignOut(ctx context.Context) error {
	a.setIdentity("")
	return nil
}

func (a *Auth) setIdentity(userId string) {
	a.mu.Lock()
	a.userId = userId
	callbacks := make([]func(string), 0, len(a.callbacks))
	for _, cb := range a.callbacks {
		callbacks = append(callbacks, cb)
	}
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(userId)
	}
}

// String renders the store content for debugging.
func (s *Store) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ""
	for collection, docs := range s.collections {
		out += fmt.Sprintf("%s: %d docs\n", collection, len(docs))
	}
	return out
}
