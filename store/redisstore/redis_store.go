package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/utils/log"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const keyPrefix = "amscout"

// Store is the production document store. Each collection is a Redis hash
// (field = document id, value = JSON body). Every successful write publishes
// the collection name on a pub/sub channel, and subscribers re-read the full
// hash on each notification, which yields the "last full snapshot wins"
// delivery the sync layer is built on.
//
// Merge writes are read-modify-write and assume a single writing service per
// document, which holds for everything the dispatcher writes.
type Store struct {
	client *redis.Client
}

func NewStore() *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		}),
	}
}

// NewStoreWithClient is used by tests running against a local Redis.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func collectionKey(collection string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, collection)
}

func snapshotChannel(collection string) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, collection)
}

func (s *Store) Get(ctx context.Context, collection string, id string) (store.Document, error) {
	data, err := s.client.HGet(ctx, collectionKey(collection), id).Result()
	if err == redis.Nil {
		return store.Document{}, store.ErrNotFound
	}
	if err != nil {
		return store.Document{}, errors.Wrap(err, "redis get "+collection+"/"+id)
	}
	return store.Document{Id: id, Data: json.RawMessage(data)}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection string, id string, fields map[string]interface{}) error {
	if _, err := s.client.HGet(ctx, collectionKey(collection), id).Result(); err == redis.Nil {
		return store.ErrNotFound
	} else if err != nil {
		return errors.Wrap(err, "redis update "+collection+"/"+id)
	}
	return s.Set(ctx, collection, id, fields)
}

func (s *Store) Set(ctx context.Context, collection string, id string, fields map[string]interface{}) error {
	doc := make(map[string]interface{})
	data, err := s.client.HGet(ctx, collectionKey(collection), id).Result()
	if err != nil && err != redis.Nil {
		return errors.Wrap(err, "redis set "+collection+"/"+id)
	}
	if err == nil {
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return errors.Wrap(err, "decode existing document "+id)
		}
	}

	store.MergeFields(doc, fields, time.Now())

	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encode document "+id)
	}
	if err := s.client.HSet(ctx, collectionKey(collection), id, body).Err(); err != nil {
		return errors.Wrap(err, "redis set "+collection+"/"+id)
	}
	return s.publish(ctx, collection)
}

func (s *Store) Delete(ctx context.Context, collection string, id string) error {
	if err := s.client.HDel(ctx, collectionKey(collection), id).Err(); err != nil {
		return errors.Wrap(err, "redis delete "+collection+"/"+id)
	}
	return s.publish(ctx, collection)
}

func (s *Store) publish(ctx context.Context, collection string) error {
	return errors.Wrap(
		s.client.Publish(ctx, snapshotChannel(collection), collection).Err(),
		"publish snapshot notification")
}

func (s *Store) snapshot(ctx context.Context, collection string) ([]store.Document, error) {
	raw, err := s.client.HGetAll(ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis snapshot "+collection)
	}
	docs := make([]store.Document, 0, len(raw))
	for id, body := range raw {
		docs = append(docs, store.Document{Id: id, Data: json.RawMessage(body)})
	}
	return docs, nil
}

// Subscribe delivers the current snapshot immediately, then re-reads and
// re-delivers the whole collection on every pub/sub notification until
// unsubscribed or the context ends.
func (s *Store) Subscribe(ctx context.Context, collection string, onSnapshot func([]store.Document), onError func(error)) (store.UnsubscribeFunc, error) {
	docs, err := s.snapshot(ctx, collection)
	if err != nil {
		return nil, err
	}

	pubsub := s.client.Subscribe(ctx, snapshotChannel(collection))
	// Force the subscription to be established before the first snapshot is
	// delivered, otherwise a write racing the subscribe could be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, errors.Wrap(err, "subscribe "+collection)
	}

	onSnapshot(docs)

	go func() {
		for range pubsub.Channel() {
			latest, err := s.snapshot(ctx, collection)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onSnapshot(latest)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				log.Log.Warn("failed to close subscription for ", collection, ": ", err)
			}
		})
	}
	return unsubscribe, nil
}
