package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Collection ids of the remote document store.
const (
	CollectionUsers         = "users"
	CollectionPosts         = "posts"
	CollectionProducts      = "products"
	CollectionUserStories   = "userStories"
	CollectionGroupChat     = "groupChat"
	CollectionNotifications = "notifications"
	CollectionSettings      = "settings"

	// AppConfigDocId is the single configuration document inside the settings
	// collection.
	AppConfigDocId = "appConfig"
)

var ErrNotFound = errors.New("document not found")

// Document is one raw record of a collection, as delivered by the remote
// store. Data is the record body without the id field.
type Document struct {
	Id   string
	Data json.RawMessage
}

// UnsubscribeFunc cancels a single subscription. Calling it more than once
// is a no-op.
type UnsubscribeFunc func()

// SubscriptionSource delivers full per-collection snapshots in
// server-assigned order. Every snapshot replaces the previous one entirely;
// there is no incremental patching. On subscription error onError is invoked
// and the subscription stays registered, the caller keeps its last known
// snapshot.
type SubscriptionSource interface {
	Subscribe(ctx context.Context, collection string, onSnapshot func([]Document), onError func(error)) (UnsubscribeFunc, error)
}

// DocumentStore is the one-shot read/write surface of the remote store.
// Writes never mutate local caches; their effect is observed only through
// the subscription pipeline re-delivering the new collection snapshot.
type DocumentStore interface {
	// Get returns a single document, or ErrNotFound.
	Get(ctx context.Context, collection string, id string) (Document, error)

	// Create inserts a document with a server-generated id and returns it.
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)

	// Update merges the provided fields into an existing document. Field
	// values may be sentinels: ArrayUnion, ArrayRemove, ServerTimestamp,
	// DeleteField.
	Update(ctx context.Context, collection string, id string, fields map[string]interface{}) error

	// Set merges the provided fields into the document, creating it if absent.
	Set(ctx context.Context, collection string, id string, fields map[string]interface{}) error

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection string, id string) error
}

// BlobStore uploads media and returns a public download reference.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// UploadDataURL accepts a base64 data URL ("data:image/png;base64,...")
	// as produced by in-app editors.
	UploadDataURL(ctx context.Context, path string, dataURL string) (string, error)
}

// Authenticator is the auth session boundary. OnAuthChange fires once with
// the current identity and then on every sign in/out; an empty user id means
// signed out.
type Authenticator interface {
	OnAuthChange(cb func(userId string)) (cancel func())
	SignOut(ctx context.Context) error
}

// ArrayUnion atomically adds the values to an array field, skipping values
// already present.
type ArrayUnion struct {
	Values []interface{}
}

// ArrayRemove atomically removes all occurrences of the values from an array
// field.
type ArrayRemove struct {
	Values []interface{}
}

// ServerTimestamp is replaced by the store with its own clock at write time.
type ServerTimestamp struct{}

// DeleteField removes the field from the document instead of writing a
// value.
type DeleteField struct{}

// Decode unmarshals the document body into out. The document id is not part
// of the body; callers assign it after decoding.
func (d Document) Decode(out interface{}) error {
	if err := json.Unmarshal(d.Data, out); err != nil {
		return errors.Wrap(err, "decode document "+d.Id)
	}
	return nil
}
