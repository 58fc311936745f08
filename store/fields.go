package store

import (
	"reflect"
	"time"
)

// MergeFields merges a partial update into a document body, resolving the
// write sentinels the same way the remote store would: ArrayUnion skips
// values already present, ArrayRemove drops every occurrence,
// ServerTimestamp is replaced with the store clock, and DeleteField removes
// the field.
func MergeFields(doc map[string]interface{}, fields map[string]interface{}, now time.Time) {
	for key, value := range fields {
		switch v := value.(type) {
		case ArrayUnion:
			doc[key] = arrayUnion(doc[key], v.Values)
		case ArrayRemove:
			doc[key] = arrayRemove(doc[key], v.Values)
		case ServerTimestamp:
			doc[key] = now.UTC().Format(time.RFC3339Nano)
		case DeleteField:
			delete(doc, key)
		default:
			doc[key] = value
		}
	}
}

func arrayUnion(existing interface{}, values []interface{}) []interface{} {
	current, _ := existing.([]interface{})
	res := append([]interface{}{}, current...)
	for _, v := range values {
		present := false
		for _, cur := range res {
			if reflect.DeepEqual(cur, v) {
				present = true
				break
			}
		}
		if !present {
			res = append(res, v)
		}
	}
	return res
}

func arrayRemove(existing interface{}, values []interface{}) []interface{} {
	current, _ := existing.([]interface{})
	res := []interface{}{}
	for _, cur := range current {
		removed := false
		for _, v := range values {
			if reflect.DeepEqual(cur, v) {
				removed = true
				break
			}
		}
		if !removed {
			res = append(res, cur)
		}
	}
	return res
}
