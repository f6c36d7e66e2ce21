// Package docstore contains an extensible interface for persisting the
// application's document collections. It mirrors how the hosting database
// models data: named collections of schemaless documents keyed by id.
//
// Stores only move bytes; they enforce no access control. Authorization is
// the policy layer's job, and it happens before any store call.
package docstore

import (
	"context"
	"reflect"

	"google.golang.org/grpc/codes"

	"github.com/maxline/ordergate/errors"
)

var (
	// Returned when a document does not exist.
	ErrNotFound = errors.NewC("document not found", codes.NotFound)

	// Returned when creating a document whose id already exists.
	ErrAlreadyExists = errors.NewC("document already exists", codes.AlreadyExists)
)

// Snapshot is a document together with its id, as returned from listing.
type Snapshot struct {
	ID   string
	Data map[string]interface{}
}

// Store offers create, read, overwrite, delete and list operations over
// document collections.
type Store interface {
	// Get returns the document with the given id. ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)

	// Create writes a new document. ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, collection, id string, doc map[string]interface{}) error

	// Set overwrites an existing document in full. ErrNotFound if absent.
	Set(ctx context.Context, collection, id string, doc map[string]interface{}) error

	// Delete removes a document. ErrNotFound if absent.
	Delete(ctx context.Context, collection, id string) error

	// List returns all documents in a collection whose fields match the
	// filter exactly. A nil or empty filter returns the whole collection.
	// Results are ordered by document id.
	List(ctx context.Context, collection string, filter map[string]interface{}) ([]Snapshot, error)
}

// MatchesFilter reports whether a document satisfies an equality filter.
// Shared by store implementations that filter in-process.
func MatchesFilter(doc, filter map[string]interface{}) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
