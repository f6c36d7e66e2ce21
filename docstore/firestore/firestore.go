// Package firestore provides a Cloud Firestore implementation of
// docstore.Store. This is the production backend: the same collections that
// the security rules guard server-side are read and written here by the
// backend with admin credentials, after the policy layer has allowed the
// operation.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/maxline/ordergate/docstore"
	"github.com/maxline/ordergate/errors"
)

// New returns a store backed by the given Firestore client.
func New(client *firestore.Client) docstore.Store {
	return &store{client: client}
}

// NewFromApp creates a Firestore client from an initialized Firebase app.
func NewFromApp(ctx context.Context, app *firebase.App) (docstore.Store, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.WrapPrefix(err, "creating firestore client")
	}
	return New(client), nil
}

type store struct {
	client *firestore.Client
}

func (s *store) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	return snap.Data(), nil
}

func (s *store) Create(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Create(ctx, doc)
	return translateError(err)
}

func (s *store) Set(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	ref := s.client.Collection(collection).Doc(id)

	// Firestore's Set upserts; the docstore contract requires the document
	// to exist. Run both steps in a transaction so the existence check and
	// the overwrite are atomic.
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, doc)
	})
	return translateError(err)
}

func (s *store) Delete(ctx context.Context, collection, id string) error {
	ref := s.client.Collection(collection).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
	return translateError(err)
}

func (s *store) List(ctx context.Context, collection string, filter map[string]interface{}) ([]docstore.Snapshot, error) {
	q := s.client.Collection(collection).Query
	for field, want := range filter {
		q = q.Where(field, "==", want)
	}
	q = q.OrderBy(firestore.DocumentID, firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var snaps []docstore.Snapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, translateError(err)
		}
		snaps = append(snaps, docstore.Snapshot{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return snaps, nil
}

func translateError(err error) error {
	switch status.Code(err) {
	case codes.OK:
		return nil
	case codes.NotFound:
		return docstore.ErrNotFound
	case codes.AlreadyExists:
		return docstore.ErrAlreadyExists
	}
	return err
}
