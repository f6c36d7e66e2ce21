package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/docstore"
	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/logging"
)

// CreateOrder authorizes and persists a new order document. The caller
// submits the full document, ownership fields included; the order policy
// rejects documents whose ownership does not match the caller's token. An
// empty id requests a server-generated one. The chosen id is returned.
func (s *Service) CreateOrder(ctx context.Context, id string, doc map[string]interface{}) (string, error) {
	p := caller(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	logging.Track(ctx, "order.id", id)

	err := s.authz.Authorize(ctx, p, authz.Request{
		Collection: authz.CollectionOrders,
		DocID:      id,
		Operation:  authz.OpCreate,
		Proposed:   authz.Document(doc),
	})
	if err != nil {
		return "", err
	}
	if err := s.store.Create(ctx, authz.CollectionOrders, id, doc); err != nil {
		return "", errors.WrapPrefix(err, "creating order")
	}
	return id, nil
}

// GetOrder returns one order if the caller may read it.
func (s *Service) GetOrder(ctx context.Context, id string) (map[string]interface{}, error) {
	p := caller(ctx)
	existing, err := s.store.Get(ctx, authz.CollectionOrders, id)
	if err != nil {
		return nil, errors.WrapPrefix(err, "reading order")
	}

	err = s.authz.Authorize(ctx, p, authz.Request{
		Collection: authz.CollectionOrders,
		DocID:      id,
		Operation:  authz.OpRead,
		Existing:   authz.Document(existing),
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// ListOrders returns the orders the caller may read: every order for
// managers, the caller's own orders otherwise. Signed-out callers get an
// authentication error rather than an empty list.
func (s *Service) ListOrders(ctx context.Context) ([]docstore.Snapshot, error) {
	p := caller(ctx)
	if !p.SignedIn() {
		return nil, errors.Wrap(authz.ErrUnauthenticated)
	}

	var filter map[string]interface{}
	if !s.authz.IsManager(ctx, p) {
		filter = map[string]interface{}{"createdByUid": p.UID}
	}
	snaps, err := s.store.List(ctx, authz.CollectionOrders, filter)
	if err != nil {
		return nil, errors.WrapPrefix(err, "listing orders")
	}
	return snaps, nil
}

// UpdateOrder authorizes and applies a full overwrite of an order. The
// submitted document is the complete post-write state, which is what the
// policy compares against the stored document.
func (s *Service) UpdateOrder(ctx context.Context, id string, doc map[string]interface{}) error {
	p := caller(ctx)
	existing, err := s.store.Get(ctx, authz.CollectionOrders, id)
	if err != nil {
		return errors.WrapPrefix(err, "reading order")
	}

	err = s.authz.Authorize(ctx, p, authz.Request{
		Collection: authz.CollectionOrders,
		DocID:      id,
		Operation:  authz.OpUpdate,
		Existing:   authz.Document(existing),
		Proposed:   authz.Document(doc),
	})
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, authz.CollectionOrders, id, doc); err != nil {
		return errors.WrapPrefix(err, "updating order")
	}
	return nil
}

// DeleteOrder removes an order. The order policy restricts deletion to
// managers.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	p := caller(ctx)
	existing, err := s.store.Get(ctx, authz.CollectionOrders, id)
	if err != nil {
		return errors.WrapPrefix(err, "reading order")
	}

	err = s.authz.Authorize(ctx, p, authz.Request{
		Collection: authz.CollectionOrders,
		DocID:      id,
		Operation:  authz.OpDelete,
		Existing:   authz.Document(existing),
	})
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, authz.CollectionOrders, id); err != nil {
		return errors.WrapPrefix(err, "deleting order")
	}
	return nil
}
