package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/docstore"
	"github.com/maxline/ordergate/docstore/memstore"
	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/principal"
	"github.com/maxline/ordergate/service"
)

// newService builds a service over a fresh in-memory store, with the
// evaluator's claim fallback reading profiles from that same store.
func newService(t *testing.T) (*service.Service, docstore.Store) {
	t.Helper()
	store := memstore.New()
	ev := authz.New(authz.ProfileReaderFn(func(ctx context.Context, uid string) (authz.Document, error) {
		doc, err := store.Get(ctx, authz.CollectionUsers, uid)
		return authz.Document(doc), err
	}))
	return service.New(store, ev), store
}

func signedIn(uid, email string) context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{
		UID:   uid,
		Email: email,
	})
}

func manager(uid, email string) context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{
		UID:    uid,
		Email:  email,
		Claims: map[string]interface{}{principal.ManagerClaimKey: true},
	})
}

func order(uid, email, status string) map[string]interface{} {
	return map[string]interface{}{
		"createdByUid":   uid,
		"createdByEmail": email,
		"createdAt":      time.Now().UTC().Format(time.RFC3339),
		"status":         status,
		"customer":       map[string]interface{}{"name": "J. Fowler"},
		"vehicle":        map[string]interface{}{"model": "Bronco", "trim": "Badlands"},
	}
}

func TestCreateOrderGeneratesID(t *testing.T) {
	svc, store := newService(t)
	ctx := signedIn("u1", "u1@co.com")

	id, err := svc.CreateOrder(ctx, "", order("u1", "u1@co.com", "Factory Order"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.Get(ctx, authz.CollectionOrders, id)
	require.NoError(t, err)
	assert.Equal(t, "Factory Order", doc["status"])
}

func TestCreateOrderSpoofedOwnershipDenied(t *testing.T) {
	svc, _ := newService(t)
	ctx := signedIn("u1", "u1@co.com")

	_, err := svc.CreateOrder(ctx, "", order("someone-else", "u1@co.com", "Factory Order"))
	assert.True(t, errors.Is(err, authz.ErrPermissionDenied))
}

func TestCreateOrderSignedOut(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateOrder(context.Background(), "", order("u1", "u1@co.com", "Locate"))
	assert.True(t, errors.Is(err, authz.ErrUnauthenticated))
}

func TestGetOrderOwnerAndStranger(t *testing.T) {
	svc, store := newService(t)
	owner := signedIn("u1", "u1@co.com")
	require.NoError(t, store.Create(owner, authz.CollectionOrders, "o1", order("u1", "u1@co.com", "Locate")))

	doc, err := svc.GetOrder(owner, "o1")
	require.NoError(t, err)
	assert.Equal(t, "u1", doc["createdByUid"])

	_, err = svc.GetOrder(signedIn("u2", "u2@co.com"), "o1")
	assert.True(t, errors.Is(err, authz.ErrPermissionDenied))
}

func TestGetOrderMissing(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetOrder(signedIn("u1", "u1@co.com"), "nope")
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestListOrdersScopedToOwner(t *testing.T) {
	svc, store := newService(t)
	ctx := signedIn("u1", "u1@co.com")
	require.NoError(t, store.Create(ctx, authz.CollectionOrders, "a", order("u1", "u1@co.com", "Locate")))
	require.NoError(t, store.Create(ctx, authz.CollectionOrders, "b", order("u2", "u2@co.com", "Received")))
	require.NoError(t, store.Create(ctx, authz.CollectionOrders, "c", order("u1", "u1@co.com", "Delivered")))

	snaps, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "a", snaps[0].ID)
	assert.Equal(t, "c", snaps[1].ID)
}

func TestListOrdersManagerSeesAll(t *testing.T) {
	svc, store := newService(t)
	ctx := manager("m1", "m1@co.com")
	require.NoError(t, store.Create(ctx, authz.CollectionOrders, "a", order("u1", "u1@co.com", "Locate")))
	require.NoError(t, store.Create(ctx, authz.CollectionOrders, "b", order("u2", "u2@co.com", "Received")))

	snaps, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestListOrdersSignedOut(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ListOrders(context.Background())
	assert.True(t, errors.Is(err, authz.ErrUnauthenticated))
}

func TestUpdateOrderOwnerStatusChange(t *testing.T) {
	svc, store := newService(t)
	ctx := signedIn("u1", "u1@co.com")
	doc := order("u1", "u1@co.com", "Factory Order")
	require.NoError(t, store.Create(ctx, authz.CollectionOrders, "o1", doc))

	updated := map[string]interface{}{}
	for k, v := range doc {
		updated[k] = v
	}
	updated["status"] = "Received"
	require.NoError(t, svc.UpdateOrder(ctx, "o1", updated))

	stored, err := store.Get(ctx, authz.CollectionOrders, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Received", stored["status"])
}

func TestUpdateOrderOwnershipRewriteDenied(t *testing.T) {
	svc, store := newService(t)
	ctx := signedIn("u1", "u1@co.com")
	doc := order("u1", "u1@co.com", "Factory Order")
	require.NoError(t, store.Create(ctx, authz.CollectionOrders, "o1", doc))

	updated := map[string]interface{}{}
	for k, v := range doc {
		updated[k] = v
	}
	updated["createdByUid"] = "u2"
	err := svc.UpdateOrder(ctx, "o1", updated)
	assert.True(t, errors.Is(err, authz.ErrPermissionDenied))

	// The denied write left the document alone.
	stored, err := store.Get(ctx, authz.CollectionOrders, "o1")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored["createdByUid"])
}

func TestDeleteOrderManagerOnly(t *testing.T) {
	svc, store := newService(t)
	owner := signedIn("u1", "u1@co.com")
	require.NoError(t, store.Create(owner, authz.CollectionOrders, "o1", order("u1", "u1@co.com", "Delivered")))

	err := svc.DeleteOrder(owner, "o1")
	assert.True(t, errors.Is(err, authz.ErrPermissionDenied))

	require.NoError(t, svc.DeleteOrder(manager("m1", "m1@co.com"), "o1"))
	_, err = store.Get(owner, authz.CollectionOrders, "o1")
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestProfileLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := signedIn("u1", "u1@co.com")

	require.NoError(t, svc.CreateProfile(ctx, "u1", map[string]interface{}{
		"displayName": "Uma",
		"email":       "u1@co.com",
	}))

	doc, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Uma", doc["displayName"])

	require.NoError(t, svc.UpdateProfile(ctx, "u1", map[string]interface{}{
		"displayName": "Uma T.",
		"email":       "u1@co.com",
	}))

	doc, err = svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Uma T.", doc["displayName"])
}

func TestProfileSelfElevationDenied(t *testing.T) {
	svc, _ := newService(t)
	ctx := signedIn("u1", "u1@co.com")

	err := svc.CreateProfile(ctx, "u1", map[string]interface{}{
		"displayName": "Uma",
		"email":       "u1@co.com",
		"isManager":   true,
	})
	assert.True(t, errors.Is(err, authz.ErrPermissionDenied))
}

func TestProfileReadByStrangerDenied(t *testing.T) {
	svc, _ := newService(t)
	require.NoError(t, svc.CreateProfile(signedIn("u1", "u1@co.com"), "u1", map[string]interface{}{
		"displayName": "Uma",
		"email":       "u1@co.com",
	}))

	_, err := svc.GetProfile(signedIn("u2", "u2@co.com"), "u1")
	assert.True(t, errors.Is(err, authz.ErrPermissionDenied))

	doc, err := svc.GetProfile(manager("m1", "m1@co.com"), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Uma", doc["displayName"])
}

// A user whose token predates their promotion still resolves as a manager
// through the profile fallback.
func TestDocumentFallbackGrantsManagerAccess(t *testing.T) {
	svc, store := newService(t)
	promoted := signedIn("m1", "m1@co.com") // no claim on the token
	require.NoError(t, store.Create(promoted, authz.CollectionUsers, "m1", map[string]interface{}{
		"displayName": "Mel",
		"email":       "m1@co.com",
		"isManager":   true,
	}))
	require.NoError(t, store.Create(promoted, authz.CollectionOrders, "o1", order("u1", "u1@co.com", "Locate")))

	doc, err := svc.GetOrder(promoted, "o1")
	require.NoError(t, err)
	assert.Equal(t, "u1", doc["createdByUid"])
}
