package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/principal"
)

func orderReq(op authz.Operation, existing, proposed authz.Document) authz.Request {
	return authz.Request{
		Collection: authz.CollectionOrders,
		DocID:      "o1",
		Operation:  op,
		Existing:   existing,
		Proposed:   proposed,
	}
}

func validOrder(uid, email string) authz.Document {
	return authz.Document{
		"createdByUid":   uid,
		"createdByEmail": email,
		"createdAt":      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		"status":         "Locate",
		"customer":       "J. Smith",
		"vehicle":        "2026 GT500, Code Orange",
	}
}

func TestOrderCreate(t *testing.T) {
	e := authz.New(nil)
	ctx := context.Background()
	p := principal.Principal{UID: "u1", Email: "a@co.com"}

	tests := []struct {
		name     string
		p        principal.Principal
		proposed authz.Document
		want     authz.Effect
	}{
		{
			name:     "well-formed order attributed to self",
			p:        p,
			proposed: validOrder("u1", "a@co.com"),
			want:     authz.Allow,
		},
		{
			name:     "uid mismatch",
			p:        p,
			proposed: validOrder("u2", "a@co.com"),
			want:     authz.Deny,
		},
		{
			name:     "email mismatch",
			p:        p,
			proposed: validOrder("u1", "spoof@co.com"),
			want:     authz.Deny,
		},
		{
			name:     "unauthenticated",
			p:        principal.Principal{},
			proposed: validOrder("u1", "a@co.com"),
			want:     authz.Deny,
		},
		{
			name: "status outside the legal set",
			p:    p,
			proposed: func() authz.Document {
				d := validOrder("u1", "a@co.com")
				d["status"] = "InvalidStatus"
				return d
			}(),
			want: authz.Deny,
		},
		{
			name: "status of wrong type",
			p:    p,
			proposed: func() authz.Document {
				d := validOrder("u1", "a@co.com")
				d["status"] = 4
				return d
			}(),
			want: authz.Deny,
		},
		{
			name: "missing createdAt",
			p:    p,
			proposed: func() authz.Document {
				d := validOrder("u1", "a@co.com")
				delete(d, "createdAt")
				return d
			}(),
			want: authz.Deny,
		},
		{
			name: "missing ownership fields",
			p:    p,
			proposed: func() authz.Document {
				d := validOrder("u1", "a@co.com")
				delete(d, "createdByUid")
				delete(d, "createdByEmail")
				return d
			}(),
			want: authz.Deny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Decide(ctx, tt.p, orderReq(authz.OpCreate, nil, tt.proposed))
			assert.Equal(t, tt.want, d.Effect, "reason: %s", d.Reason)
		})
	}
}

func TestEveryLegalStatusAcceptedAtCreate(t *testing.T) {
	e := authz.New(nil)
	ctx := context.Background()
	p := principal.Principal{UID: "u1", Email: "a@co.com"}

	for _, status := range authz.OrderStatuses {
		doc := validOrder("u1", "a@co.com")
		doc["status"] = status
		d := e.Decide(ctx, p, orderReq(authz.OpCreate, nil, doc))
		assert.Equal(t, authz.Allow, d.Effect, "status %q: %s", status, d.Reason)
	}
}

func TestOrderRead(t *testing.T) {
	e := authz.New(nil)
	ctx := context.Background()
	existing := validOrder("u1", "a@co.com")

	// Owner.
	d := e.Decide(ctx, withoutClaim("u1"), orderReq(authz.OpRead, existing, nil))
	assert.Equal(t, authz.Allow, d.Effect)

	// Manager who is neither owner nor creator.
	d = e.Decide(ctx, withClaim("u2", true), orderReq(authz.OpRead, existing, nil))
	assert.Equal(t, authz.Allow, d.Effect)

	// Stranger: neither owner nor manager.
	d = e.Decide(ctx, withoutClaim("u3"), orderReq(authz.OpRead, existing, nil))
	assert.Equal(t, authz.Deny, d.Effect)

	// Unauthenticated.
	d = e.Decide(ctx, principal.Principal{}, orderReq(authz.OpRead, existing, nil))
	assert.Equal(t, authz.Deny, d.Effect)
}

func TestOrderUpdateByOwner(t *testing.T) {
	e := authz.New(nil)
	ctx := context.Background()
	owner := principal.Principal{UID: "u1", Email: "a@co.com"}
	existing := validOrder("u1", "a@co.com")

	t.Run("status change within legal set", func(t *testing.T) {
		proposed := validOrder("u1", "a@co.com")
		proposed["status"] = "Dealer Exchange"
		d := e.Decide(ctx, owner, orderReq(authz.OpUpdate, existing, proposed))
		assert.Equal(t, authz.Allow, d.Effect, d.Reason)
	})

	t.Run("status change outside legal set", func(t *testing.T) {
		proposed := validOrder("u1", "a@co.com")
		proposed["status"] = "Vanished"
		d := e.Decide(ctx, owner, orderReq(authz.OpUpdate, existing, proposed))
		assert.Equal(t, authz.Deny, d.Effect)
	})

	t.Run("notes added", func(t *testing.T) {
		proposed := validOrder("u1", "a@co.com")
		proposed["notes"] = "customer called, wants delivery in March"
		d := e.Decide(ctx, owner, orderReq(authz.OpUpdate, existing, proposed))
		assert.Equal(t, authz.Allow, d.Effect, d.Reason)
	})

	t.Run("status change bundled with ownership change", func(t *testing.T) {
		// The whole operation is rejected, not just the offending field.
		proposed := validOrder("u2", "a@co.com")
		proposed["status"] = "Dealer Exchange"
		d := e.Decide(ctx, owner, orderReq(authz.OpUpdate, existing, proposed))
		assert.Equal(t, authz.Deny, d.Effect)
	})

	t.Run("createdAt change", func(t *testing.T) {
		proposed := validOrder("u1", "a@co.com")
		proposed["createdAt"] = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		d := e.Decide(ctx, owner, orderReq(authz.OpUpdate, existing, proposed))
		assert.Equal(t, authz.Deny, d.Effect)
	})

	t.Run("stranger update", func(t *testing.T) {
		proposed := validOrder("u1", "a@co.com")
		proposed["status"] = "Received"
		d := e.Decide(ctx, withoutClaim("u3"), orderReq(authz.OpUpdate, existing, proposed))
		assert.Equal(t, authz.Deny, d.Effect)
	})
}

func TestOrderUpdateByManager(t *testing.T) {
	e := authz.New(nil)
	ctx := context.Background()
	mgr := withClaim("m1", true)
	existing := validOrder("u1", "a@co.com")

	// Managers are unrestricted: even ownership fields may change, with no
	// precondition on prior values.
	proposed := validOrder("u2", "b@co.com")
	proposed["status"] = "Delivered"
	proposed["internalNote"] = "reassigned after u1 left"

	d := e.Decide(ctx, mgr, orderReq(authz.OpUpdate, existing, proposed))
	assert.Equal(t, authz.Allow, d.Effect, d.Reason)
}

func TestOrderDelete(t *testing.T) {
	e := authz.New(nil)
	ctx := context.Background()
	existing := validOrder("u1", "a@co.com")

	// Owner but not manager.
	d := e.Decide(ctx, withoutClaim("u1"), orderReq(authz.OpDelete, existing, nil))
	assert.Equal(t, authz.Deny, d.Effect)

	// Manager.
	d = e.Decide(ctx, withClaim("m1", true), orderReq(authz.OpDelete, existing, nil))
	assert.Equal(t, authz.Allow, d.Effect)

	// Unauthenticated.
	d = e.Decide(ctx, principal.Principal{}, orderReq(authz.OpDelete, existing, nil))
	assert.Equal(t, authz.Deny, d.Effect)
}
