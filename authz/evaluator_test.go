package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/principal"
)

func TestAuthorizeAllowed(t *testing.T) {
	e := authz.New(nil)

	err := e.Authorize(context.Background(), principal.Principal{UID: "u1", Email: "a@co.com"},
		orderReq(authz.OpCreate, nil, validOrder("u1", "a@co.com")))
	assert.NoError(t, err)
}

func TestAuthorizeDenialIsOpaque(t *testing.T) {
	e := authz.New(nil)

	// Two denials with different internal reasons must be indistinguishable
	// to the caller.
	err1 := e.Authorize(context.Background(), principal.Principal{UID: "u1", Email: "a@co.com"},
		orderReq(authz.OpCreate, nil, validOrder("u2", "a@co.com")))
	err2 := e.Authorize(context.Background(), principal.Principal{UID: "u1", Email: "a@co.com"},
		orderReq(authz.OpCreate, nil, authz.Document{"status": "Locate"}))

	require.Error(t, err1)
	require.Error(t, err2)
	assert.ErrorIs(t, err1, authz.ErrPermissionDenied)
	assert.ErrorIs(t, err2, authz.ErrPermissionDenied)
	assert.Equal(t, err1.Error(), err2.Error())
	assert.Equal(t, codes.PermissionDenied, errors.Code(err1))
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	e := authz.New(nil)

	err := e.Authorize(context.Background(), principal.Principal{},
		orderReq(authz.OpRead, validOrder("u1", "a@co.com"), nil))
	assert.ErrorIs(t, err, authz.ErrUnauthenticated)
	assert.Equal(t, codes.Unauthenticated, errors.Code(err))
}

func TestAuthorizeUnknownCollection(t *testing.T) {
	e := authz.New(nil)

	err := e.Authorize(context.Background(), withClaim("m1", true), authz.Request{
		Collection: "invoices",
		DocID:      "i1",
		Operation:  authz.OpRead,
	})
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
}

func TestMalformedRequestDeniedLikePolicyViolation(t *testing.T) {
	e := authz.New(nil)
	p := principal.Principal{UID: "u1", Email: "a@co.com"}

	// Wrong types and missing fields surface as the same opaque denial as a
	// true authorization failure.
	doc := validOrder("u1", "a@co.com")
	doc["createdByUid"] = 42

	err := e.Authorize(context.Background(), p, orderReq(authz.OpCreate, nil, doc))
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
}

func TestAuditLoggerSeesBothOutcomes(t *testing.T) {
	var decisions []authz.AuditDecision
	e := authz.New(nil, authz.WithAuditLogger(func(ctx context.Context, d authz.AuditDecision) {
		decisions = append(decisions, d)
	}))
	ctx := context.Background()
	p := principal.Principal{UID: "u1", Email: "a@co.com"}

	_ = e.Authorize(ctx, p, orderReq(authz.OpCreate, nil, validOrder("u1", "a@co.com")))
	_ = e.Authorize(ctx, p, orderReq(authz.OpCreate, nil, validOrder("u2", "a@co.com")))

	require.Len(t, decisions, 2)

	assert.Equal(t, authz.Allow, decisions[0].Effect)
	assert.Equal(t, "u1", decisions[0].UID)
	assert.Equal(t, authz.CollectionOrders, decisions[0].Collection)
	assert.Equal(t, authz.OpCreate, decisions[0].Operation)

	assert.Equal(t, authz.Deny, decisions[1].Effect)
	assert.NotEmpty(t, decisions[1].Reason)
}

func TestEvaluatorIsManagerPassthrough(t *testing.T) {
	profiles := map[string]authz.Document{
		"u1": {"isManager": true},
	}
	e := authz.New(authz.ProfileReaderFn(func(ctx context.Context, uid string) (authz.Document, error) {
		return profiles[uid], nil
	}))
	ctx := context.Background()

	assert.True(t, e.IsManager(ctx, withoutClaim("u1")))
	assert.False(t, e.IsManager(ctx, withoutClaim("u2")))
}
