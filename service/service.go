// Package service exposes the guarded document operations the API serves.
// Every mutation and read is authorized against the collection policies
// before the store is touched; documents flow through unmodified, so the
// policies see exactly what the caller submitted.
package service

import (
	"context"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/docstore"
	"github.com/maxline/ordergate/principal"
)

// Service wires the policy evaluator in front of a document store.
type Service struct {
	store docstore.Store
	authz *authz.Evaluator
}

// New creates a Service over the given store and evaluator.
func New(store docstore.Store, evaluator *authz.Evaluator) *Service {
	return &Service{store: store, authz: evaluator}
}

// caller returns the principal attached to the context. An absent principal
// is treated as a signed-out caller, not an error; the policies decide what
// signed-out callers may do.
func caller(ctx context.Context) principal.Principal {
	p, err := principal.FromContext(ctx)
	if err != nil {
		return principal.Principal{}
	}
	return p
}
