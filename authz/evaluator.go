package authz

import (
	"context"

	"google.golang.org/grpc/codes"

	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/logging"
	"github.com/maxline/ordergate/principal"
)

var (
	// ErrPermissionDenied is the opaque denial returned for every rule
	// violation. Clients are not told which clause failed.
	ErrPermissionDenied = errors.Codef(codes.PermissionDenied, "you are not authorized to perform this action").
				WithPublicMessage("you are not authorized to perform this action")

	// ErrUnauthenticated is returned when a denied request carried no
	// authenticated identity at all.
	ErrUnauthenticated = errors.Codef(codes.Unauthenticated, "the requested action requires authentication").
				WithPublicMessage("the requested action requires authentication")
)

// AuditLogger receives every authorization decision, allowed and denied,
// including the internal reason. Useful for compliance trails and for
// debugging denials without weakening the opaque client-facing error.
type AuditLogger func(ctx context.Context, d AuditDecision)

// AuditDecision describes one evaluated request for the audit hook.
type AuditDecision struct {
	UID        string
	Email      string
	Collection string
	DocID      string
	Operation  Operation
	Effect     Effect
	Reason     string
}

// collectionPolicy evaluates the operations of one collection. The manager
// flag is passed as a lazy function so rules that never consult it incur no
// profile read.
type collectionPolicy interface {
	Evaluate(ctx context.Context, p principal.Principal, req Request, mgr managerFn) Decision
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithAuditLogger configures an audit hook to receive all decisions.
func WithAuditLogger(l AuditLogger) Option {
	return func(e *Evaluator) {
		e.audit = l
	}
}

// Evaluator evaluates document operations against the collection policies.
// It is stateless between requests and safe for concurrent use.
type Evaluator struct {
	resolver *ManagerResolver
	policies map[string]collectionPolicy
	audit    AuditLogger
}

// New creates an Evaluator. The profile reader backs the manager resolver's
// claim fallback; it may be nil, in which case manager status comes from
// claims alone.
func New(profiles ProfileReader, opts ...Option) *Evaluator {
	e := &Evaluator{
		resolver: NewManagerResolver(profiles),
		policies: map[string]collectionPolicy{
			CollectionUsers:  userPolicy{},
			CollectionOrders: orderPolicy{},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide evaluates the request and returns the decision with its internal
// reason. Most callers want Authorize; Decide exists for the audit path and
// for tests.
func (e *Evaluator) Decide(ctx context.Context, p principal.Principal, req Request) Decision {
	policy, ok := e.policies[req.Collection]
	if !ok {
		// Unknown collections are not governed by any rule, so nothing can
		// allow them.
		return deny("no policy for collection: " + req.Collection)
	}
	return policy.Evaluate(ctx, p, req, e.resolver.memoized(p))
}

// Authorize evaluates the request and returns nil if it is allowed. Denials
// surface as a single opaque error: ErrUnauthenticated when no identity was
// presented, ErrPermissionDenied otherwise. The internal reason goes to the
// request-scoped logger and the audit hook only.
func (e *Evaluator) Authorize(ctx context.Context, p principal.Principal, req Request) error {
	d := e.Decide(ctx, p, req)

	logging.Track(ctx, "authz.collection", req.Collection)
	logging.Track(ctx, "authz.docID", req.DocID)
	logging.Track(ctx, "authz.op", string(req.Operation))
	logging.Track(ctx, "authz.effect", d.Effect.String())
	logging.Track(ctx, "authz.reason", d.Reason)

	if e.audit != nil {
		e.audit(ctx, AuditDecision{
			UID:        p.UID,
			Email:      p.Email,
			Collection: req.Collection,
			DocID:      req.DocID,
			Operation:  req.Operation,
			Effect:     d.Effect,
			Reason:     d.Reason,
		})
	}

	if d.Effect == Allow {
		return nil
	}
	if !p.SignedIn() {
		return ErrUnauthenticated
	}
	return ErrPermissionDenied
}

// IsManager exposes the resolver for callers that need the flag outside of a
// document operation, such as list filtering.
func (e *Evaluator) IsManager(ctx context.Context, p principal.Principal) bool {
	return e.resolver.IsManager(ctx, p)
}
