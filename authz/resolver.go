package authz

import (
	"context"

	"github.com/maxline/ordergate/logging"
	"github.com/maxline/ordergate/principal"
)

// ProfileReader fetches a single user profile document by uid. The resolver
// only ever requests the acting principal's own document; implementations do
// not need to, and must not, enforce access control of their own.
type ProfileReader interface {
	ReadProfile(ctx context.Context, uid string) (Document, error)
}

// ProfileReaderFn adapts a function to the ProfileReader interface.
type ProfileReaderFn func(ctx context.Context, uid string) (Document, error)

func (f ProfileReaderFn) ReadProfile(ctx context.Context, uid string) (Document, error) {
	return f(ctx, uid)
}

// ManagerResolver determines whether a principal is a manager.
//
// Precedence: a present isManager custom claim decides with zero reads,
// whether true or false. Only an absent claim falls back to the principal's
// own users/{uid} document. Errors from the fallback read resolve to false;
// resolution never fails open and never errors.
type ManagerResolver struct {
	profiles ProfileReader
}

// NewManagerResolver creates a resolver backed by the given profile reader.
// A nil reader is permitted; resolution then relies on claims alone.
func NewManagerResolver(profiles ProfileReader) *ManagerResolver {
	return &ManagerResolver{profiles: profiles}
}

// IsManager resolves the manager flag for the principal. Unauthenticated
// principals are never managers.
func (r *ManagerResolver) IsManager(ctx context.Context, p principal.Principal) bool {
	if !p.SignedIn() {
		return false
	}
	if value, present := p.ManagerClaim(); present {
		return value
	}
	if r.profiles == nil {
		return false
	}

	// Fallback is scoped to the principal's own document, which the user
	// policy's self-read rule always permits. This is what guarantees
	// termination: no foreign profile is ever consulted.
	doc, err := r.profiles.ReadProfile(ctx, p.UID)
	if err != nil {
		logging.Track(ctx, "authz.resolverError", err.Error())
		return false
	}
	v, ok := doc.Bool("isManager")
	return ok && v
}

// memoized returns a managerFn that resolves at most once per request, so a
// policy consulting the manager flag from several clauses costs at most one
// read.
func (r *ManagerResolver) memoized(p principal.Principal) managerFn {
	var resolved, value bool
	return func(ctx context.Context) bool {
		if !resolved {
			value = r.IsManager(ctx, p)
			resolved = true
		}
		return value
	}
}

// managerFn resolves the acting principal's manager flag lazily, so
// operations whose rules never consult it stay at zero reads.
type managerFn func(ctx context.Context) bool
