package authz

import (
	"context"

	"github.com/maxline/ordergate/principal"
)

// Fields a profile document may carry at creation time. Exactness here stops
// clients smuggling arbitrary fields into a new profile.
var profileCreateFields = []string{"displayName", "email", "isManager"}

// userPolicy guards the users/{userId} collection.
//
//	create: self only, email bound to the token, no self-granted manager flag
//	read: self, or any document for managers
//	update: self with isManager and email frozen, unrestricted for managers
//	delete: denied for everyone
type userPolicy struct{}

func (userPolicy) Evaluate(ctx context.Context, p principal.Principal, req Request, mgr managerFn) Decision {
	switch req.Operation {
	case OpCreate:
		return userCreate(p, req)
	case OpRead:
		if isOwner(p, req.DocID) {
			return allow("self read")
		}
		if mgr(ctx) {
			return allow("manager read")
		}
		return deny("not owner or manager")
	case OpUpdate:
		return userUpdate(ctx, p, req, mgr)
	case OpDelete:
		// Profiles are never deleted, managers included. There is no
		// attrition-by-self-delete path at this layer.
		return deny("profile delete is always denied")
	}
	return deny("unknown operation")
}

func userCreate(p principal.Principal, req Request) Decision {
	if !isOwner(p, req.DocID) {
		return deny("profile key must match principal uid")
	}
	if req.Proposed == nil {
		return deny("no proposed document")
	}
	if !req.Proposed.HasOnly(profileCreateFields...) {
		return deny("unexpected fields on profile create")
	}
	if !fieldEquals(req.Proposed, "email", p.Email) {
		return deny("profile email must match token email")
	}
	// isManager may be absent or explicitly false. A principal can never
	// self-grant manager status; elevation goes through the claims admin.
	if req.Proposed.Has("isManager") {
		v, ok := req.Proposed.Bool("isManager")
		if !ok || v {
			return deny("cannot self-grant manager status")
		}
	}
	return allow("self create")
}

func userUpdate(ctx context.Context, p principal.Principal, req Request, mgr managerFn) Decision {
	// The manager branch is checked first so that managers editing their own
	// profile, including demoting themselves, fall under manager rules
	// rather than the frozen-field self rules.
	if mgr(ctx) {
		return allow("manager update")
	}
	if !isOwner(p, req.DocID) {
		return deny("not owner or manager")
	}
	if req.Proposed == nil {
		return deny("no proposed document")
	}
	if !Unchanged(req.Existing, req.Proposed, "isManager") {
		return deny("cannot change own manager status")
	}
	if !Unchanged(req.Existing, req.Proposed, "email") {
		return deny("cannot change identity-bound email")
	}
	return allow("self update")
}
