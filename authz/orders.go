package authz

import (
	"context"
	"slices"

	"github.com/maxline/ordergate/principal"
)

// OrderStatuses is the legal status domain for orders. Membership is flat:
// the policy layer does not constrain which status may follow which.
var OrderStatuses = []string{
	"Factory Order",
	"Locate",
	"Dealer Exchange",
	"Received",
	"Delivered",
}

// Fields that must be present on every new order. The ownership pair and
// creation timestamp are immutable afterwards.
var orderRequiredFields = []string{"createdByUid", "createdByEmail", "createdAt", "status"}

// Fields a non-manager owner may change on their own order. Everything else,
// the ownership triplet in particular, is frozen for owners.
var ownerMutableFields = []string{"status", "notes", "customer", "vehicle", "pricing"}

func validStatus(s string) bool {
	return slices.Contains(OrderStatuses, s)
}

// orderPolicy guards the orders/{orderId} collection.
//
//	create: any signed-in principal, attributed to themselves
//	read: owner or manager
//	update: unrestricted for managers, allow-listed fields for owners
//	delete: manager only
type orderPolicy struct{}

func (orderPolicy) Evaluate(ctx context.Context, p principal.Principal, req Request, mgr managerFn) Decision {
	switch req.Operation {
	case OpCreate:
		return orderCreate(p, req)
	case OpRead:
		if orderOwner(p, req.Existing) {
			return allow("owner read")
		}
		if mgr(ctx) {
			return allow("manager read")
		}
		return deny("not owner or manager")
	case OpUpdate:
		return orderUpdate(ctx, p, req, mgr)
	case OpDelete:
		if mgr(ctx) {
			return allow("manager delete")
		}
		return deny("only managers may delete orders")
	}
	return deny("unknown operation")
}

// orderOwner reports whether the document's createdByUid matches the
// principal. Ownership lives on the document, bound at creation to the
// authenticated identity, never to client-supplied data.
func orderOwner(p principal.Principal, d Document) bool {
	if d == nil {
		return false
	}
	uid, ok := d.Str("createdByUid")
	return ok && isOwner(p, uid)
}

func orderCreate(p principal.Principal, req Request) Decision {
	if !isSignedIn(p) {
		return deny("authentication required")
	}
	if req.Proposed == nil {
		return deny("no proposed document")
	}
	if !req.Proposed.HasAll(orderRequiredFields...) {
		return deny("missing required order fields")
	}
	// Ownership binds to the authenticated identity. Both checks are against
	// the token, not against any client-supplied value, closing the spoofing
	// vector of creating orders attributed to someone else.
	if !fieldEquals(req.Proposed, "createdByUid", p.UID) {
		return deny("createdByUid must match principal uid")
	}
	if !fieldEquals(req.Proposed, "createdByEmail", p.Email) {
		return deny("createdByEmail must match token email")
	}
	status, ok := req.Proposed.Str("status")
	if !ok || !validStatus(status) {
		return deny("status outside the legal set")
	}
	return allow("owner create")
}

func orderUpdate(ctx context.Context, p principal.Principal, req Request, mgr managerFn) Decision {
	if mgr(ctx) {
		return allow("manager update")
	}
	if !orderOwner(p, req.Existing) {
		return deny("not owner or manager")
	}
	if req.Proposed == nil {
		return deny("no proposed document")
	}
	for _, field := range ChangedFields(req.Existing, req.Proposed) {
		if !slices.Contains(ownerMutableFields, field) {
			return deny("field not owner-mutable: " + field)
		}
	}
	// Status stays within the legal domain on owner writes. Transitions are
	// not constrained to a graph; any legal value may follow any other.
	if !Unchanged(req.Existing, req.Proposed, "status") {
		status, ok := req.Proposed.Str("status")
		if !ok || !validStatus(status) {
			return deny("status outside the legal set")
		}
	}
	return allow("owner update")
}
