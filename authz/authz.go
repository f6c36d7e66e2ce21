// Package authz implements the authorization policy for the ordergate
// document collections. It is a standalone reimplementation of the database
// security rules that guard the `users` and `orders` collections: two
// per-collection policies composed from small named predicates, evaluated by
// an explicit switch over {collection, operation}.
//
// # Core concepts
//
// Every request is a proposed document operation: a collection, a document
// id, an operation (create, read, update, delete), the existing document (if
// any) and the proposed document (for writes). Policies are pure predicates
// over the acting principal and those documents. Evaluation is synchronous,
// side-effect free and all-or-nothing: any violated clause denies the whole
// operation.
//
// # Manager resolution
//
// Whether the acting principal is a manager is resolved claim-first: a true
// `isManager` custom claim answers the question with zero reads. Only when
// the claim is absent does the resolver read the principal's OWN profile
// document. It never reads another principal's profile — a manager check that
// reads a foreign document re-enters the user policy, whose own manager
// check reads another document, and so on without termination. Constraining
// the fallback to the self document (always readable under the user policy's
// self-read rule) breaks that cycle.
//
// # Denial semantics
//
// Callers receive a single opaque denial regardless of which clause failed.
// The internal reason is recorded on the request-scoped logger and handed to
// the audit hook, never to the client.
package authz

import (
	"reflect"
	"slices"
)

// Collections guarded by the policy.
const (
	CollectionUsers  = "users"
	CollectionOrders = "orders"
)

// Operation identifies a document operation.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type Effect int

const (
	Deny Effect = iota
	Allow
)

func (e Effect) String() string {
	if e == Deny {
		return "DENY"
	}
	return "ALLOW"
}

// Document is a field map, mirroring how the hosting database presents
// documents to rule evaluation.
type Document map[string]interface{}

// Has reports whether the field is present.
func (d Document) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// HasAll reports whether every named field is present.
func (d Document) HasAll(fields ...string) bool {
	for _, f := range fields {
		if !d.Has(f) {
			return false
		}
	}
	return true
}

// HasOnly reports whether the document's field set is a subset of the
// allowed fields. Used to reject injection of arbitrary extra fields at
// creation time.
func (d Document) HasOnly(allowed ...string) bool {
	for field := range d {
		if !slices.Contains(allowed, field) {
			return false
		}
	}
	return true
}

// Str returns the named field as a string. ok is false when the field is
// absent or not a string, so type confusion fails closed.
func (d Document) Str(field string) (string, bool) {
	v, ok := d[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the named field as a bool. ok is false when the field is
// absent or not a bool.
func (d Document) Bool(field string) (bool, bool) {
	v, ok := d[field]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Unchanged reports whether the named field carries the same value in both
// documents, counting absent-in-both as unchanged.
func Unchanged(existing, proposed Document, field string) bool {
	ev, eok := existing[field]
	pv, pok := proposed[field]
	if eok != pok {
		return false
	}
	if !eok {
		return true
	}
	return reflect.DeepEqual(ev, pv)
}

// ChangedFields returns the names of fields whose values differ between the
// two documents, including fields added or removed.
func ChangedFields(existing, proposed Document) []string {
	var changed []string
	for field := range existing {
		if !Unchanged(existing, proposed, field) {
			changed = append(changed, field)
		}
	}
	for field := range proposed {
		if !existing.Has(field) {
			changed = append(changed, field)
		}
	}
	return changed
}

// Request describes a proposed document operation.
type Request struct {
	// Collection the operation targets, e.g. "orders".
	Collection string

	// DocID is the document key within the collection. For user profiles
	// this is the owning principal's uid.
	DocID string

	// Operation being performed.
	Operation Operation

	// Existing is the current document, nil when it does not exist.
	Existing Document

	// Proposed is the document as it would exist after the write. It is the
	// full post-write document, not a patch. Nil for reads and deletes.
	Proposed Document
}

// Decision is the outcome of evaluating a request, including the internal
// reason. The reason is for logs and audit only and must never be returned
// to clients.
type Decision struct {
	Effect Effect
	Reason string
}

func allow(reason string) Decision {
	return Decision{Effect: Allow, Reason: reason}
}

func deny(reason string) Decision {
	return Decision{Effect: Deny, Reason: reason}
}
