package authz

import (
	"github.com/maxline/ordergate/principal"
)

// The named rule helpers. These correspond one-to-one with the helper
// predicates of the declarative rule set and are deliberately tiny: policies
// read as conjunctions of them.

func isSignedIn(p principal.Principal) bool {
	return p.SignedIn()
}

// isOwner reports whether the principal's uid matches the given user id.
func isOwner(p principal.Principal, userID string) bool {
	return p.SignedIn() && p.UID == userID
}

// fieldEquals reports whether the document carries the exact string value in
// the named field. Absent or non-string fields fail the check.
func fieldEquals(d Document, field, want string) bool {
	v, ok := d.Str(field)
	return ok && v == want
}
