// Package principal models the authenticated identity making a request. A
// Principal is produced by an identity provider (a verified Firebase ID token
// in production, or a locally signed JWT in development) and consumed by the
// policy layer, which trusts its fields as given.
package principal

// ManagerClaimKey is the custom claim that marks an identity as a manager.
// It is attached to the auth token at issuance time by the claims admin
// tooling, so manager checks can be answered without a database read.
const ManagerClaimKey = "isManager"

// Principal is the acting identity for a request. The zero value represents
// an unauthenticated caller.
type Principal struct {
	// Stable identifier from the identity provider. Maps to the `sub` JWT
	// claim / Firebase UID.
	UID string

	// The email address received from the identity provider. Maps to the
	// `email` JWT claim.
	Email string

	// Whether the identity provider has verified the email address.
	EmailVerified bool

	// Display name received from the identity provider, if available.
	Name string

	// Custom claims attached to the identity's token at issuance time.
	Claims map[string]interface{}
}

// SignedIn reports whether the principal represents an authenticated
// identity.
func (p Principal) SignedIn() bool {
	return p.UID != ""
}

// ManagerClaim returns the value of the isManager custom claim and whether it
// is present on the token. A claim that is present but not a bool counts as
// present-and-false: malformed claims fail closed rather than falling back to
// a database read.
func (p Principal) ManagerClaim() (value, present bool) {
	v, ok := p.Claims[ManagerClaimKey]
	if !ok {
		return false, false
	}
	b, _ := v.(bool)
	return b, true
}
