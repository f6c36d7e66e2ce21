// Package claims contains the administrative tooling that manages the
// isManager custom claim. Granting or revoking manager status is an
// out-of-band operation performed with admin credentials; the policy layer
// only ever reads the claim.
//
// The claim and the users/{uid}.isManager document field are kept in sync so
// that manager resolution gives the same answer on both paths: the claim for
// principals with a fresh token, the profile field for principals whose
// token predates the change.
package claims

import (
	"context"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/docstore"
	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/logging"
	"github.com/maxline/ordergate/principal"
)

// TokenAdmin sets custom claims on identities at the identity provider.
type TokenAdmin interface {
	// SetManagerClaim attaches the isManager claim to the identity's future
	// tokens. Existing tokens are unaffected until refresh.
	SetManagerClaim(ctx context.Context, uid string, isManager bool) error
}

// Admin grants and revokes manager status, keeping the custom claim and the
// profile document field synchronized.
type Admin struct {
	tokens TokenAdmin
	store  docstore.Store
}

// NewAdmin creates an Admin over the given token admin and document store.
func NewAdmin(tokens TokenAdmin, store docstore.Store) *Admin {
	return &Admin{tokens: tokens, store: store}
}

// SetManager sets the identity's manager status. The claim is written first:
// claims take precedence during resolution, so a half-applied change errs on
// the side the token already carries.
func (a *Admin) SetManager(ctx context.Context, uid string, isManager bool) error {
	if uid == "" {
		return errors.New("uid required")
	}
	if err := a.tokens.SetManagerClaim(ctx, uid, isManager); err != nil {
		return errors.WrapPrefix(err, "setting custom claim")
	}

	doc, err := a.store.Get(ctx, authz.CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			// No profile yet; it will pick up the claim at first sign-in
			// and the field on its first manager-driven update.
			logging.Infow(ctx, "manager claim set before profile creation",
				"uid", uid, principal.ManagerClaimKey, isManager)
			return nil
		}
		return errors.WrapPrefix(err, "reading profile")
	}

	doc[principal.ManagerClaimKey] = isManager
	if err := a.store.Set(ctx, authz.CollectionUsers, uid, doc); err != nil {
		return errors.WrapPrefix(err, "syncing profile field")
	}

	logging.Infow(ctx, "manager status updated",
		"uid", uid, principal.ManagerClaimKey, isManager)
	return nil
}

// Grant makes the identity a manager.
func (a *Admin) Grant(ctx context.Context, uid string) error {
	return a.SetManager(ctx, uid, true)
}

// Revoke removes the identity's manager status.
func (a *Admin) Revoke(ctx context.Context, uid string) error {
	return a.SetManager(ctx, uid, false)
}
