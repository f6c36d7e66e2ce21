package claims

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/principal"
)

// FirebaseTokenAdmin sets custom claims through the Firebase Admin SDK.
type FirebaseTokenAdmin struct {
	client *auth.Client
}

// NewFirebaseTokenAdmin creates a token admin from an initialized Firebase
// app.
func NewFirebaseTokenAdmin(ctx context.Context, app *firebase.App) (*FirebaseTokenAdmin, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.WrapPrefix(err, "creating firebase auth client")
	}
	return &FirebaseTokenAdmin{client: client}, nil
}

// SetManagerClaim merges the isManager claim into the identity's existing
// custom claims. Other claims are preserved.
func (f *FirebaseTokenAdmin) SetManagerClaim(ctx context.Context, uid string, isManager bool) error {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return errors.WrapPrefix(err, "looking up user")
	}

	merged := map[string]interface{}{}
	for k, v := range user.CustomClaims {
		merged[k] = v
	}
	merged[principal.ManagerClaimKey] = isManager

	return f.client.SetCustomUserClaims(ctx, uid, merged)
}
