package httpapi

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/principal"
)

// TokenVerifier turns a bearer token into an authenticated principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (principal.Principal, error)
}

// LocalVerifier verifies tokens issued by the local signer. Used in
// development and tests, where no identity provider is available.
type LocalVerifier struct {
	signer *principal.Signer
}

// NewLocalVerifier creates a verifier over the given signer.
func NewLocalVerifier(signer *principal.Signer) *LocalVerifier {
	return &LocalVerifier{signer: signer}
}

func (v *LocalVerifier) Verify(ctx context.Context, token string) (principal.Principal, error) {
	return v.signer.Parse(token)
}

// FirebaseVerifier verifies Firebase ID tokens. Custom claims set through the
// claims admin ride along on the token and feed manager resolution.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier creates a verifier from an initialized Firebase app.
func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.WrapPrefix(err, "initializing auth client")
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (principal.Principal, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return principal.Principal{}, errors.Wrap(principal.ErrInvalid)
	}

	p := principal.Principal{
		UID:    t.UID,
		Claims: t.Claims,
	}
	if email, ok := t.Claims["email"].(string); ok {
		p.Email = email
	}
	if verified, ok := t.Claims["email_verified"].(bool); ok {
		p.EmailVerified = verified
	}
	if name, ok := t.Claims["name"].(string); ok {
		p.Name = name
	}
	return p, nil
}
