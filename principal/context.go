package principal

import (
	"context"

	"google.golang.org/grpc/codes"

	"github.com/maxline/ordergate/errors"
)

// No principal was found within the incoming context.
var ErrNotFound = errors.NewC("principal not found", codes.Unauthenticated)

type ctxkey struct{}

// WithPrincipal attaches an authenticated principal to the context. This is
// done once per request by the transport layer, after token verification.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxkey{}, p)
}

// FromContext returns the principal attached to the context. Policies should
// receive principals as explicit arguments; this accessor is for the
// transport layer only.
func FromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(ctxkey{}).(Principal)
	if !ok {
		return Principal{}, errors.Wrap(ErrNotFound)
	}
	return p, nil
}
