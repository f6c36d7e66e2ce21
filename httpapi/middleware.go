package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"

	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/logging"
	"github.com/maxline/ordergate/principal"
)

// badToken maps any verification failure to an authentication error so that
// the client response does not distinguish malformed, mis-signed and expired
// tokens.
func badToken(err error) error {
	return errors.WrapPrefix(err, "verifying bearer token").
		WithCode(codes.Unauthenticated).
		WithPublicMessage("invalid or expired credentials")
}

// authenticate verifies the request's bearer token and attaches the resulting
// principal to the request context. Requests without an Authorization header
// proceed signed-out; the policies decide what signed-out callers may do. A
// present but invalid token is rejected outright.
func authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			renderError(c, badToken(principal.ErrInvalid))
			c.Abort()
			return
		}

		p, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			renderError(c, badToken(err))
			c.Abort()
			return
		}

		ctx := principal.WithPrincipal(c.Request.Context(), p)
		logging.Track(ctx, "uid", p.UID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestLogger attaches a request-scoped logger to the context and emits one
// line per request once the response is written.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logging.With(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logging.Infow(ctx, "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
