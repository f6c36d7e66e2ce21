package principal

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"

	"github.com/maxline/ordergate/errors"
)

var (
	// The token's expiration date was in the past.
	ErrExpired = errors.NewC("token has expired", codes.FailedPrecondition)

	// The token was not signed correctly or is otherwise unparsable.
	ErrInvalid = errors.NewC("token is invalid", codes.InvalidArgument)

	// Allows for time to be stubbed in tests.
	timeFunc = time.Now
)

const (
	issuer   = "ordergate"
	audience = "access"
)

// Claims is the JWT claim set for locally issued identity tokens. The
// isManager custom claim is a pointer so that an absent claim is
// distinguishable from an explicit false, which matters to the manager
// resolution precedence.
type Claims struct {
	jwt.RegisteredClaims
	Name          string `json:"name,omitempty"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	IsManager     *bool  `json:"isManager,omitempty"`
}

// Signer issues and verifies locally signed identity tokens. Production
// deployments verify Firebase ID tokens instead; the local signer exists for
// development and tests.
type Signer struct {
	key    []byte
	maxAge time.Duration
}

// NewSigner creates a Signer with the given HMAC signing key. Tokens expire
// after maxAge.
func NewSigner(key []byte, maxAge time.Duration) *Signer {
	return &Signer{key: key, maxAge: maxAge}
}

// Issue creates a signed JWT for the given principal, carrying its custom
// claims.
func (s *Signer) Issue(p Principal) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(timeFunc().Add(s.maxAge)),
			IssuedAt:  jwt.NewNumericDate(timeFunc()),
			Issuer:    issuer,
			Subject:   p.UID,
		},
		Name:          p.Name,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
	}
	if v, present := p.ManagerClaim(); present {
		claims.IsManager = &v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err)
	}
	return ss, nil
}

// Parse takes a signed JWT, validates it, and returns the principal encoded
// within. Invalid and expired tokens error.
func (s *Signer) Parse(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.key, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(timeFunc),
		jwt.WithIssuedAt(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpired
		}
		return Principal{}, ErrInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalid
	}

	p := Principal{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}
	if claims.IsManager != nil {
		p.Claims = map[string]interface{}{ManagerClaimKey: *claims.IsManager}
	}
	return p, nil
}
