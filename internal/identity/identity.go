// Package identity resolves the calling actor from bearer credentials. The
// service never stores credentials itself; tokens are minted by the identity
// provider and only verified here.
package identity

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/crewlink/internal/config"
)

var (
	ErrInvalidToken  = errors.New("invalid_token")
	ErrMissingSecret = errors.New("auth_jwt_secret_required")
)

// devSecret keeps local development working without configuration. Production
// refuses to start without an explicit secret.
const devSecret = "crewlink-dev-secret"

func secretFromConfig(cfg config.Config) ([]byte, error) {
	if cfg.AuthJWTSecret != "" {
		return []byte(cfg.AuthJWTSecret), nil
	}
	if cfg.IsProduction() {
		return nil, ErrMissingSecret
	}
	return []byte(devSecret), nil
}

// Verifier validates bearer tokens and extracts the actor identity.
type Verifier struct {
	secret []byte
}

func NewVerifier(cfg config.Config) (*Verifier, error) {
	secret, err := secretFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Verifier{secret: secret}, nil
}

// Parse returns the actor id carried in the token subject.
func (v *Verifier) Parse(raw string) (snowflake.ID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidToken
	}
	actorID, err := snowflake.ParseString(subject)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return actorID, nil
}

// Issuer mints actor tokens. Used by the dev token endpoint and tests.
type Issuer struct {
	secret []byte
}

func NewIssuer(cfg config.Config) (*Issuer, error) {
	secret, err := secretFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Issuer{secret: secret}, nil
}

// Issue returns a signed token whose subject is the actor id.
func (i *Issuer) Issue(actorID snowflake.ID, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   actorID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
