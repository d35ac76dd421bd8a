package shopify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Session token validation errors
var (
	ErrInvalidSessionToken = errors.New("shopify: invalid session token")
	ErrTokenShopMissing    = errors.New("shopify: session token has no shop destination")
)

// sessionClaims are the claims Shopify puts in App Bridge session
// tokens. dest carries the shop origin, aud must equal the app's API
// key.
type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// VerifySessionToken validates an App Bridge session token and returns
// the shop domain it was issued for. Tokens are HS256-signed with the
// app's API secret and carry the API key as audience.
func VerifySessionToken(token, apiKey, apiSecret string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(apiSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(apiKey),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidSessionToken
	}

	shop := strings.TrimPrefix(claims.Dest, "https://")
	shop = strings.TrimSuffix(shop, "/")
	if shop == "" {
		return "", ErrTokenShopMissing
	}
	return shop, nil
}
