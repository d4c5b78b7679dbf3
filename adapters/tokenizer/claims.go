package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the claims of an API access token. The JWT ID is
// the session id under which the descriptor is stored; the subject is
// the user's smart wallet address.
type AccessClaims struct {
	jwt.RegisteredClaims
}
