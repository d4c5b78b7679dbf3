package ports

import "github.com/layer-3/rangda/core"

// Tokenizer converts between session descriptors and the access
// tokens handed to API callers. Access tokens reference the stored
// descriptor by session id; they never carry key material.
type Tokenizer interface {
	SessionToAccessToken(session *core.Session) (string, error)
	AccessTokenToSession(token string) (*core.Session, error)
}
