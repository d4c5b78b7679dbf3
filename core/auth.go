package core

// AuthData is the opaque verified identity obtained from an external
// identity provider.
type AuthData struct {
	IDToken  string `json:"idToken"`
	Provider string `json:"provider"`
}

// SessionData carries the session-authorization parameters of an
// AuthPayload. The nonce is a fresh UUID per authentication attempt;
// the validity window is embedded in the paymaster data blob.
type SessionData struct {
	Nonce                string `json:"nonce"`
	ClientSWA            string `json:"clientSWA"`
	SessionPK            string `json:"sessionPk"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	Paymaster            string `json:"paymaster"`
	PaymasterData        string `json:"paymasterData"`
}

// AuthPayload is the single-use session-authorization payload sent to
// the authentication service. Both signatures cover the same digest,
// the keccak hash of the ABI-encoded session key address: one under
// the long-lived client key and one under the session key itself.
type AuthPayload struct {
	AuthData                 AuthData    `json:"authData"`
	SessionData              SessionData `json:"sessionData"`
	SessionPKClientSignature string      `json:"sessionPkClientSignature"`
	SessionDataUserSignature string      `json:"sessionDataUserSignature"`
}

// AuthResult is the authentication service's successful response body.
type AuthResult struct {
	UserSWA      string `json:"userSWA"`
	AuthToken    string `json:"authToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	DeviceToken  string `json:"deviceToken,omitempty"`
}
