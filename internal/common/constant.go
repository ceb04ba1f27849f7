// Package common contains shared constants and sentinel errors used across
// penguin tracker components.
package common

// AuthorizationHeaderName carries the bearer access token on outbound
// requests to the penguin backend.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName correlates a client call with backend logs.
const RequestIDHeaderName = "X-Request-ID"

// Credential store keys. The values are the only durable secrets the client
// owns.
const (
	CredentialEmailKey    = "auth_user_email"
	CredentialPasswordKey = "auth_user_password"
)
