// Package common contains shared constants and sentinel errors used across
// gophtasks components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value inside the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed on every response so client and server logs
// can be correlated.
const RequestIDHeaderName = "X-Request-ID"

// DefaultTokenName labels tokens issued by the login and register flows.
const DefaultTokenName = "auth_token"
