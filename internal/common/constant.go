// Package common contains shared constants and sentinel errors used across
// credkeeper components.
package common

// AuthorizationHeaderName is the gRPC metadata key and HTTP header used to
// carry the bearer access token on authenticated requests.
const AuthorizationHeaderName = "authorization"

// BearerScheme prefixes the access token inside the authorization header.
const BearerScheme = "Bearer"
