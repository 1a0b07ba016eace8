// Package common contains shared constants and sentinel errors used across
// GophTasks components.
package common

// AuthHeaderName is the HTTP header carrying the bearer token on
// owner-scoped requests.
const AuthHeaderName = "Authorization"

// AuthScheme is the expected prefix of the AuthHeaderName value.
const AuthScheme = "Bearer"
