package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value in the Authorization header.
const BearerPrefix = "Bearer "

// DefaultChunkSize is the multipart part size used when none is configured.
const DefaultChunkSize = 8 << 20

// MaxFileNameLength bounds File.Name, in characters.
const MaxFileNameLength = 255

// MaxOwnerLength bounds owner identifiers, in characters.
const MaxOwnerLength = 150
