package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme accepted by the API.
const BearerScheme = "bearer"

// TokenTypeAccess is the value of the "type" claim in access tokens.
const TokenTypeAccess = "access"
