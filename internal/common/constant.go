// Package common contains small helpers shared across Desa Bantuin client
// components: random bytes, memory wiping and API constants.
package common

// BearerTokenType is the token_type the backend reports for issued tokens.
const BearerTokenType = "Bearer"
