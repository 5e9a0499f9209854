// Package openapi embeds the OpenAPI document of the users API.
package openapi

import _ "embed"

// UsersJSON is the OpenAPI 3 document served at /openapi/users.json.
//
//go:embed users.json
var UsersJSON []byte
