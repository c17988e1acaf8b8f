// Package openapi embeds the gateway's OpenAPI document.
package openapi

import _ "embed"

// YAML is the OpenAPI description served at /openapi.yaml.
//
//go:embed openapi.yaml
var YAML []byte
