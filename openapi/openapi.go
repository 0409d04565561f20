// Package openapi carries the machine-readable API description.
package openapi

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
