package http

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed api/openapi.yaml
var openAPIDocument []byte

// loadOpenAPISpec parses and validates the embedded API contract.
// The document drives request validation on the /api group, so a broken
// contract fails startup instead of silently waving requests through.
func loadOpenAPISpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	spec, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("parse OpenAPI document: %w", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate OpenAPI document: %w", err)
	}

	return spec, nil
}
