// Package schema validates suggest-prompts payloads against embedded JSON
// schemas and decodes them into typed models.
//
// Decoding is the only way a request reaches the handler: the raw body is
// first checked against suggest_request.json and only then unmarshalled, so
// callers either get a fully populated *models.SuggestRequest or a
// *ValidationError, never something in between.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"suggest-backend/internal/models"
)

//go:embed suggest_request.json
var requestSchemaContent []byte

//go:embed suggest_response.json
var responseSchemaContent []byte

const (
	requestResourceID  = "suggest://suggest_request.json"
	responseResourceID = "suggest://suggest_response.json"
)

// Validator holds the compiled request and response schemas. Compiled
// schemas are read-only, so a Validator is safe for concurrent use.
type Validator struct {
	request  *jsonschema.Schema
	response *jsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	resources := map[string][]byte{
		requestResourceID:  requestSchemaContent,
		responseResourceID: responseSchemaContent,
	}
	for id, content := range resources {
		if err := compiler.AddResource(id, bytes.NewReader(content)); err != nil {
			return nil, newValidationError(ErrSchemaCompile, "failed to add schema resource "+id, err)
		}
	}

	request, err := compiler.Compile(requestResourceID)
	if err != nil {
		return nil, newValidationError(ErrSchemaCompile, "failed to compile request schema", err)
	}
	response, err := compiler.Compile(responseResourceID)
	if err != nil {
		return nil, newValidationError(ErrSchemaCompile, "failed to compile response schema", err)
	}

	return &Validator{request: request, response: response}, nil
}

// DecodeSuggestRequest validates data and returns the typed request with
// defaults applied.
func (v *Validator) DecodeSuggestRequest(data []byte) (*models.SuggestRequest, error) {
	if err := v.validate(v.request, data, "request"); err != nil {
		return nil, err
	}

	var req models.SuggestRequest
	if err := json.Unmarshal(data, &req); err != nil {
		// The schema accepts some values Go cannot hold, e.g. n = 1e40.
		valErr := newValidationError(ErrSchemaViolation, "request does not match schema", err)
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			valErr.Fields = map[string]string{fieldErr.Field: fieldErr.Message}
		} else {
			valErr.Fields = map[string]string{rootField: "request could not be decoded"}
		}
		return nil, valErr
	}
	req.ApplyDefaults()

	return &req, nil
}

// ValidateSuggestResponse checks that resp encodes to a schema-conformant document.
func (v *Validator) ValidateSuggestResponse(resp *models.SuggestResponse) error {
	if resp == nil {
		return newValidationError(ErrSchemaViolation, "response is nil", nil)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "failed to encode response")
	}
	return v.validate(v.response, data, "response")
}

func (v *Validator) validate(s *jsonschema.Schema, data []byte, what string) error {
	doc, err := decodeJSON(data)
	if err != nil {
		valErr := newValidationError(ErrInvalidJSON, what+" is not valid JSON", err)
		valErr.Fields = map[string]string{rootField: "invalid JSON"}
		return valErr
	}

	if err := s.Validate(doc); err != nil {
		var schemaErr *jsonschema.ValidationError
		if errors.As(err, &schemaErr) {
			return convertValidationError(schemaErr, what)
		}
		return errors.Wrapf(err, "%s validation failed unexpectedly", what)
	}
	return nil
}

// decodeJSON parses a single JSON document, keeping numbers as json.Number
// so integer checks see the literal the client sent.
func decodeJSON(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return doc, nil
}
