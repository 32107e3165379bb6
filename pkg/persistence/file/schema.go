package file

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const ordersSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "customer", "status"],
		"properties": {
			"id": {"type": "string", "pattern": "^ORD-[0-9]+$"},
			"customer": {"type": "string", "minLength": 1},
			"item": {"type": "string"},
			"status": {"type": "string"},
			"total": {"type": "string"}
		}
	}
}`

const ticketsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "customer", "status"],
		"properties": {
			"id": {"type": "string", "pattern": "^TCK-[0-9]+$"},
			"customer": {"type": "string", "minLength": 1},
			"subject": {"type": "string"},
			"status": {"type": "string"},
			"last_reply": {"type": "string"}
		}
	}
}`

const servicesSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name", "status"],
		"properties": {
			"id": {"type": "string", "pattern": "^SRV-[A-Z0-9]+$"},
			"name": {"type": "string", "minLength": 1},
			"category": {"type": "string"},
			"status": {"type": "string"}
		}
	}
}`

func validateAgainstSchema(schema string, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, issue := range result.Errors() {
		issues = append(issues, issue.String())
	}

	return errors.New(strings.Join(issues, "; "))
}
