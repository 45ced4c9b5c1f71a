package model

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes the stored section list loosely: enough to tell a
// document written by this program apart from garbage under the same key.
const documentSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "type"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "type": {"type": "string"},
      "title": {"type": "string"},
      "content": {"type": "string"},
      "projects": {"type": ["array", "null"]},
      "languages": {"type": ["array", "null"]},
      "technologies": {"type": ["array", "null"]}
    }
  }
}`

const catalogSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name"],
    "properties": {
      "name": {"type": "string"},
      "icon": {"type": "string"}
    }
  }
}`

var (
	documentLoader = gojsonschema.NewStringLoader(documentSchema)
	catalogLoader  = gojsonschema.NewStringLoader(catalogSchema)
)

// ValidateDocument checks raw bytes stored under the document key.
func ValidateDocument(raw []byte) error {
	return validate(documentLoader, raw)
}

// ValidateCatalog checks raw bytes stored under the custom technologies key.
func ValidateCatalog(raw []byte) error {
	return validate(catalogLoader, raw)
}

func validate(schema gojsonschema.JSONLoader, raw []byte) error {
	res, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
