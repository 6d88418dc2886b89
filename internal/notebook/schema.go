// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema constrains the shape the extractor depends on. Outputs are
// only checked on code cells; everything else is left unchecked.
const documentSchema = `{
  "type": "object",
  "properties": {
    "cells": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "cell_type": {"type": "string"}
        },
        "if": {
          "properties": {"cell_type": {"const": "code"}},
          "required": ["cell_type"]
        },
        "then": {
          "properties": {
            "outputs": {
              "type": "array",
              "items": {
                "type": "object",
                "properties": {
                  "data": {
                    "type": "object",
                    "properties": {
                      "image/png": {"$ref": "#/$defs/multiline"},
                      "image/jpeg": {"$ref": "#/$defs/multiline"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  },
  "$defs": {
    "multiline": {
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    }
  }
}`

var schema = jsonschema.MustCompileString("notebook.schema.json", documentSchema)

// ErrInvalid is returned when a document does not have the notebook shape.
var ErrInvalid = errors.New("invalid notebook document")

func validate(doc any) error {
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(issues(verr), "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// issues flattens a validation error tree into "location: message" strings.
func issues(err *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			loc := node.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+strings.TrimSpace(node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return out
}
