package sections

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidData marks section data that does not match its type's schema.
var ErrInvalidData = errors.New("sections: invalid section data")

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// DataError lists the schema violations found in section data.
type DataError struct {
	Type   string
	Issues []Issue
}

func (e *DataError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		loc := issue.Location
		if loc == "" {
			loc = "/"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", loc, issue.Message))
	}
	return e.Type + " section: " + strings.Join(parts, "; ")
}

func (e *DataError) Unwrap() error { return ErrInvalidData }

const itemsArray = `"items": {"type": "array", "items": %s}`

var schemaSources = map[string]string{
	TypeHero: `{
		"type": "object",
		"required": ["title"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"subtitle": {"type": "string"},
			"image": {"type": "string"},
			"cta_label": {"type": "string"},
			"cta_url": {"type": "string"}
		}
	}`,
	TypeContent: `{
		"type": "object",
		"required": ["body"],
		"properties": {
			"heading": {"type": "string"},
			"body": {"type": "string", "minLength": 1}
		}
	}`,
	TypeCards: `{
		"type": "object",
		"required": ["items"],
		"properties": {
			"heading": {"type": "string"},
			` + fmt.Sprintf(itemsArray, `{
				"type": "object",
				"required": ["title"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"icon": {"type": "string"},
					"url": {"type": "string"}
				}
			}`) + `
		}
	}`,
	TypeStats: `{
		"type": "object",
		"required": ["items"],
		"properties": {
			"heading": {"type": "string"},
			` + fmt.Sprintf(itemsArray, `{
				"type": "object",
				"required": ["label", "value"],
				"properties": {
					"label": {"type": "string", "minLength": 1},
					"value": {"type": ["string", "number"]}
				}
			}`) + `
		}
	}`,
	TypeGrid: `{
		"type": "object",
		"required": ["items"],
		"properties": {
			"heading": {"type": "string"},
			"columns": {"type": "integer", "minimum": 1, "maximum": 6},
			` + fmt.Sprintf(itemsArray, `{
				"type": "object",
				"required": ["title"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"image": {"type": "string"}
				}
			}`) + `
		}
	}`,
	TypeAccordion: `{
		"type": "object",
		"required": ["items"],
		"properties": {
			"heading": {"type": "string"},
			` + fmt.Sprintf(itemsArray, `{
				"type": "object",
				"required": ["title", "content"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"content": {"type": "string"}
				}
			}`) + `
		}
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func schemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		out := make(map[string]*jsonschema.Schema, len(schemaSources))
		for typ, src := range schemaSources {
			url := typ + ".json"
			if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
				compileErr = fmt.Errorf("add %s schema: %w", typ, err)
				return
			}
			s, err := compiler.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", typ, err)
				return
			}
			out[typ] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

// Validate checks data against the schema for typ. Schema violations and
// malformed JSON are returned as *DataError.
func Validate(typ string, data json.RawMessage) error {
	all, err := schemas()
	if err != nil {
		return err
	}
	schema, ok := all[typ]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &DataError{Type: typ, Issues: []Issue{{Message: "not valid JSON: " + err.Error()}}}
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &DataError{Type: typ, Issues: collectIssues(verr)}
		}
		return fmt.Errorf("validate %s section: %w", typ, err)
	}
	return nil
}

// collectIssues flattens the leaf causes of a validation error.
func collectIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(root)
	return issues
}
