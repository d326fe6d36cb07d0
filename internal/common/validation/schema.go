// Package validation checks documents against JSON Schemas.
package validation

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const rootContext = "(root)"

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	// MenuPlan describes the JSON the language model must return.
	MenuPlan = mustLoad("menu_plan")
	// CreateRecipe describes the create-recipe request body.
	CreateRecipe = mustLoad("create_recipe")
)

type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func Compile(name, text string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

func mustLoad(name string) *Schema {
	data, err := schemaFiles.ReadFile("schemas/" + name + ".json")
	if err != nil {
		panic(err)
	}
	s, err := Compile(name, string(data))
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// Validate checks a decoded JSON document (maps, slices, float64...).
// Errors are sorted by field so results are stable.
func (s *Schema) Validate(doc interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate against %s: %w", s.name, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

// fieldOf renders the failing location with the root elided. For missing
// properties the context is the parent, so the property is appended.
func fieldOf(desc gojsonschema.ResultError) string {
	field := strings.TrimPrefix(desc.Context().String(), rootContext)
	field = strings.TrimPrefix(field, ".")
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == "" {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		if e.Field == "" {
			messages = append(messages, e.Message)
			continue
		}
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return messages
}

func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var out []ValidationError
	for _, e := range vr.Errors {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first error, or nil when the document is valid.
func (vr *ValidationResult) First() *ValidationError {
	if len(vr.Errors) == 0 {
		return nil
	}
	return &vr.Errors[0]
}

func (vr *ValidationResult) String() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}
