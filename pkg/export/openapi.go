// Package export converts form definitions into OpenAPI schemas so that
// document payloads can be described to external tooling.
package export

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docflow/pkg/schema"
)

// FormSchema converts a form definition into an object schema. Each field
// becomes a property; required fields populate the schema's required list.
func FormSchema(form schema.FormDefinition) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Title = form.Name()

	for _, field := range form.Fields() {
		out.WithProperty(field.ID(), fieldSchema(field))
		if field.Required() {
			out.Required = append(out.Required, field.ID())
		}
	}
	return out
}

// FormSpec wraps the form schema in a minimal OpenAPI document exposing a
// single create operation, suitable for client generators and API explorers.
func FormSpec(form schema.FormDefinition) *openapi3.T {
	formSchema := FormSchema(form)

	operation := &openapi3.Operation{
		OperationID: "createDocument",
		Summary:     fmt.Sprintf("Create a %s document", form.Name()),
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(formSchema),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Document created"),
			}),
			openapi3.WithStatus(400, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Document failed validation"),
			}),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   form.Name(),
			Version: fmt.Sprintf("%d.0.0", form.Version()),
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/documents", &openapi3.PathItem{Post: operation}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				form.ID(): openapi3.NewSchemaRef("", formSchema),
			},
		},
	}
}

func fieldSchema(field schema.FieldDefinition) *openapi3.Schema {
	fieldType := field.Type()

	var out *openapi3.Schema
	switch fieldType.Kind {
	case schema.KindText, schema.KindTextArea:
		out = openapi3.NewStringSchema()
	case schema.KindNumber:
		out = openapi3.NewFloat64Schema()
		if cfg := fieldType.Number; cfg != nil {
			out.Min = cfg.Min
			out.Max = cfg.Max
		}
	case schema.KindBoolean:
		out = openapi3.NewBoolSchema()
	case schema.KindDateTime:
		out = openapi3.NewDateTimeSchema()
	case schema.KindSelect:
		out = selectSchema(fieldType.Select)
	default:
		out = openapi3.NewSchema()
	}

	out.Title = field.Label()
	out.Description = field.Description()
	return out
}

func selectSchema(cfg *schema.SelectConfig) *openapi3.Schema {
	if cfg == nil {
		cfg = &schema.SelectConfig{}
	}
	options := openapi3.NewStringSchema()
	for _, option := range cfg.Options {
		options.Enum = append(options.Enum, option)
	}
	if !cfg.AllowMultiple {
		return options
	}
	out := openapi3.NewArraySchema()
	out.Items = openapi3.NewSchemaRef("", options)
	out.UniqueItems = true
	return out
}
