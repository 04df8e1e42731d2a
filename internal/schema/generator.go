package schema

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// GenerateSchema generates a tool input schema for the given type T.
// Fields without omitempty are listed as required.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	schema := Reflect[T]()

	param := anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
	if len(schema.Required) > 0 {
		param.ExtraFields = map[string]any{
			"required": schema.Required,
		}
	}
	return param
}

// Reflect returns the raw JSON schema for T with every definition inlined
func Reflect[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}
