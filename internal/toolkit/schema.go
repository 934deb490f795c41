package toolkit

import "encoding/json"

const objectSchemaTypeConstant = "object"

type argumentSchemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type argumentSchemaDocument struct {
	Type                 string                            `json:"type"`
	AdditionalProperties bool                              `json:"additionalProperties"`
	Properties           map[string]argumentSchemaProperty `json:"properties"`
	Required             []string                          `json:"required,omitempty"`
}

// BuildArgumentSchema renders the JSON Schema document describing the
// argument fields of a tool. Kinds map directly to JSON Schema types and
// unknown properties are rejected.
func BuildArgumentSchema(argumentFields []ArgumentField) (string, error) {
	schemaDocument := argumentSchemaDocument{
		Type:       objectSchemaTypeConstant,
		Properties: map[string]argumentSchemaProperty{},
	}
	for _, argumentField := range argumentFields {
		schemaDocument.Properties[argumentField.Name] = argumentSchemaProperty{
			Type:        string(argumentField.Kind),
			Description: argumentField.Description,
		}
		if argumentField.Required {
			schemaDocument.Required = append(schemaDocument.Required, argumentField.Name)
		}
	}
	encodedSchema, encodingError := json.Marshal(schemaDocument)
	if encodingError != nil {
		return "", encodingError
	}
	return string(encodedSchema), nil
}
