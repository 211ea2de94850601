package sequence

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the sequence file format.
func Schema() ([]byte, error) {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.AllowAdditionalProperties = true

	schema := reflector.Reflect(&fileFormat{})
	schema.Title = "Sequence"
	schema.Description = "A pre-show sequence: items played in order and the conditions selecting it for a feature."

	return json.MarshalIndent(schema, "", "  ")
}
