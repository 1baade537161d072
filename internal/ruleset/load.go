package ruleset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
)

// Load reads a ruleset document from path and prepares it.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a ruleset document and prepares it.
func Parse(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode ruleset: %w", err)
	}
	if err := rs.Prepare(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Schema reflects the JSON schema of the ruleset document.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(Ruleset))
	schema.Title = "Start layout ruleset"
	schema.Description = "Terrain, resource, nation and era catalogs read by start layout generation"
	return schema
}
