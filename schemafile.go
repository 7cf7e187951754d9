package settle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaFile represents the YAML schema file structure.
type schemaFile struct {
	Items map[string]Item `yaml:"items"`
}

// LoadSchemaFile reads a schema declaration from a YAML file. The file maps
// keys to item declarations under a top-level "items" key:
//
//	items:
//	  db_password:
//	    env: DB_PASSWORD
//	    remote: /myapp/prod/db-password
//	    type: string
//	  pool_size:
//	    env: DB_POOL_SIZE
//	    default: "10"
//	    type: int
func LoadSchemaFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}

	schema := Schema(file.Items)
	if err := schema.validate(); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return schema, nil
}
