package settle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func TestSchemaValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		schema := Schema{
			"db_host": {EnvVar: "DB_HOST", Type: TypeString, Default: strPtr("localhost")},
			"db_port": {EnvVar: "DB_PORT", Type: TypeInt, RemoteRef: "/app/db-port"},
		}
		if err := schema.validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if err := (Schema{}).validate(); !errors.Is(err, ErrSchemaNotSet) {
			t.Fatalf("expected ErrSchemaNotSet, got %v", err)
		}
	})

	t.Run("missing env var", func(t *testing.T) {
		schema := Schema{"key": {Type: TypeString}}
		if err := schema.validate(); err == nil {
			t.Fatalf("expected error for missing env var")
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		schema := Schema{"key": {EnvVar: "KEY", Type: ValueType("boolean")}}
		if err := schema.validate(); !errors.Is(err, ErrInvalidType) {
			t.Fatalf("expected ErrInvalidType, got %v", err)
		}
	})
}

func TestSchemaRemoteRefs(t *testing.T) {
	t.Parallel()

	schema := Schema{
		"a": {EnvVar: "A", Type: TypeString, RemoteRef: "/app/shared"},
		"b": {EnvVar: "B", Type: TypeString, RemoteRef: "/app/shared"},
		"c": {EnvVar: "C", Type: TypeString, RemoteRef: "/app/other"},
		"d": {EnvVar: "D", Type: TypeString},
	}

	refs := schema.remoteRefs()
	if want := []string{"/app/other", "/app/shared"}; len(refs) != len(want) || refs[0] != want[0] || refs[1] != want[1] {
		t.Fatalf("unexpected refs: %v", refs)
	}
}

func TestLoadSchemaFile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		content := `items:
  db_password:
    env: DB_PASSWORD
    remote: /myapp/prod/db-password
    type: string
  pool_size:
    env: DB_POOL_SIZE
    default: "10"
    type: int
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write schema file: %v", err)
		}

		schema, err := LoadSchemaFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(schema) != 2 {
			t.Fatalf("expected 2 items, got %d", len(schema))
		}
		item := schema["pool_size"]
		if item.EnvVar != "DB_POOL_SIZE" || item.Type != TypeInt {
			t.Fatalf("unexpected item: %+v", item)
		}
		if item.Default == nil || *item.Default != "10" {
			t.Fatalf("expected default %q, got %v", "10", item.Default)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadSchemaFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		if err := os.WriteFile(path, []byte("items: [not a map"), 0o600); err != nil {
			t.Fatalf("write schema file: %v", err)
		}
		if _, err := LoadSchemaFile(path); err == nil {
			t.Fatalf("expected error for malformed yaml")
		}
	})

	t.Run("invalid schema", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		content := `items:
  broken:
    type: string
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write schema file: %v", err)
		}
		if _, err := LoadSchemaFile(path); err == nil {
			t.Fatalf("expected error for item without env var")
		}
	})
}
