package settle

import "errors"

var (
	// ErrSchemaNotSet is returned when initialization or a read is attempted
	// before a schema has been assigned.
	ErrSchemaNotSet = errors.New("configuration schema has not been set")
	// ErrNotInitialized is returned by reads of default-less keys before a
	// resolution pass has settled.
	ErrNotInitialized = errors.New("configuration has not been initialized")
	// ErrMissingConfigValue indicates that no source (environment, remote,
	// default) produced a value for a key.
	ErrMissingConfigValue = errors.New("no value resolved for configuration key")
	// ErrInvalidType indicates a value type outside the recognised set.
	ErrInvalidType = errors.New("unsupported value type")
	// ErrInvalidBooleanValue indicates a boolean raw value outside the
	// accepted tokens "true", "false", "1", "0".
	ErrInvalidBooleanValue = errors.New("invalid boolean value")
	// ErrUnknownKey is returned when a read names a key absent from the schema.
	ErrUnknownKey = errors.New("unknown configuration key")
)
