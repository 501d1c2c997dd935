package settings

import (
	"context"
	"encoding/json"
)

// Reader returns the current value of named settings
type Reader interface {
	// GetFields returns the stored fields among names, in the order they
	// were requested. Names with no stored value are omitted.
	GetFields(ctx context.Context, names []string) ([]Field, error)
}

// Writer stores setting values
type Writer interface {
	Set(ctx context.Context, name string, value any) error
	SetRaw(ctx context.Context, name string, value json.RawMessage) error
}

// Store is a persistent settings store
type Store interface {
	Reader
	Writer
	Close() error
}

// Field is a single setting with its JSON encoded value
type Field struct {
	Name  string
	Value json.RawMessage
}
