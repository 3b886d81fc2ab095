package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Emitter stores a rendered document and returns where it went.
type Emitter interface {
	Emit(ctx context.Context, name, contentType string, data []byte) (location string, err error)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, name, contentType string, data []byte) (string, error)

func (f EmitterFunc) Emit(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return f(ctx, name, contentType, data)
}

// ObjectPutter is the slice of object storage the ObjectEmitter needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error
}

// ObjectEmitter uploads documents under "<Prefix>/<uuid>/<name>" so
// repeated exports of one range never overwrite each other.
type ObjectEmitter struct {
	Store  ObjectPutter
	Prefix string
}

func (e ObjectEmitter) Emit(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(e.Prefix, uuid.NewString(), name)
	if err := e.Store.PutObject(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return key, nil
}

// DirEmitter writes documents into a local directory.
type DirEmitter struct {
	Dir string
}

func (e DirEmitter) Emit(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	p := filepath.Join(e.Dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}
