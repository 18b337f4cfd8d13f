package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

//go:embed locales/*/*.json
var embeddedLocales embed.FS

// FSSource reads bundles laid out as locales/<language>/<namespace>.json.
type FSSource struct {
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewEmbeddedSource serves the bundles compiled into the binary.
func NewEmbeddedSource() *FSSource {
	return NewFSSource(embeddedLocales)
}

func (s *FSSource) Load(_ context.Context, lang Language, ns Namespace) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, bundlePath(lang, ns))
	if err != nil {
		return nil, fmt.Errorf("read bundle %s/%s: %w", lang, ns, err)
	}
	return data, nil
}

// BlobReader is the slice of the object store the bundle source needs.
type BlobReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// ObjectStoreSource reads bundles from a bucket using the same layout as the embedded files.
type ObjectStoreSource struct {
	store  BlobReader
	bucket string
}

func NewObjectStoreSource(store BlobReader, bucket string) *ObjectStoreSource {
	return &ObjectStoreSource{store: store, bucket: bucket}
}

func (s *ObjectStoreSource) Load(ctx context.Context, lang Language, ns Namespace) ([]byte, error) {
	data, err := s.store.ReadObject(ctx, s.bucket, bundlePath(lang, ns))
	if err != nil {
		return nil, fmt.Errorf("object store bundle %s/%s: %w", lang, ns, err)
	}
	return data, nil
}

// FallbackSource tries each source in order and returns the first success.
type FallbackSource []Source

func (f FallbackSource) Load(ctx context.Context, lang Language, ns Namespace) ([]byte, error) {
	var errs []error
	for _, src := range f {
		if src == nil {
			continue
		}
		data, err := src.Load(ctx, lang, ns)
		if err == nil {
			return data, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no translation source for %s/%s", lang, ns)
	}
	return nil, errors.Join(errs...)
}

func bundlePath(lang Language, ns Namespace) string {
	return path.Join("locales", string(lang), string(ns)+".json")
}

// BlobWriter uploads one object.
type BlobWriter interface {
	WriteObject(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// PublishEmbedded uploads every embedded bundle to bucket under the same
// layout ObjectStoreSource reads, so operators can edit copy in place.
func PublishEmbedded(ctx context.Context, w BlobWriter, bucket string) (int, error) {
	count := 0
	for _, lang := range Supported() {
		for _, ns := range Namespaces() {
			key := bundlePath(lang, ns)
			data, err := fs.ReadFile(embeddedLocales, key)
			if err != nil {
				return count, fmt.Errorf("read embedded %s: %w", key, err)
			}
			if err := w.WriteObject(ctx, bucket, key, data, "application/json"); err != nil {
				return count, fmt.Errorf("publish %s: %w", key, err)
			}
			count++
		}
	}
	return count, nil
}
