package storage

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("Not found")
)

// Storage is a "bucket" style key/value store for serialized records. Keys are slash separated
//   paths.
type Storage interface {
	Write(ctx context.Context, key string, body []byte, options *Options) error
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error

	// List returns the keys of the objects directly below path.
	List(ctx context.Context, path string) ([]string, error)

	// Clear removes all objects directly below path.
	Clear(ctx context.Context, path string) error
}

// Options are applied to writes.
type Options struct {
	TTL     int64 // seconds, zero for no expiry
	Mode    os.FileMode
	DirMode os.FileMode
}

// NewOptions returns Options with default file modes.
func NewOptions() Options {
	return Options{
		Mode:    0644,
		DirMode: 0755,
	}
}

// CreateStorage returns filesystem storage for the "standalone" bucket and S3 storage for any
//   other bucket.
func CreateStorage(config Config) Storage {
	if strings.ToLower(config.Bucket) == "standalone" {
		return NewFilesystemStorage(config)
	}
	return NewS3Storage(config)
}
