package object

import (
	"context"
	"io"
)

// Object describes a stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Store defines the contract for saving and retrieving binary objects.
type Store interface {
	// Save writes r under a hashed namespace with a random name prefix.
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (Object, error)
	// SaveWithKey writes r at an exact key, e.g. a derived copy of an object.
	SaveWithKey(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
