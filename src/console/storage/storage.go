package storage

import "context"

// Storage is the object-store collaborator: put/delete by key, public URLs.
type Storage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
