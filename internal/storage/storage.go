package storage

import "context"

// ObjectStorage persists rendered LPO documents.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}
