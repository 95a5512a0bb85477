// Package store defines the key-value persistence port used for the
// session record, the project snapshot and the ban state. The engine
// depends only on this interface, never on a concrete backing store.
package store

import (
	"context"
	"errors"
)

// Well-known record keys.
const (
	KeySession = "lumina_user_v2"
	KeyProject = "lumina_project_v2"
	KeyBan     = "lumina_ban_state_v2"
)

var ErrNotFound = errors.New("record not found")

// Store persists small JSON payloads by key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
