// Package application holds the use cases behind each endpoint. Every side
// effect (hashing, aggregate recomputation, mail, indexing) is an explicit
// step here rather than a storage hook.
package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/search"
)

// Geocoder resolves an address or postal code to a located point.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*entity.Location, error)
}

// FileStore persists an upload and returns the reference stored on the entity.
type FileStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// BootcampIndex mirrors bootcamps into a full-text index.
type BootcampIndex interface {
	Upsert(ctx context.Context, b *entity.Bootcamp) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]search.Hit, error)
}

// Revocations blocks session tokens after logout until they expire.
type Revocations interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// CanModify is the single ownership rule for every mutation: the owner or an admin.
func CanModify(actor *entity.User, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actor.Role == entity.RoleAdmin || actor.ID == ownerID
}
