package repository

import (
	"context"
	"time"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

// ErrNotFound is returned when no entity matches an id or lookup.
var ErrNotFound = apperror.ErrNotFound

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	List(ctx context.Context, spec query.Spec) (query.Result, error)
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetToken returns the user holding digest with an expiry after now.
	GetByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error)
	GetByConfirmToken(ctx context.Context, digest string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}

// BootcampRepository persists bootcamps and recomputes their aggregate fields.
type BootcampRepository interface {
	List(ctx context.Context, spec query.Spec) (query.Result, error)
	GetByID(ctx context.Context, id string) (*entity.Bootcamp, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, b *entity.Bootcamp) error
	Update(ctx context.Context, b *entity.Bootcamp) error
	Delete(ctx context.Context, id string) error
	// WithinRadius returns bootcamps whose location lies within radius
	// radians of the given point on a sphere.
	WithinRadius(ctx context.Context, lat, lng, radius float64) ([]entity.Bootcamp, error)
	UpdatePhoto(ctx context.Context, id, photo string) error
	RecalculateAverageCost(ctx context.Context, id string) error
	RecalculateAverageRating(ctx context.Context, id string) error
}

type CourseRepository interface {
	List(ctx context.Context, spec query.Spec) (query.Result, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Course, error)
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	Create(ctx context.Context, c *entity.Course) error
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error
}

type ReviewRepository interface {
	List(ctx context.Context, spec query.Spec) (query.Result, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Create(ctx context.Context, r *entity.Review) error
	Update(ctx context.Context, r *entity.Review) error
	Delete(ctx context.Context, id string) error
}
