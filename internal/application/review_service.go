package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

// ReviewService mutates reviews and keeps the parent bootcamp's average rating current.
type ReviewService struct {
	Reviews   repo.ReviewRepository
	Bootcamps repo.BootcampRepository
	Logger    *logrus.Logger
}

type ReviewInput struct {
	Title  string
	Text   string
	Rating int
}

type ReviewPatch struct {
	Title  *string
	Text   *string
	Rating *int
}

func (s *ReviewService) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return s.Reviews.List(ctx, spec)
}

func (s *ReviewService) ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Review, error) {
	return s.Reviews.ListByBootcamp(ctx, bootcampID)
}

func (s *ReviewService) Get(ctx context.Context, id string) (*entity.Review, error) {
	r, err := s.Reviews.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("No review found with the id of %s", id)
	}
	return r, err
}

// Create records the actor's review of a bootcamp. A second review by the
// same user hits the unique constraint and surfaces as a duplicate.
func (s *ReviewService) Create(ctx context.Context, actor *entity.User, bootcampID string, in ReviewInput) (*entity.Review, error) {
	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("No bootcamp with the id of %s", bootcampID)
		}
		return nil, err
	}
	if in.Rating < entity.MinRating || in.Rating > entity.MaxRating {
		return nil, apperror.Validation(map[string]string{"rating": "must be between 1 and 10"})
	}

	r := &entity.Review{
		Title:      in.Title,
		Text:       in.Text,
		Rating:     in.Rating,
		BootcampID: b.ID,
		UserID:     actor.ID,
	}
	if err := s.Reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	s.recalculate(ctx, b.ID)
	return r, nil
}

func (s *ReviewService) Update(ctx context.Context, actor *entity.User, id string, p ReviewPatch) (*entity.Review, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, r.UserID) {
		return nil, apperror.Forbidden("Not authorized to update review")
	}

	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.Rating != nil {
		if *p.Rating < entity.MinRating || *p.Rating > entity.MaxRating {
			return nil, apperror.Validation(map[string]string{"rating": "must be between 1 and 10"})
		}
		r.Rating = *p.Rating
	}

	if err := s.Reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	s.recalculate(ctx, r.BootcampID)
	return r, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *entity.User, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanModify(actor, r.UserID) {
		return apperror.Forbidden("Not authorized to delete review")
	}
	if err := s.Reviews.Delete(ctx, r.ID); err != nil {
		return err
	}
	s.recalculate(ctx, r.BootcampID)
	return nil
}

func (s *ReviewService) recalculate(ctx context.Context, bootcampID string) {
	if err := s.Bootcamps.RecalculateAverageRating(ctx, bootcampID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("bootcamp_id", bootcampID).Error("average rating recalculation failed")
	}
}
