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

// CourseService mutates courses and keeps the parent bootcamp's average cost current.
type CourseService struct {
	Courses   repo.CourseRepository
	Bootcamps repo.BootcampRepository
	Logger    *logrus.Logger
}

type CourseInput struct {
	Title                string
	Description          string
	Weeks                int
	Tuition              float64
	MinimumSkill         entity.SkillLevel
	ScholarshipAvailable bool
}

type CoursePatch struct {
	Title                *string
	Description          *string
	Weeks                *int
	Tuition              *float64
	MinimumSkill         *entity.SkillLevel
	ScholarshipAvailable *bool
}

func (s *CourseService) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return s.Courses.List(ctx, spec)
}

// ListByBootcamp returns every course of bootcampID without pagination.
func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Course, error) {
	return s.Courses.ListByBootcamp(ctx, bootcampID)
}

func (s *CourseService) Get(ctx context.Context, id string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("No course with the id of %s", id)
	}
	return c, err
}

// Create adds a course to a bootcamp the actor owns (or any bootcamp for an admin).
func (s *CourseService) Create(ctx context.Context, actor *entity.User, bootcampID string, in CourseInput) (*entity.Course, error) {
	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("No bootcamp with the id of %s", bootcampID)
		}
		return nil, err
	}
	if !CanModify(actor, b.UserID) {
		return nil, apperror.Forbidden("User %s is not authorized to add a course to bootcamp %s", actor.ID, b.ID)
	}

	c := &entity.Course{
		Title:                in.Title,
		Description:          in.Description,
		Weeks:                in.Weeks,
		Tuition:              in.Tuition,
		MinimumSkill:         in.MinimumSkill,
		ScholarshipAvailable: in.ScholarshipAvailable,
		BootcampID:           b.ID,
		UserID:               actor.ID,
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, err
	}
	s.recalculate(ctx, b.ID)
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, actor *entity.User, id string, p CoursePatch) (*entity.Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, c.UserID) {
		return nil, apperror.Forbidden("User %s is not authorized to update course %s", actor.ID, c.ID)
	}

	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Weeks != nil {
		c.Weeks = *p.Weeks
	}
	if p.Tuition != nil {
		c.Tuition = *p.Tuition
	}
	if p.MinimumSkill != nil {
		c.MinimumSkill = *p.MinimumSkill
	}
	if p.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *p.ScholarshipAvailable
	}

	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, err
	}
	s.recalculate(ctx, c.BootcampID)
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, actor *entity.User, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanModify(actor, c.UserID) {
		return apperror.Forbidden("User %s is not authorized to delete course %s", actor.ID, c.ID)
	}
	if err := s.Courses.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.recalculate(ctx, c.BootcampID)
	return nil
}

// recalculate refreshes the bootcamp's average cost. The course write has
// already succeeded, so a failure here is logged rather than returned.
func (s *CourseService) recalculate(ctx context.Context, bootcampID string) {
	if err := s.Bootcamps.RecalculateAverageCost(ctx, bootcampID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("bootcamp_id", bootcampID).Error("average cost recalculation failed")
	}
}
