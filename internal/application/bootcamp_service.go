package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/search"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

// EarthRadiusMiles converts a distance in miles to a central angle.
const EarthRadiusMiles = 3963.2

type BootcampService struct {
	Bootcamps repo.BootcampRepository
	Geocoder  Geocoder      // nil leaves bootcamps unlocated
	Files     FileStore
	Index     BootcampIndex // nil disables search
	Logger    *logrus.Logger

	MaxUpload int64
}

type BootcampInput struct {
	Name          string
	Description   string
	Website       string
	Phone         string
	Email         string
	Address       string
	Careers       []string
	Housing       bool
	JobAssistance bool
	JobGuarantee  bool
	AcceptGI      bool
}

// BootcampPatch carries only the fields a caller supplied.
type BootcampPatch struct {
	Name          *string
	Description   *string
	Website       *string
	Phone         *string
	Email         *string
	Address       *string
	Careers       *[]string
	Housing       *bool
	JobAssistance *bool
	JobGuarantee  *bool
	AcceptGI      *bool
}

// Upload is a single received file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (s *BootcampService) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return s.Bootcamps.List(ctx, spec)
}

func (s *BootcampService) Get(ctx context.Context, id string) (*entity.Bootcamp, error) {
	b, err := s.Bootcamps.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("Bootcamp not found with id of %s", id)
	}
	return b, err
}

// Create enforces one bootcamp per publisher unless the actor is an admin.
func (s *BootcampService) Create(ctx context.Context, actor *entity.User, in BootcampInput) (*entity.Bootcamp, error) {
	if actor.Role != entity.RoleAdmin {
		n, err := s.Bootcamps.CountByUser(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperror.BadRequest("The user with ID %s has already published a bootcamp", actor.ID)
		}
	}

	b := &entity.Bootcamp{
		UserID:        actor.ID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Website:       in.Website,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		Careers:       in.Careers,
		Photo:         entity.DefaultPhoto,
		Housing:       in.Housing,
		JobAssistance: in.JobAssistance,
		JobGuarantee:  in.JobGuarantee,
		AcceptGI:      in.AcceptGI,
	}
	b.Slug = entity.Slugify(b.Name)
	b.Location = s.locate(ctx, b.Address)

	if err := s.Bootcamps.Create(ctx, b); err != nil {
		return nil, err
	}
	s.index(ctx, b)
	return b, nil
}

func (s *BootcampService) Update(ctx context.Context, actor *entity.User, id string, p BootcampPatch) (*entity.Bootcamp, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, b.UserID) {
		return nil, apperror.Forbidden("User %s is not authorized to update this bootcamp", actor.ID)
	}

	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
		b.Slug = entity.Slugify(b.Name)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Website != nil {
		b.Website = *p.Website
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Address != nil && *p.Address != b.Address {
		b.Address = *p.Address
		b.Location = s.locate(ctx, b.Address)
	}
	if p.Careers != nil {
		b.Careers = *p.Careers
	}
	if p.Housing != nil {
		b.Housing = *p.Housing
	}
	if p.JobAssistance != nil {
		b.JobAssistance = *p.JobAssistance
	}
	if p.JobGuarantee != nil {
		b.JobGuarantee = *p.JobGuarantee
	}
	if p.AcceptGI != nil {
		b.AcceptGI = *p.AcceptGI
	}

	if err := s.Bootcamps.Update(ctx, b); err != nil {
		return nil, err
	}
	s.index(ctx, b)
	return b, nil
}

// Delete removes the bootcamp together with its courses and reviews.
func (s *BootcampService) Delete(ctx context.Context, actor *entity.User, id string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanModify(actor, b.UserID) {
		return apperror.Forbidden("User %s is not authorized to delete this bootcamp", actor.ID)
	}
	if err := s.Bootcamps.Delete(ctx, b.ID); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, b.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("bootcamp_id", b.ID).Warn("search index delete failed")
		}
	}
	return nil
}

// InRadius finds bootcamps within distance miles of zipcode.
func (s *BootcampService) InRadius(ctx context.Context, zipcode, distance string) ([]entity.Bootcamp, error) {
	miles, err := strconv.ParseFloat(distance, 64)
	if err != nil || miles < 0 {
		return nil, apperror.BadRequest("Distance must be a non-negative number of miles")
	}
	if s.Geocoder == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Geocoding is not configured")
	}
	loc, err := s.Geocoder.Geocode(ctx, zipcode)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("zipcode", zipcode).Warn("zipcode lookup failed")
		}
		return nil, apperror.NotFound("Could not locate zipcode %s", zipcode)
	}
	return s.Bootcamps.WithinRadius(ctx, loc.Latitude(), loc.Longitude(), miles/EarthRadiusMiles)
}

// UploadPhoto stores an image as photo_<id><ext> and records it on the bootcamp.
func (s *BootcampService) UploadPhoto(ctx context.Context, actor *entity.User, id string, up *Upload) (string, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !CanModify(actor, b.UserID) {
		return "", apperror.Forbidden("User %s is not authorized to update this bootcamp", actor.ID)
	}
	if up == nil || up.Body == nil {
		return "", apperror.BadRequest("Please upload a file")
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", apperror.BadRequest("Please upload an image file")
	}
	if s.MaxUpload > 0 && up.Size > s.MaxUpload {
		return "", apperror.BadRequest("Please upload an image less than %d bytes", s.MaxUpload)
	}

	name := fmt.Sprintf("photo_%s%s", b.ID, strings.ToLower(filepath.Ext(up.Filename)))
	ref, err := s.Files.Save(ctx, name, up.ContentType, up.Body)
	if err != nil {
		return "", apperror.Internal("Problem with file upload", err)
	}
	if err := s.Bootcamps.UpdatePhoto(ctx, b.ID, ref); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *BootcampService) Search(ctx context.Context, q string, size int) ([]search.Hit, error) {
	if s.Index == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Search is not enabled")
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.BadRequest("Please provide a search query")
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal("Search failed", err)
	}
	return hits, nil
}

// locate geocodes address; failures leave the bootcamp without a location.
func (s *BootcampService) locate(ctx context.Context, address string) *entity.Location {
	if s.Geocoder == nil || strings.TrimSpace(address) == "" {
		return nil
	}
	loc, err := s.Geocoder.Geocode(ctx, address)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("address", address).Warn("geocode failed")
		}
		return nil
	}
	return loc
}

func (s *BootcampService) index(ctx context.Context, b *entity.Bootcamp) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Upsert(ctx, b); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("bootcamp_id", b.ID).Warn("search index upsert failed")
	}
}
