package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

type BootcampRepository struct {
	db querier
}

func NewBootcampRepository(db querier) *BootcampRepository {
	return &BootcampRepository{db: db}
}

const bootcampColumns = `id::text, user_id::text, name, slug, description, website, phone, email, address,
	latitude, longitude, formatted_address, street, city, state, zipcode, country,
	careers, average_rating, average_cost, photo,
	housing, job_assistance, job_guarantee, accept_gi, created_at`

func scanBootcamp(row pgx.Row) (*entity.Bootcamp, error) {
	var (
		b        entity.Bootcamp
		lat, lng *float64
		loc      entity.Location
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Slug, &b.Description, &b.Website, &b.Phone, &b.Email, &b.Address,
		&lat, &lng, &loc.FormattedAddress, &loc.Street, &loc.City, &loc.State, &loc.Zipcode, &loc.Country,
		&b.Careers, &b.AverageRating, &b.AverageCost, &b.Photo,
		&b.Housing, &b.JobAssistance, &b.JobGuarantee, &b.AcceptGI, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if lat != nil && lng != nil {
		loc.Type = "Point"
		loc.Coordinates = [2]float64{*lng, *lat}
		b.Location = &loc
	}
	return &b, nil
}

// locationArgs flattens an optional location into column values.
func locationArgs(l *entity.Location) (lat, lng *float64, formatted, street, city, state, zipcode, country string) {
	if l == nil {
		return
	}
	la, ln := l.Latitude(), l.Longitude()
	return &la, &ln, l.FormattedAddress, l.Street, l.City, l.State, l.Zipcode, l.Country
}

func (r *BootcampRepository) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return bootcampResource.list(ctx, r.db, spec, true)
}

func (r *BootcampRepository) GetByID(ctx context.Context, id string) (*entity.Bootcamp, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanBootcamp(r.db.QueryRow(ctx, `SELECT `+bootcampColumns+` FROM bootcamps WHERE id = $1`, id))
}

func (r *BootcampRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bootcamps WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *BootcampRepository) Create(ctx context.Context, b *entity.Bootcamp) error {
	if b.Photo == "" {
		b.Photo = entity.DefaultPhoto
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	lat, lng, formatted, street, city, state, zipcode, country := locationArgs(b.Location)
	row := r.db.QueryRow(ctx, `
		INSERT INTO bootcamps (user_id, name, slug, description, website, phone, email, address,
			latitude, longitude, formatted_address, street, city, state, zipcode, country,
			careers, photo, housing, job_assistance, job_guarantee, accept_gi)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id::text, created_at
	`, b.UserID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email, b.Address,
		lat, lng, formatted, street, city, state, zipcode, country,
		b.Careers, b.Photo, b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGI)

	return row.Scan(&b.ID, &b.CreatedAt)
}

// Update writes the caller-editable columns. Aggregates and photo have their own writers.
func (r *BootcampRepository) Update(ctx context.Context, b *entity.Bootcamp) error {
	if !validID(b.ID) {
		return repository.ErrNotFound
	}
	lat, lng, formatted, street, city, state, zipcode, country := locationArgs(b.Location)
	res, err := r.db.Exec(ctx, `
		UPDATE bootcamps
		SET name = $1, slug = $2, description = $3, website = $4, phone = $5, email = $6, address = $7,
		    latitude = $8, longitude = $9, formatted_address = $10, street = $11, city = $12,
		    state = $13, zipcode = $14, country = $15, careers = $16,
		    housing = $17, job_assistance = $18, job_guarantee = $19, accept_gi = $20
		WHERE id = $21
	`, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email, b.Address,
		lat, lng, formatted, street, city, state, zipcode, country, b.Careers,
		b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGI, b.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the bootcamp; courses and reviews go with it through ON DELETE CASCADE.
func (r *BootcampRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM bootcamps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// WithinRadius uses the haversine central angle, nearest first.
func (r *BootcampRepository) WithinRadius(ctx context.Context, lat, lng, radius float64) ([]entity.Bootcamp, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bootcampColumns+` FROM (
			SELECT *, 2 * ASIN(SQRT(
				POWER(SIN(RADIANS(latitude - $1) / 2), 2) +
				COS(RADIANS($1)) * COS(RADIANS(latitude)) * POWER(SIN(RADIANS(longitude - $2) / 2), 2)
			)) AS angle
			FROM bootcamps
			WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		) near
		WHERE angle <= $3
		ORDER BY angle, created_at DESC
	`, lat, lng, radius)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Bootcamp{}
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *BootcampRepository) UpdatePhoto(ctx context.Context, id, photo string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `UPDATE bootcamps SET photo = $1 WHERE id = $2`, photo, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RecalculateAverageCost rounds the mean tuition up to the next multiple of 10;
// NULL once the last course is gone.
func (r *BootcampRepository) RecalculateAverageCost(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	_, err := r.db.Exec(ctx, `
		UPDATE bootcamps
		SET average_cost = (SELECT CEIL(AVG(tuition) / 10) * 10 FROM courses WHERE bootcamp_id = $1)
		WHERE id = $1
	`, id)
	return err
}

func (r *BootcampRepository) RecalculateAverageRating(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	_, err := r.db.Exec(ctx, `
		UPDATE bootcamps
		SET average_rating = (SELECT AVG(rating)::float8 FROM reviews WHERE bootcamp_id = $1)
		WHERE id = $1
	`, id)
	return err
}

var _ repository.BootcampRepository = (*BootcampRepository)(nil)
