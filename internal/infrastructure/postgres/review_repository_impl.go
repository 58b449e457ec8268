package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

type ReviewRepository struct {
	db querier
}

func NewReviewRepository(db querier) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id::text, title, text, rating, bootcamp_id::text, user_id::text, created_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	rv := &entity.Review{}
	err := row.Scan(&rv.ID, &rv.Title, &rv.Text, &rv.Rating, &rv.BootcampID, &rv.UserID, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (r *ReviewRepository) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return reviewResource.list(ctx, r.db, spec, true)
}

func (r *ReviewRepository) ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Review, error) {
	out := []entity.Review{}
	if !validID(bootcampID) {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE bootcamp_id = $1 ORDER BY created_at DESC`, bootcampID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
}

// Create fails with a unique violation when the user already reviewed the bootcamp.
func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO reviews (title, text, rating, bootcamp_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at
	`, rv.Title, rv.Text, rv.Rating, rv.BootcampID, rv.UserID)
	return row.Scan(&rv.ID, &rv.CreatedAt)
}

func (r *ReviewRepository) Update(ctx context.Context, rv *entity.Review) error {
	if !validID(rv.ID) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `UPDATE reviews SET title = $1, text = $2, rating = $3 WHERE id = $4`,
		rv.Title, rv.Text, rv.Rating, rv.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
