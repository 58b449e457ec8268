package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

type CourseRepository struct {
	db querier
}

func NewCourseRepository(db querier) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id::text, title, description, weeks, tuition, minimum_skill,
	scholarship_available, bootcamp_id::text, user_id::text, created_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	c := &entity.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Weeks, &c.Tuition, &c.MinimumSkill,
		&c.ScholarshipAvailable, &c.BootcampID, &c.UserID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List embeds the owning bootcamp's id, name and description.
func (r *CourseRepository) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return courseResource.list(ctx, r.db, spec, true)
}

func (r *CourseRepository) ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Course, error) {
	out := []entity.Course{}
	if !validID(bootcampID) {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+courseColumns+` FROM courses WHERE bootcamp_id = $1 ORDER BY created_at DESC`, bootcampID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO courses (title, description, weeks, tuition, minimum_skill, scholarship_available, bootcamp_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at
	`, c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill, c.ScholarshipAvailable, c.BootcampID, c.UserID)
	return row.Scan(&c.ID, &c.CreatedAt)
}

func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	if !validID(c.ID) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `
		UPDATE courses
		SET title = $1, description = $2, weeks = $3, tuition = $4, minimum_skill = $5, scholarship_available = $6
		WHERE id = $7
	`, c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill, c.ScholarshipAvailable, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
