package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id::text, name, email, role, password_hash,
	COALESCE(reset_password_token, ''), reset_password_expire,
	COALESCE(confirm_email_token, ''), is_email_confirmed, created_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Password,
		&u.ResetPasswordToken, &u.ResetPasswordExpire,
		&u.ConfirmEmailToken, &u.IsEmailConfirmed, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// validID reports whether id can name a row; malformed ids never match.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) List(ctx context.Context, spec query.Spec) (query.Result, error) {
	return userResource.list(ctx, r.db, spec, false)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, role, password_hash, confirm_email_token, is_email_confirmed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at
	`, u.Name, u.Email, u.Role, u.Password, nullable(u.ConfirmEmailToken), u.IsEmailConfirmed)

	return row.Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_password_token = $1 AND reset_password_expire > $2
	`, digest, now))
}

func (r *UserRepository) GetByConfirmToken(ctx context.Context, digest string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE confirm_email_token = $1`, digest))
}

// Update writes every mutable column; callers load, change, then save.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if !validID(u.ID) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, role = $3, password_hash = $4,
		    reset_password_token = $5, reset_password_expire = $6,
		    confirm_email_token = $7, is_email_confirmed = $8
		WHERE id = $9
	`, u.Name, u.Email, u.Role, u.Password,
		nullable(u.ResetPasswordToken), u.ResetPasswordExpire,
		nullable(u.ConfirmEmailToken), u.IsEmailConfirmed, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
