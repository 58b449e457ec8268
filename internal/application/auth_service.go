package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
	tpl "github.com/oksasatya/bootcamp-directory/pkg/mailer/templates"
)

// ErrAuthorizationDenied is the only failure the authentication guard reports.
var ErrAuthorizationDenied = apperror.Unauthorized("Authorization Denied")

type AuthService struct {
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Mailer  mailer.Sender
	Revoked Revocations // nil when Redis is not configured
	Logger  *logrus.Logger

	AppName     string
	ResetSecret string
	ResetTTL    time.Duration
	Now         func() time.Time
}

// Session is an issued token plus the user it belongs to.
type Session struct {
	Token   string
	Expires time.Time
	User    *entity.User
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

type DetailsInput struct {
	Name  *string
	Email *string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) issue(u *entity.User) (*Session, error) {
	tok, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	return &Session{Token: tok, Expires: exp, User: u}, nil
}

// Register hashes the password, stores the user, then mails an email
// confirmation link built from confirmBaseURL.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, confirmBaseURL string) (*Session, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleUser && role != entity.RolePublisher {
		return nil, apperror.Validation(map[string]string{"role": "must be one of: user, publisher"})
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	confirm, err := helpers.RandomToken(20)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}

	u := &entity.User{
		Name:              strings.TrimSpace(in.Name),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		Role:              role,
		Password:          hash,
		ConfirmEmailToken: helpers.TokenDigest(s.ResetSecret, confirm),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	// confirmation is best effort; the account is usable either way
	data := tpl.ToMap(tpl.NewConfirmEmailData(s.AppName, u.Name, u.Email, confirmBaseURL+"?token="+confirm))
	if err := s.sendTemplate(ctx, u.Email, tpl.ConfirmEmail, data); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("confirmation email not sent")
	}

	return s.issue(u)
}

// Login never says which of email or password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	return s.issue(u)
}

// Authenticate resolves a presented token to its user. Every failure is
// reported as ErrAuthorizationDenied.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" || token == helpers.LogoutSentinel {
		return nil, ErrAuthorizationDenied
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrAuthorizationDenied
	}
	if s.Revoked != nil {
		revoked, err := s.Revoked.IsRevoked(ctx, token)
		if err != nil && s.Logger != nil {
			// fail open: a Redis outage must not log everyone out
			s.Logger.WithError(err).Warn("revocation check failed")
		}
		if revoked {
			return nil, ErrAuthorizationDenied
		}
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrAuthorizationDenied
	}
	return u, nil
}

// Logout revokes token until its natural expiry when a revocation store exists.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.Revoked == nil || token == "" || token == helpers.LogoutSentinel {
		return nil
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.Revoked.Revoke(ctx, token, claims.ExpiresAt.Time); err != nil {
		return apperror.Internal("Server Error", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, id string) (*entity.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *AuthService) UpdateDetails(ctx context.Context, actor *entity.User, in DetailsInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, actor *entity.User, current, next string) (*Session, error) {
	u, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return nil, apperror.Unauthorized("Password is incorrect")
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	u.Password = hash
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

// ForgotPassword stores the digest of a fresh reset token and mails the
// plaintext token. If the mail cannot be sent the token fields are cleared
// again so no half-issued reset remains.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetBaseURL string) error {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("There is no user with that email")
		}
		return err
	}

	token, err := helpers.RandomToken(20)
	if err != nil {
		return apperror.Internal("Server Error", err)
	}
	exp := s.now().Add(s.ResetTTL)
	u.ResetPasswordToken = helpers.TokenDigest(s.ResetSecret, token)
	u.ResetPasswordExpire = &exp
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}

	data := tpl.ToMap(tpl.NewResetPasswordData(s.AppName, u.Name, u.Email, resetBaseURL+"/"+token, tpl.WithExpiresAt(exp)))
	if err := s.sendTemplate(ctx, u.Email, tpl.ResetPassword, data); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("reset email failed")
		}
		u.ClearResetToken()
		if rbErr := s.Users.Update(ctx, u); rbErr != nil && s.Logger != nil {
			s.Logger.WithError(rbErr).WithField("user_id", u.ID).Error("reset token rollback failed")
		}
		return apperror.Internal("Email could not be sent", err)
	}
	return nil
}

// ResetPassword consumes a reset token. Tokens are single use and expire.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*Session, error) {
	u, err := s.Users.GetByResetToken(ctx, helpers.TokenDigest(s.ResetSecret, token), s.now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.BadRequest("Invalid token")
		}
		return nil, err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	u.Password = hash
	u.ClearResetToken()
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, apperror.BadRequest("Invalid token")
	}
	u, err := s.Users.GetByConfirmToken(ctx, helpers.TokenDigest(s.ResetSecret, token))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.BadRequest("Invalid token")
		}
		return nil, err
	}
	u.IsEmailConfirmed = true
	u.ConfirmEmailToken = ""
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) sendTemplate(ctx context.Context, to, name string, data map[string]any) error {
	if s.Mailer == nil {
		return mailer.ErrDisabled
	}
	msg, err := mailer.EmailJob{To: to, Template: name, Data: data}.Message()
	if err != nil {
		return err
	}
	return s.Mailer.Send(ctx, msg)
}
