package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"autoshop-backend/models"
	"autoshop-backend/utils"

	"github.com/rs/zerolog"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	users  UserStore
	secret string
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewAuthService(users UserStore, secret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		log:    log.With().Str("component", "auth").Logger(),
	}
}

// Login checks the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := checkStruct(in).orNil(); err != nil {
		return "", err
	}

	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !utils.CheckPasswordHash(in.Password, user.Password) {
		s.log.Warn().Str("email", user.Email).Msg("rejected login")
		return "", ErrInvalidCredentials
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.users.SaveUser(ctx, user); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("failed to record last login")
	}
	return utils.GenerateToken(s.secret, user.ID.String(), user.Email, user.RoleList(), s.ttl, now)
}

// UpsertUser creates the user or resets the password (and role, when given)
// of an existing one. It reports whether a new user was created.
func (s *AuthService) UpsertUser(ctx context.Context, email, password, role string) (bool, error) {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return false, ValidationErrors{{Field: "email", Message: "This value is not a valid email address."}}
	}
	if password == "" {
		return false, ValidationErrors{{Field: "password", Message: "This value should not be blank."}}
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		user = &models.User{Email: email, Password: password, Roles: roleOrDefault(role)}
		return true, s.users.CreateUser(ctx, user)
	case err != nil:
		return false, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	user.Password = hashed
	if role != "" {
		user.Roles = role
	}
	return false, s.users.SaveUser(ctx, user)
}

func roleOrDefault(role string) string {
	if strings.TrimSpace(role) == "" {
		return models.DefaultRole
	}
	return strings.TrimSpace(role)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
