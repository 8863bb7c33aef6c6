package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"truckrental/internal/auth"
	"truckrental/internal/config"
	"truckrental/internal/database"
	"truckrental/internal/domain"
	"truckrental/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const resourceUser = "User"

var errInvalidCredentials = domain.UnauthorizedError{Msg: "Invalid credentials"}

type UserService struct {
	repo       domain.UserRepository
	limiter    domain.AttemptLimiter
	tokens     *auth.TokenIssuer
	loginLimit config.APILoginLimitConfig
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewUserService(
	repo domain.UserRepository,
	limiter domain.AttemptLimiter,
	tokens *auth.TokenIssuer,
	loginLimit config.APILoginLimitConfig,
	logger *zerolog.Logger,
) *UserService {
	if loginLimit.Attempts <= 0 {
		loginLimit.Attempts = models.DefaultLoginAttempts
	}
	if loginLimit.Window <= 0 {
		loginLimit.Window = models.DefaultLoginWindow * time.Second
	}
	return &UserService{
		repo:       repo,
		limiter:    limiter,
		tokens:     tokens,
		loginLimit: loginLimit,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *UserService) SignUp(ctx context.Context, in models.SignUpInput) (*models.User, error) {
	return s.createUser(ctx, in, models.RoleUser)
}

func (s *UserService) createUser(ctx context.Context, in models.SignUpInput, role string) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	phone := strings.TrimSpace(in.Phone)
	if username == "" || strings.TrimSpace(in.Email) == "" || phone == "" || in.Password == "" {
		return nil, domain.ValidationError{Msg: "Please provide all required fields"}
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, storageErr(err, resourceUser)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", role).Msg("user created")
	return user, nil
}

// SignIn verifies credentials and returns a signed access token.
// Failed attempts are counted per email; a successful login clears the counter.
func (s *UserService) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ValidationError{Msg: "email and password are required"}
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email, s.loginLimit.Attempts, s.loginLimit.Window)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		} else if !allowed {
			s.logger.Warn().Str("email", email).Msg("login attempts exceeded")
			return "", nil, domain.RateLimitedError{Msg: "Too many login attempts, try again later"}
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	token, _, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed in")
	return token, user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, resourceUser)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUser applies patch to the user. Role changes are honoured only when allowRole is set.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch models.UserPatch, allowRole bool) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, resourceUser)
	}

	if patch.Username != nil {
		v := strings.TrimSpace(*patch.Username)
		if v == "" {
			return nil, domain.ValidationError{Field: "username", Msg: "username must not be empty"}
		}
		user.Username = v
	}
	if patch.Phone != nil {
		v := strings.TrimSpace(*patch.Phone)
		if v == "" {
			return nil, domain.ValidationError{Field: "phone", Msg: "phone must not be empty"}
		}
		user.Phone = v
	}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.repo.GetUserByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, domain.ConflictError{Resource: resourceUser, Msg: "Email already exists"}
			case err != nil && !errors.Is(err, database.ErrNotFound):
				return nil, err
			}
		}
		user.Email = email
	}
	if patch.Password != nil {
		if err := checkPassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if patch.Role != nil && allowRole {
		role := strings.TrimSpace(*patch.Role)
		if role != models.RoleAdmin && role != models.RoleUser {
			return nil, domain.ValidationError{Field: "role", Msg: "role must be admin or user"}
		}
		user.Role = role
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, storageErr(err, resourceUser)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return storageErr(err, resourceUser)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// EnsureAdmin creates the configured admin account, or promotes it if it already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.BootstrapAdminConfig) (*models.User, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		role := models.RoleAdmin
		return s.UpdateUser(ctx, existing.ID, models.UserPatch{Role: &role}, true)
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}

	phone := cfg.Phone
	if phone == "" {
		phone = "-"
	}
	user, err := s.createUser(ctx, models.SignUpInput{
		Username: cfg.Username,
		Email:    email,
		Phone:    phone,
		Password: cfg.Password,
	}, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("email", user.Email).Msg("bootstrap admin created")
	return user, nil
}

func checkPassword(password string) error {
	if len(password) < auth.MinPasswordLen {
		return domain.ValidationError{Field: "password", Msg: "password must be at least 6 characters"}
	}
	return nil
}
