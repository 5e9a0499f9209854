package user

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "taskmaster-user-service/internal/domain/user"
	apperrors "taskmaster-user-service/pkg/errors"
	"taskmaster-user-service/pkg/logger"
	"taskmaster-user-service/pkg/security"
)

// MsgEmailAlreadyExists is the message carried by the conflict returned from CreateUser.
const MsgEmailAlreadyExists = "User with this email already exists"

// Repository defines the interface for user data access operations.
// Lookups return nil, nil when nothing matches.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)                     // All records in insertion order
	FindByID(ctx context.Context, id int64) (*domain.User, error)        // Retrieve user by ID
	FindByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by exact email
	NextID(ctx context.Context) (int64, error)                           // Reserve the next identifier
	Insert(ctx context.Context, u *domain.User) error                    // Append a record with a pre-assigned id
	Replace(ctx context.Context, id int64, u *domain.User) error         // Overwrite in place, no-op when absent
}

// Usecase implements the business logic for user management operations.
// It is the only caller of the Repository.
type Usecase struct {
	repo     Repository              // Repository for data access
	hasher   security.PasswordHasher // Hashes passwords before they are stored
	log      *zap.Logger             // Logger for structured logging
	validate *validator.Validate     // Validator for request validation
	now      func() time.Time
}

// Option configures optional Usecase collaborators.
type Option func(*Usecase)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *Usecase) {
		if now != nil {
			uc.now = now
		}
	}
}

// WithPasswordHasher overrides the password hasher.
func WithPasswordHasher(h security.PasswordHasher) Option {
	return func(uc *Usecase) {
		if h != nil {
			uc.hasher = h
		}
	}
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger, opts ...Option) *Usecase {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	uc := &Usecase{
		repo:     r,
		hasher:   security.NewBcryptHasher(0),
		log:      log,
		validate: v,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// jsonFieldName reports validation failures under the field's JSON name.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError("", err.Error())
	}

	var messages []string
	var fields []string
	for _, e := range validationErrors {
		fields = append(fields, e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	verr := apperrors.NewValidationError("", strings.Join(messages, ", "))
	verr.Fields = fields
	if len(fields) == 1 {
		verr.Field = fields[0]
		verr.Message = messages[0]
	}
	return verr
}

// GetAllUsers returns every user, soft-deleted ones included, without passwords.
func (uc *Usecase) GetAllUsers(ctx context.Context) ([]domain.Response, error) {
	log := logger.WithContext(ctx, uc.log)

	users, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list users", err)
	}

	out := make([]domain.Response, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}

	log.Debug("listed users", zap.Int("count", len(out)))
	return out, nil
}

// GetUserByID returns the projected user, or nil when no user has that id.
func (uc *Usecase) GetUserByID(ctx context.Context, id int64) (*domain.Response, error) {
	log := logger.WithContext(ctx, uc.log)

	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		log.Debug("user not found", zap.Int64("id", id))
		return nil, nil
	}

	resp := u.ToResponse()
	return &resp, nil
}

// GetUserByEmail returns the full record, password included, or nil when absent.
// It must not be exposed through the transport layer.
func (uc *Usecase) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	return u, nil
}

// CreateUser creates a new user after validating the request and checking email uniqueness.
// The uniqueness check and the insert are separate store calls.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*domain.Response, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("email", in.Email), zap.String("role", string(in.Role)))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
		return nil, apperrors.NewAlreadyExistsError("user", MsgEmailAlreadyExists)
	}

	hashed, err := uc.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	role := in.Role
	if role == "" {
		role = domain.DefaultRole
	}

	id, err := uc.repo.NextID(ctx)
	if err != nil {
		log.Error("failed to allocate user id", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to allocate user id", err)
	}

	now := uc.now()
	u := &domain.User{
		ID:        id,
		Email:     in.Email,
		Password:  hashed,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Insert(ctx, u); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	log.Info("user created", zap.Int64("id", id))
	resp := u.ToResponse()
	return &resp, nil
}

// UpdateUser merges the provided fields into an existing user.
// It returns nil when no user has the id. Email uniqueness is not re-checked.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.Response, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		log.Warn("user not found", zap.Int64("id", in.ID))
		return nil, nil
	}

	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	u.UpdatedAt = uc.touch(u.CreatedAt)

	if err := uc.repo.Replace(ctx, u.ID, u); err != nil {
		log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to update user", err)
	}

	resp := u.ToResponse()
	return &resp, nil
}

// DeleteUser marks a user inactive. The record stays in the store.
// It reports false when no user has the id.
func (uc *Usecase) DeleteUser(ctx context.Context, id int64) (bool, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", id))

	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return false, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		log.Warn("user not found", zap.Int64("id", id))
		return false, nil
	}

	u.IsActive = false
	u.UpdatedAt = uc.touch(u.CreatedAt)

	if err := uc.repo.Replace(ctx, id, u); err != nil {
		log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return false, apperrors.NewInternalError("failed to delete user", err)
	}
	return true, nil
}

// touch returns the current time, never earlier than createdAt.
func (uc *Usecase) touch(createdAt time.Time) time.Time {
	now := uc.now()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}
