package user

import (
	"context"

	domain "taskmaster-user-service/internal/domain/user"
)

// UserUsecase defines the interface for user business logic operations.
// *Usecase is the implementation.
type UserUsecase interface {
	GetAllUsers(ctx context.Context) ([]domain.Response, error)
	GetUserByID(ctx context.Context, id int64) (*domain.Response, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*domain.Response, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.Response, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}
