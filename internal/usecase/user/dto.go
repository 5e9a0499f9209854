package user

import domain "taskmaster-user-service/internal/domain/user"

// CreateUserRequest represents the request payload for creating a new user.
// Role is optional and defaults to domain.DefaultRole.
type CreateUserRequest struct {
	Email     string      `json:"email" validate:"required"`
	Password  string      `json:"password" validate:"required"`
	FirstName string      `json:"firstName" validate:"required"`
	LastName  string      `json:"lastName" validate:"required"`
	Role      domain.Role `json:"role" validate:"omitempty,oneof=admin manager member"`
}

// UpdateUserRequest represents a partial update. Nil fields are left unchanged.
type UpdateUserRequest struct {
	ID        int64        `json:"-"`
	Email     *string      `json:"email"`
	FirstName *string      `json:"firstName"`
	LastName  *string      `json:"lastName"`
	Role      *domain.Role `json:"role" validate:"omitempty,oneof=admin manager member"`
	IsActive  *bool        `json:"isActive"`
}
