package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "taskmaster-user-service/internal/domain/user"
	"taskmaster-user-service/internal/usecase/user"
	apperrors "taskmaster-user-service/pkg/errors"
	"taskmaster-user-service/pkg/logger"
)

// Error messages returned to clients.
const (
	msgInvalidUserID   = "Invalid user ID"
	msgUserNotFound    = "User not found"
	msgMissingFields   = "Missing required fields"
	msgInvalidBody     = "Invalid request body"
	msgUserCreated     = "User created successfully"
	msgUserUpdated     = "User updated successfully"
	msgUserDeleted     = "User deleted successfully"
	msgFailedListUsers = "Failed to fetch users"
	msgFailedGetUser   = "Failed to fetch user"
	msgFailedCreate    = "Failed to create user"
	msgFailedUpdate    = "Failed to update user"
	msgFailedDelete    = "Failed to delete user"
)

// RequiredCreateFields are the body fields a create request must carry.
var RequiredCreateFields = []string{"email", "password", "firstName", "lastName"}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role,omitempty"`
}

// UpdateUserRequest represents the HTTP request body for a partial update
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Success bool              `json:"success"`
	Data    []domain.Response `json:"data"`
	Count   int               `json:"count"`
}

// UserResponse represents the HTTP response carrying a single user
type UserResponse struct {
	Success bool             `json:"success"`
	Data    *domain.Response `json:"data,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error"`
	Message  string   `json:"message,omitempty"`
	Required []string `json:"required,omitempty"`
}

// ListUsers handles GET /api/:version/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.GetAllUsers(c.Request.Context())
	if err != nil {
		h.logger(c).Error("ListUsers failed", zap.Error(err))
		h.handleError(c, err, msgFailedListUsers)
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Success: true,
		Data:    users,
		Count:   len(users),
	})
}

// GetUser handles GET /api/:version/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.logger(c).Error("GetUser failed", zap.Int64("id", id), zap.Error(err))
		h.handleError(c, err, msgFailedGetUser)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgUserNotFound})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Success: true, Data: u})
}

// CreateUser handles POST /api/:version/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) || errors.Is(err, io.EOF) {
			h.logger(c).Warn("create user request missing fields", zap.Error(err))
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:    msgMissingFields,
				Required: RequiredCreateFields,
			})
			return
		}
		h.logger(c).Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   msgInvalidBody,
			Message: err.Error(),
		})
		return
	}

	h.logger(c).Info("CreateUser request", zap.String("email", req.Email))

	u, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		h.logger(c).Error("CreateUser failed", zap.Error(err))
		h.handleError(c, err, msgFailedCreate)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		Success: true,
		Data:    u,
		Message: msgUserCreated,
	})
}

// UpdateUser handles PATCH /api/:version/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	// an empty body is an empty patch
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger(c).Warn("invalid update user request", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   msgInvalidBody,
			Message: err.Error(),
		})
		return
	}

	h.logger(c).Info("UpdateUser request", zap.Int64("id", id))

	in := user.UpdateUserRequest{
		ID:        id,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), in)
	if err != nil {
		h.logger(c).Error("UpdateUser failed", zap.Int64("id", id), zap.Error(err))
		h.handleError(c, err, msgFailedUpdate)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgUserNotFound})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		Success: true,
		Data:    u,
		Message: msgUserUpdated,
	})
}

// DeleteUser handles DELETE /api/:version/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	h.logger(c).Info("DeleteUser request", zap.Int64("id", id))

	deleted, err := h.uc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.logger(c).Error("DeleteUser failed", zap.Int64("id", id), zap.Error(err))
		h.handleError(c, err, msgFailedDelete)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgUserNotFound})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		Success: true,
		Message: msgUserDeleted,
	})
}

// parseID reads the :id path parameter. On failure it writes a 400 and returns false.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger(c).Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidUserID})
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses.
// Client errors carry the error text; anything else is reported under fallback.
func (h *UserHandler) handleError(c *gin.Context, err error, fallback string) {
	status := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		c.JSON(status, ErrorResponse{
			Error:   fallback,
			Message: err.Error(),
		})
		return
	}

	c.JSON(status, ErrorResponse{Error: clientMessage(err)})
}

// clientMessage strips the "validation failed" framing from validation errors.
func clientMessage(err error) string {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func (h *UserHandler) logger(c *gin.Context) *zap.Logger {
	return logger.WithContext(c.Request.Context(), h.log)
}
