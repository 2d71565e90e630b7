package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soratani/task-tracker-api/internal/dto"
	apierrors "github.com/soratani/task-tracker-api/internal/errors"
	"github.com/soratani/task-tracker-api/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// ListUsers returns every user.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetUserByUsername returns a user by username.
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	user, err := h.userService.GetUserByUsername(c.Param("username"))
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates a user through the admin surface. Same semantics as
// registration: hashed password, uniqueness check, role rows.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username string   `json:"username" binding:"required,max=50"`
		Password string   `json:"password" binding:"required"`
		Roles    []string `json:"roles"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// DeleteUser removes a user by ID.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondAuthError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUserByUsername removes a user by username.
func (h *UserHandler) DeleteUserByUsername(c *gin.Context) {
	username, exists := c.GetQuery("username")
	if !exists {
		apierrors.BadRequest(c, "username parameter is required")
		return
	}

	if err := h.userService.DeleteUserByUsername(username); err != nil {
		respondAuthError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CountUsers returns the user count.
func (h *UserHandler) CountUsers(c *gin.Context) {
	count, err := h.userService.CountUsers()
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// UsernameExists reports whether a username is taken.
func (h *UserHandler) UsernameExists(c *gin.Context) {
	username, exists := c.GetQuery("username")
	if !exists {
		apierrors.BadRequest(c, "username parameter is required")
		return
	}

	taken, err := h.userService.UsernameExists(username)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": taken})
}

// UpdatePassword replaces a user's password.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	type UpdatePasswordRequest struct {
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdatePassword(c.Param("username"), req.NewPassword)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
