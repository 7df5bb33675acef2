package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves user management and the dashboard.
type AdminHandler struct {
	users     *services.UserService
	dashboard *services.DashboardService
	validate  *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *services.UserService, dashboard *services.DashboardService) *AdminHandler {
	return &AdminHandler{users: users, dashboard: dashboard, validate: validator.New()}
}

// RegisterAdminRoutes registers the routes on an admin group.
func (h *AdminHandler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/dashboard", h.HandleDashboard)

	users := admin.Group("/users")
	users.Get("/", h.HandleListUsers)
	users.Put("/:id", h.HandleUpdateUser)
	users.Delete("/:id", h.HandleDeleteUser)
	users.Post("/:id/reset-password", h.HandleResetPassword)
}

// UpdateUserRequest is the body of PUT /admin/users/:id.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=ADMIN USER"`
}

// ResetPasswordRequest is the body of the password reset call.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// HandleDashboard returns store-wide figures.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return respondError(c, "Could not load dashboard", err)
	}
	return c.JSON(stats)
}

// HandleListUsers lists all accounts.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// HandleUpdateUser edits an account.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.users.UpdateUser(c.UserContext(), c.Params("id"), services.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.Role(req.Role),
	})
	if err != nil {
		return respondError(c, "Could not update user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser removes an account other than the caller's own.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.users.DeleteUser(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, "Could not delete user", err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// HandleResetPassword sets a new password for an account.
func (h *AdminHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	if err := h.users.ResetPassword(c.UserContext(), c.Params("id"), req.Password); err != nil {
		return respondError(c, "Could not reset password", err)
	}
	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
