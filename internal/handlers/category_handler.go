package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler serves the brand / sub-brand tree.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the public, read-only category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/categories")
	r.Get("/", h.HandleList)
	r.Get("/tree", h.HandleTree)
	r.Get("/:id", h.HandleGet)
}

// RegisterAdminRoutes registers category management on an admin group.
func (h *CategoryHandler) RegisterAdminRoutes(admin fiber.Router) {
	r := admin.Group("/categories")
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Put("/:id", h.HandleUpdate)
	r.Delete("/:id", h.HandleDelete)
}

// CategoryRequest is the body of category create and update calls.
type CategoryRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	ParentID *string `json:"parentId" validate:"omitempty,max=36"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{Name: r.Name, ParentID: r.ParentID}
}

// HandleList returns brands and sub-brands as two lists.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	listing, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(listing)
}

// HandleTree returns brands with nested sub-brands.
func (h *CategoryHandler) HandleTree(c *fiber.Ctx) error {
	tree, err := h.service.Tree(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(tree)
}

// HandleGet returns one category.
func (h *CategoryHandler) HandleGet(c *fiber.Ctx) error {
	category, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve category", err)
	}
	return c.JSON(category)
}

// HandleCreate creates a brand or sub-brand.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req CategoryRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	category, err := h.service.Create(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdate renames or re-parents a category.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var req CategoryRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	category, err := h.service.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, "Could not update category", err)
	}
	return c.JSON(category)
}

// HandleDelete removes a leaf category without products.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete category", err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
