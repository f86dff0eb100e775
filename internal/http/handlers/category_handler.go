package handlers

import (
	"puravida/internal/log"
	"puravida/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// Category lists the posts filed under one category.
func (h *PageHandler) Category(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return notFound(c, "Category not found")
	}
	v, err := h.Catalog.Category(slug)
	if err != nil {
		return err
	}
	if v == nil {
		return notFound(c, "Category not found")
	}
	return render(c, "category", fiber.Map{"Category": v.Category, "Posts": v.Posts})
}
