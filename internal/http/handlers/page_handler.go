package handlers

import (
	"puravida/internal/log"
	"puravida/internal/services"
	"puravida/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the blog pages.
type PageHandler struct {
	Catalog *services.CatalogService
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	v, err := h.Catalog.Home()
	if err != nil {
		return err
	}
	return render(c, "home", fiber.Map{"Posts": v.Posts, "Categories": v.Categories})
}

func (h *PageHandler) Blog(c *fiber.Ctx) error {
	v, err := h.Catalog.Home()
	if err != nil {
		return err
	}
	return render(c, "blog", fiber.Map{"Posts": v.Posts, "Categories": v.Categories})
}

func (h *PageHandler) Post(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "slug"})
		return notFound(c, "Post not found")
	}
	v, err := h.Catalog.Post(slug)
	if err != nil {
		return err
	}
	if v == nil {
		return notFound(c, "Post not found")
	}
	return render(c, "post", fiber.Map{"Post": v.Post, "Related": v.Related})
}

func (h *PageHandler) Author(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "slug"})
		return notFound(c, "Author not found")
	}
	v, err := h.Catalog.Author(slug)
	if err != nil {
		return err
	}
	if v == nil {
		return notFound(c, "Author not found")
	}
	return render(c, "author", fiber.Map{"Author": v.Author, "Posts": v.Posts})
}

func (h *PageHandler) About(c *fiber.Ctx) error {
	authors, err := h.Catalog.About()
	if err != nil {
		return err
	}
	return render(c, "about", fiber.Map{"Authors": authors})
}

func Health(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) }
