package handlers

import (
	"strings"

	"puravida/internal/log"
	"puravida/internal/services"
	"puravida/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Search *services.SearchService
}

func (h *SearchHandler) Page(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		// Initial page load: show empty search without errors
		return render(c, "search", fiber.Map{"Q": "", "Posts": []any{}, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		c.Status(fiber.StatusBadRequest)
		return render(c, "search", fiber.Map{
			"Q": "", "Posts": []any{}, "Count": 0, "Err": "Enter a valid search term",
		})
	}

	posts, err := h.Search.Search(q)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return err
	}
	return render(c, "search", fiber.Map{"Q": q, "Posts": posts, "Count": len(posts)})
}

// Suggestions backs the search box autocomplete.
func (h *SearchHandler) Suggestions(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return c.JSON(fiber.Map{"suggestions": []string{}})
	}
	return c.JSON(fiber.Map{"suggestions": h.Search.Suggest(q)})
}
