package handlers

import (
	"strings"

	"puravida/internal/domain"
	"puravida/internal/log"
	"puravida/internal/services"
	"puravida/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Cart    *services.CartService
}

// productCard is a product with the quantity already in the visitor's cart.
type productCard struct {
	domain.Product
	InCart int
}

func (h *ProductHandler) cards(c *fiber.Ctx, products []domain.Product) []productCard {
	sid, ok := currentSID(c)
	out := make([]productCard, len(products))
	for i, p := range products {
		out[i] = productCard{Product: p}
		if ok {
			out[i].InCart = h.Cart.QuantityOf(c.UserContext(), sid, p.ID)
		}
	}
	return out
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.Slug(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			category = ""
		}
	}
	v, err := h.Catalog.Products(category)
	if err != nil {
		return err
	}
	return render(c, "products", fiber.Map{
		"Featured":   h.cards(c, v.Featured),
		"Regular":    h.cards(c, v.Regular),
		"Categories": v.Categories,
		"Selected":   v.Category,
		"Empty":      len(v.Featured)+len(v.Regular) == 0,
	})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This item is no longer available")
	}
	p, err := h.Catalog.Product(slug)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound(c, "This item is no longer available")
	}
	return render(c, "product", fiber.Map{"P": h.cards(c, []domain.Product{*p})[0]})
}
