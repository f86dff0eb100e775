package handlers

import (
	"errors"
	"time"

	"puravida/internal/log"
	"puravida/internal/services"
	"puravida/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sidCookie = "sid"

type CartHandler struct {
	Cart         *services.CartService
	CookieMaxAge time.Duration
	SecureCookie bool
}

// ensureSID returns the visitor's anonymous session id, issuing one if needed.
func (h *CartHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(sidCookie)
	if _, err := uuid.Parse(sid); err == nil {
		return sid
	}
	sid = uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(h.CookieMaxAge / time.Second),
		HTTPOnly: true,
		Secure:   h.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return sid
}

// Badge puts the cart item count in Locals for the header. Visitors without
// a session id have an empty cart and are not given one.
func (h *CartHandler) Badge(c *fiber.Ctx) error {
	n := 0
	if sid, ok := currentSID(c); ok {
		n = h.Cart.Count(c.UserContext(), sid)
	}
	c.Locals("CartCount", n)
	return c.Next()
}

// currentSID returns the visitor's session id without issuing one.
func currentSID(c *fiber.Ctx) (string, bool) {
	sid := c.Cookies(sidCookie)
	if _, err := uuid.Parse(sid); err != nil {
		return "", false
	}
	return sid, true
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	return render(c, "cart", fiber.Map{"Cart": h.Cart.View(c.UserContext(), sid)})
}

// Summary is the JSON form of the cart, used by the header badge script.
func (h *CartHandler) Summary(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	sum := h.Cart.View(c.UserContext(), sid)
	return c.JSON(fiber.Map{"count": sum.TotalItems, "summary": sum})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	slug, ok := validate.Slug(c.FormValue("slug"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "slug"})
		return c.Status(fiber.StatusBadRequest).SendString("missing product")
	}
	qty := validate.Qty(c.FormValue("qty"))

	p, err := h.Cart.Add(c.UserContext(), sid, slug, qty)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return notFound(c, "This item is no longer available")
	case errors.Is(err, services.ErrOutOfStock):
		c.Status(fiber.StatusConflict)
		return render(c, "product", fiber.Map{
			"P":   productCard{Product: *p, InCart: h.Cart.QuantityOf(c.UserContext(), sid, p.ID)},
			"Err": "This item is currently out of stock",
		})
	case err != nil:
		return err
	}
	log.Info(c, "cart.add", map[string]any{"product": p.ID, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	id, ok := validate.Slug(c.FormValue("productId"))
	qty, qok := validate.SetQty(c.FormValue("qty"))
	if !ok || !qok {
		log.Security(c, "validation.fail", map[string]any{"field": "cart.update"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid cart update")
	}
	h.Cart.Update(c.UserContext(), sid, id, qty)
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	id, ok := validate.Slug(c.FormValue("productId"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	h.Cart.Remove(c.UserContext(), sid, id)
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	h.Cart.Clear(c.UserContext(), sid)
	return c.Redirect("/cart")
}
