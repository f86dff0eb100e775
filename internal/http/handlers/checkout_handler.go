package handlers

import (
	"errors"

	"puravida/internal/domain"
	"puravida/internal/log"
	"puravida/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	Carts    *CartHandler
	Checkout *services.CheckoutService
}

func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	sid := h.Carts.ensureSID(c)
	sum := h.Carts.Cart.View(c.UserContext(), sid)
	if len(sum.Lines) == 0 {
		return c.Redirect("/cart")
	}
	return render(c, "checkout", fiber.Map{
		"Form":   domain.CheckoutFormData{Country: domain.DefaultCountry},
		"Cart":   sum,
		"Errors": services.FormErrors{},
	})
}

func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	sid := h.Carts.ensureSID(c)
	var form domain.CheckoutFormData
	if err := c.BodyParser(&form); err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "checkout", "err": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString("invalid form")
	}

	order, err := h.Checkout.Submit(c.UserContext(), sid, form)
	var fe services.FormErrors
	switch {
	case errors.As(err, &fe):
		log.Info(c, "checkout.invalid", map[string]any{"fields": len(fe)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "checkout", fiber.Map{
			"Form":   form,
			"Cart":   h.Carts.Cart.View(c.UserContext(), sid),
			"Errors": fe,
		})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Redirect("/cart")
	case err != nil:
		log.Error(c, "checkout.error", err, nil)
		c.Status(fiber.StatusInternalServerError)
		return render(c, "checkout", fiber.Map{
			"Form":   form,
			"Cart":   h.Carts.Cart.View(c.UserContext(), sid),
			"Errors": services.FormErrors{},
			"Err":    "We could not place your order. Please try again.",
		})
	}

	// the badge was computed before the cart was cleared
	c.Locals("CartCount", 0)
	return render(c, "order_complete", fiber.Map{"Order": order})
}
