package handlers

import (
	"puravida/internal/domain"
	"puravida/internal/log"
	"puravida/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	Contact *services.ContactService
}

func (h *ContactHandler) Form(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{"Msg": domain.ContactMessage{}})
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var msg domain.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "contact"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid form")
	}
	res := h.Contact.Send(c.UserContext(), msg)
	if !res.Success {
		log.Info(c, "contact.rejected", map[string]any{"reason": res.Error})
		c.Status(fiber.StatusBadRequest)
		return render(c, "contact", fiber.Map{"Msg": msg, "Result": res})
	}
	return render(c, "contact", fiber.Map{"Msg": domain.ContactMessage{}, "Result": res})
}

// API accepts a JSON submission and answers with the contact result.
func (h *ContactHandler) API(c *fiber.Ctx) error {
	var msg domain.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.ContactResult{Error: "All fields are required"})
	}
	res := h.Contact.Send(c.UserContext(), msg)
	if !res.Success {
		c.Status(fiber.StatusBadRequest)
	}
	return c.JSON(res)
}
