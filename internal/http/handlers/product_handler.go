package handlers

import (
	"fakestore-ingestor/internal/apperr"
	"fakestore-ingestor/internal/services"
	"fakestore-ingestor/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(ps)
}

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("product not found")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}
