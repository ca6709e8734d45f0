package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fakestore-ingestor/internal/apperr"
	"fakestore-ingestor/internal/log"
	"fakestore-ingestor/internal/services"
	"fakestore-ingestor/internal/validate"
)

type ImportHandler struct {
	Imports *services.ImportService
}

// POST /import/:count?
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	limit, ok := validate.Count(c.Params("count"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "count"})
		return apperr.BadRequest("count must be an integer")
	}

	importID := uuid.NewString()
	log.Info(c, "import.start", map[string]any{"import_id": importID, "limit": limit})

	res, err := h.Imports.Import(c.UserContext(), limit)
	if err != nil {
		log.Error(c, "import.fail", err, map[string]any{
			"import_id": importID,
			"kind":      apperr.GetKind(err).String(),
		})
		return err
	}

	log.Audit(c, "import.done", map[string]any{
		"import_id": importID,
		"imported":  res.Imported,
		"saved":     res.Saved,
	})
	return c.JSON(res)
}
