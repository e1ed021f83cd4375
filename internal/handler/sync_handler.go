package handler

import (
	"tindahan-pos/internal/model"
	"tindahan-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SyncHandler serves the flat terminal sync routes at the server root
type SyncHandler struct {
	service service.InventoryService
}

func NewSyncHandler(s service.InventoryService) *SyncHandler {
	return &SyncHandler{service: s}
}

type syncItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type syncRequest struct {
	ID       uint `json:"id"`
	Quantity int  `json:"quantity"`
}

// GET /inventory
func (h *SyncHandler) ListInventory(c *fiber.Ctx) error {
	rows, err := h.service.ListInventory(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	items := make([]syncItem, len(rows))
	for i, r := range rows {
		items[i] = syncItem{ID: r.ProductID, Name: r.Name, Quantity: r.Quantity}
	}
	return c.JSON(items)
}

func syncResult(inv *model.InventoryView) fiber.Map {
	return fiber.Map{
		"success": true,
		"item":    syncItem{ID: inv.ProductID, Name: inv.Name, Quantity: inv.Quantity},
	}
}

// POST /resupply
func (h *SyncHandler) Resupply(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	inv, err := h.service.QuickResupply(c.UserContext(), req.ID, req.Quantity, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(syncResult(inv))
}

// POST /sales. Unknown products answer 400 like a shortage.
func (h *SyncHandler) Sell(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	inv, err := h.service.QuickSell(c.UserContext(), req.ID, req.Quantity, currentUserID(c))
	if err != nil {
		if statusFor(err) == fiber.StatusNotFound {
			return badRequest(c, err.Error())
		}
		return errorResponse(c, err)
	}
	return c.JSON(syncResult(inv))
}
