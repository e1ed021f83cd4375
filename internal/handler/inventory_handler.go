package handler

import (
	"tindahan-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GET /api/v1/inventory
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	rows, err := h.service.ListInventory(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(rows)
}

// POST /api/v1/inventory/resupply
func (h *InventoryHandler) Resupply(c *fiber.Ctx) error {
	var req service.ResupplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	req.UserID = currentUserID(c)

	event, err := h.service.Resupply(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Resupply recorded", "data": event})
}

// POST /api/v1/sales
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	req.UserID = currentUserID(c)

	receipt, err := h.service.Sell(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": receipt})
}

// GET /api/v1/sales/:id
func (h *InventoryHandler) GetSale(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid sale ID")
	}
	receipt, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(receipt)
}

// GET /api/v1/products/:id/resupplies
func (h *InventoryHandler) GetResupplyHistory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	events, err := h.service.ResupplyHistory(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(events)
}
