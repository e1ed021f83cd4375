package handler

import (
	"tindahan-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GET /api/v1/products
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	product, err := h.service.AddProduct(c.UserContext(), &req, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req service.ProductUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/v1/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GET /api/v1/suppliers
func (h *CatalogHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(suppliers)
}

// GET /api/v1/suppliers/:id
func (h *CatalogHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid supplier ID")
	}
	supplier, err := h.service.GetSupplier(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(supplier)
}

// POST /api/v1/suppliers
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	supplier, err := h.service.AddSupplier(c.UserContext(), &req, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

// PUT /api/v1/suppliers/:id
func (h *CatalogHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid supplier ID")
	}
	var req service.SupplierInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	supplier, err := h.service.UpdateSupplier(c.UserContext(), id, &req, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

// DELETE /api/v1/suppliers/:id
func (h *CatalogHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid supplier ID")
	}
	if err := h.service.DeleteSupplier(c.UserContext(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
