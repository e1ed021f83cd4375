package handler

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"tindahan-pos/internal/service"
	"tindahan-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportingService
}

func NewReportHandler(s service.ReportingService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDashboardStats returns overview statistics and alert notifications
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.DashboardStats(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

func (h *ReportHandler) GetTodaysSales(c *fiber.Ctx) error {
	total, err := h.service.TodaysSalesTotal(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"total": total})
}

func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.service.LowStockItems(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(items)
}

// GetExpired accepts ?as_of=YYYY-MM-DD, defaulting to today
func (h *ReportHandler) GetExpired(c *fiber.Ctx) error {
	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(validator.DateLayout, raw)
		if err != nil {
			return badRequest(c, "as_of must be YYYY-MM-DD")
		}
		asOf = parsed
	}
	items, err := h.service.ExpiredItems(c.UserContext(), asOf)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(items)
}

// GetSalesHistory pages with ?limit=&offset=
func (h *ReportHandler) GetSalesHistory(c *fiber.Ctx) error {
	var page service.Page
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "Invalid paging parameters")
	}
	rows, err := h.service.SalesHistory(c.UserContext(), page)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(rows)
}

func (h *ReportHandler) ExportSalesHistory(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportSalesHistory(c.UserContext(), &buf); err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=sales-%s.xlsx", time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.StockMovement(c.UserContext(), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
