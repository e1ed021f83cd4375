package handler

import (
	"tindahan-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BackupHandler struct {
	service service.BackupService
}

func NewBackupHandler(s service.BackupService) *BackupHandler {
	return &BackupHandler{service: s}
}

// POST /api/v1/backups
func (h *BackupHandler) CreateBackup(c *fiber.Ctx) error {
	backup, err := h.service.CreateBackup(c.UserContext(), currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Backup created", "data": backup})
}

// GET /api/v1/backups
func (h *BackupHandler) GetBackups(c *fiber.Ctx) error {
	backups, err := h.service.ListBackups(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(backups)
}
