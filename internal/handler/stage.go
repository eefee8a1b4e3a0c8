package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/reelmint/api/internal/service"
	"github.com/reelmint/api/pkg/response"
)

type StageHandler struct {
	service *service.StageService
}

func NewStageHandler(svc *service.StageService) *StageHandler {
	return &StageHandler{service: svc}
}

// Data handles GET /api/stages/data?stageId=N
func (h *StageHandler) Data(c *fiber.Ctx) error {
	raw := c.Query("stageId")
	if raw == "" {
		return response.BadRequest(c, "stageId query parameter is required")
	}

	stageID, err := strconv.Atoi(raw)
	if err != nil {
		return response.BadRequest(c, "stageId must be an integer")
	}

	result, err := h.service.GetStage(stageID)
	if err != nil {
		return response.ServerError(c, err.Error())
	}

	return response.OK(c, result)
}
