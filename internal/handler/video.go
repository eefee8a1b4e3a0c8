package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/reelmint/api/internal/model"
	"github.com/reelmint/api/internal/registry"
	"github.com/reelmint/api/internal/service"
	"github.com/reelmint/api/pkg/response"
)

type VideoHandler struct {
	service   *service.VideoService
	validator *validator.Validate
}

func NewVideoHandler(svc *service.VideoService, v *validator.Validate) *VideoHandler {
	return &VideoHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/videos/generate
func (h *VideoHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.BadRequest(c, formatValidationErrors(err))
	}

	result, err := h.service.Submit(c.Context(), &req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return response.BadRequest(c, ve.Message)
		}
		return response.ServerError(c, err.Error())
	}

	return response.OK(c, result)
}

// Status handles GET /api/videos/status/:jobId
func (h *VideoHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.BadRequest(c, "job id is required")
	}

	job, err := h.service.Status(jobID)
	if err != nil {
		if errors.Is(err, registry.ErrJobNotFound) {
			return response.NotFound(c, "job not found: "+jobID)
		}
		return response.ServerError(c, err.Error())
	}

	return response.OK(c, job)
}

// formatValidationErrors flattens validator errors into one message.
func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		parts := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			parts = append(parts, fmt.Sprintf("%s is %s", e.Field(), e.Tag()))
		}
		return "validation failed: " + strings.Join(parts, ", ")
	}
	return "validation failed"
}
